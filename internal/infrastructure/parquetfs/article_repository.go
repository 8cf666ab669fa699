package parquetfs

import (
	"context"
	"errors"
	"io/fs"
	"sort"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
)

// ArticleRepo catálogo diario de artículos y conteo de artículos obtenidos.
type ArticleRepo struct {
	layout Layout
}

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

func NewArticleRepo(layout Layout) *ArticleRepo {
	return &ArticleRepo{layout: layout}
}

func (r *ArticleRepo) SaveCatalog(_ context.Context, customerID string, day entity.Day, articles []entity.Article) (string, error) {
	rows := make([]articleRow, len(articles))
	for i, a := range articles {
		rows[i] = articleRow{CustomerID: a.CustomerID, CustArtID: a.ArticleID}
	}
	path := r.layout.ArticleCatalog(customerID, day)
	return path, writeFile(path, rows)
}

// AppendCount añade el conteo al histórico; un conteo de la misma fecha reemplaza al anterior.
func (r *ArticleRepo) AppendCount(_ context.Context, customerID string, day entity.Day, count entity.ArticleCount) (string, error) {
	path := r.layout.ArticleCount(customerID, day)
	rows, err := readFile[articleCountRow](path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	kept := rows[:0]
	for _, row := range rows {
		if !row.FetchedDate.Equal(count.FetchedDate) {
			kept = append(kept, row)
		}
	}
	kept = append(kept, articleCountRow{FetchedArticles: count.FetchedArticles, FetchedDate: count.FetchedDate})
	sort.Slice(kept, func(i, j int) bool { return kept[i].FetchedDate.Before(kept[j].FetchedDate) })
	return path, writeFile(path, kept)
}

// Counts histórico de conteos en orden cronológico.
func (r *ArticleRepo) Counts(customerID string, day entity.Day) ([]entity.ArticleCount, error) {
	rows, err := readFile[articleCountRow](r.layout.ArticleCount(customerID, day))
	if err != nil {
		return nil, err
	}
	out := make([]entity.ArticleCount, len(rows))
	for i, row := range rows {
		out[i] = entity.ArticleCount{FetchedArticles: row.FetchedArticles, FetchedDate: row.FetchedDate}
	}
	return out, nil
}
