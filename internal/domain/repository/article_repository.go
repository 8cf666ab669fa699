package repository

import (
	"context"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// ArticleRepository puerto del catálogo diario de artículos y su histórico de conteos.
type ArticleRepository interface {
	SaveCatalog(ctx context.Context, customerID string, day entity.Day, articles []entity.Article) (path string, err error)
	AppendCount(ctx context.Context, customerID string, day entity.Day, count entity.ArticleCount) (path string, err error)
}
