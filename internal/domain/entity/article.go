package entity

import "time"

// Article artículo del maestro del cliente.
type Article struct {
	CustomerID int32
	ArticleID  int32
}

// ArticleCount histórico de cuántos artículos se obtuvieron del maestro cada día.
type ArticleCount struct {
	FetchedArticles int64
	FetchedDate     time.Time
}
