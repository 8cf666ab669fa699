package ports

import (
	"context"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// StockAPI define el puerto de salida hacia la API remota de niveles de stock.
// Una llamada por artículo. Los fallos deben venir como *domain.TransportError
// para que el motor de descarga decida entre reintentar o descartar.
type StockAPI interface {
	FetchArticleStock(ctx context.Context, articleID int64) ([]entity.StockRow, error)
}
