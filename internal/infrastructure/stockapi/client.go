// Package stockapi adaptador HTTP de la API remota de niveles de stock por artículo.
package stockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/stockdelta/internal/application/ports"
	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa StockAPI.
var _ ports.StockAPI = (*Client)(nil)

const maxBody = 4 << 20

// Config parámetros del cliente.
type Config struct {
	URL        string
	Token      string
	AuthScheme string // prefijo del header Authorization, p.ej. "BASIC"
	Timeout    time.Duration
}

// Client GET {URL}?id={articleId}. Una llamada por artículo.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient construye el adaptador. httpClient nil usa uno con cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// ── Protocolo ────────────────────────────────────────────────────────────────

type articleStock struct {
	ArticleID json.Number  `json:"articleId"`
	Stock     []stockEntry `json:"stock"`
}

type stockEntry struct {
	Branch    flexString `json:"branch"`
	Size      int32      `json:"size"`
	SizeIndex int32      `json:"sizeIndex"`
	Amount    int32      `json:"amount"`
}

// flexString la API manda branch a veces como número y a veces como texto.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// FetchArticleStock devuelve el stock del artículo en todas las sucursales.
// Los fallos se devuelven como *domain.TransportError; Retryable indica si tiene
// sentido volver a pedirlo.
func (c *Client) FetchArticleStock(ctx context.Context, articleID int64) ([]entity.StockRow, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("stock API: URL inválida: %w", err)
	}
	q := u.Query()
	q.Set("id", strconv.FormatInt(articleID, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("stock API: crear request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.AuthScheme+" "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// red, DNS, timeout o cancelación
		return nil, &domain.TransportError{ArticleID: articleID, Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &domain.TransportError{ArticleID: articleID, StatusCode: resp.StatusCode, Retryable: true, Err: fmt.Errorf("leer respuesta: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(articleID, resp.StatusCode, body)
	}

	var payload []articleStock
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.TransportError{ArticleID: articleID, StatusCode: resp.StatusCode, Retryable: true, Err: fmt.Errorf("deserializar respuesta: %w", err)}
	}
	if len(payload) == 0 {
		return nil, &domain.TransportError{ArticleID: articleID, StatusCode: resp.StatusCode, Retryable: false, Err: domain.ErrArticleNotFound}
	}

	first := payload[0]
	id := articleID
	if n, err := first.ArticleID.Int64(); err == nil {
		id = n
	}
	rows := make([]entity.StockRow, len(first.Stock))
	for i, s := range first.Stock {
		rows[i] = entity.StockRow{
			ArticleID: id,
			StoreID:   string(s.Branch),
			Size:      s.Size,
			SizeIndex: s.SizeIndex,
			Amount:    s.Amount,
		}
	}
	return rows, nil
}

// statusError 404 es definitivo; 408, 429 y 5xx se reintentan; el resto de 4xx no.
func statusError(articleID int64, status int, body []byte) error {
	snippet := string(body)
	if len(snippet) > 256 {
		snippet = snippet[:256]
	}
	cause := fmt.Errorf("respuesta: %s", snippet)
	switch {
	case status == http.StatusNotFound:
		return &domain.TransportError{ArticleID: articleID, StatusCode: status, Retryable: false, Err: errors.Join(domain.ErrArticleNotFound, cause)}
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return &domain.TransportError{ArticleID: articleID, StatusCode: status, Retryable: true, Err: cause}
	default:
		return &domain.TransportError{ArticleID: articleID, StatusCode: status, Retryable: false, Err: cause}
	}
}
