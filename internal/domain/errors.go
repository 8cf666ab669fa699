package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrTransport           = errors.New("fallo de transporte con la API de stock")
	ErrArticleNotFound     = errors.New("artículo desconocido para la API de stock")
	ErrNoExecutions        = errors.New("no hay ejecuciones registradas")
	ErrLedgerInconsistency = errors.New("registro de ejecuciones inconsistente")
	ErrMissingSnapshot     = errors.New("snapshot de stock inexistente")
	ErrFetchExhausted      = errors.New("reintentos agotados sin convergencia")
	ErrAmountOutOfRange    = errors.New("cantidad fuera de rango")
)

// TransportError fallo de la llamada remota para un artículo. Retryable indica si
// el artículo debe volver a intentarse en la siguiente ronda.
type TransportError struct {
	ArticleID  int64
	StatusCode int // 0 si no hubo respuesta HTTP
	Retryable  bool
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("artículo %d: HTTP %d: %v", e.ArticleID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("artículo %d: %v", e.ArticleID, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// FetchExhaustedError se devuelve cuando quedan artículos pendientes tras MaxRounds rondas.
type FetchExhaustedError struct {
	Rounds  int
	Pending []int64
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("%v: %d artículos pendientes tras %d rondas", ErrFetchExhausted, len(e.Pending), e.Rounds)
}

func (e *FetchExhaustedError) Unwrap() error { return ErrFetchExhausted }

// AmountOutOfRangeError valor que no cabe en el tipo de almacenamiento del pivot.
type AmountOutOfRangeError struct {
	ArticleID int64
	Store     string
	Size      int32
	Value     int64
}

func (e *AmountOutOfRangeError) Error() string {
	return fmt.Sprintf("%v: artículo %d, tienda %s, talla %d: %d", ErrAmountOutOfRange, e.ArticleID, e.Store, e.Size, e.Value)
}

func (e *AmountOutOfRangeError) Unwrap() error { return ErrAmountOutOfRange }

// LedgerInconsistencyError la fecha actual no aparece en el conjunto de días del registro.
type LedgerInconsistencyError struct {
	Current string
	Known   []string
}

func (e *LedgerInconsistencyError) Error() string {
	return fmt.Sprintf("%v: fecha actual %s ausente de [%s]", ErrLedgerInconsistency, e.Current, strings.Join(e.Known, ", "))
}

func (e *LedgerInconsistencyError) Unwrap() error { return ErrLedgerInconsistency }
