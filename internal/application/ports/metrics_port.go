package ports

import "time"

// PipelineMetrics puerto de instrumentación del pipeline. Implementado por
// infrastructure/metrics; NopMetrics cuando no se exportan métricas.
type PipelineMetrics interface {
	FetchRound(round, items int, elapsed time.Duration)
	FetchItem(outcome string)
	ArtifactWritten(kind string, rows int)
	TaskFinished(task string, err error, elapsed time.Duration)
}

// Resultados de FetchItem.
const (
	OutcomeFetched = "fetched"
	OutcomeRetried = "retried"
	OutcomeDropped = "dropped"
)

// NopMetrics implementación vacía.
type NopMetrics struct{}

func (NopMetrics) FetchRound(int, int, time.Duration)        {}
func (NopMetrics) FetchItem(string)                          {}
func (NopMetrics) ArtifactWritten(string, int)               {}
func (NopMetrics) TaskFinished(string, error, time.Duration) {}
