// Package metrics instrumentación Prometheus del pipeline de stock.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stockdelta/internal/application/ports"
)

const namespace = "stockdelta"

var _ ports.PipelineMetrics = (*Pipeline)(nil)

// Pipeline colectores con registro propio, para no mezclar ejecuciones en tests.
type Pipeline struct {
	registry *prometheus.Registry

	fetchRounds    prometheus.Counter
	fetchRoundSize prometheus.Histogram
	fetchDuration  prometheus.Histogram
	fetchItems     *prometheus.CounterVec
	artifactRows   *prometheus.CounterVec
	artifacts      *prometheus.CounterVec
	tasks          *prometheus.CounterVec
	taskDuration   *prometheus.HistogramVec
	lastSuccess    *prometheus.GaugeVec
}

// New registra los colectores en un registro nuevo.
func New() *Pipeline {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Pipeline{
		registry: reg,
		fetchRounds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_rounds_total",
			Help:      "Rondas de descarga ejecutadas.",
		}),
		fetchRoundSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_round_items",
			Help:      "Artículos intentados por ronda.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		fetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_round_duration_seconds",
			Help:      "Duración de cada ronda de descarga.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		fetchItems: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_items_total",
			Help:      "Resultado por artículo: fetched, retried o dropped.",
		}, []string{"outcome"}),
		artifactRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_rows_total",
			Help:      "Filas escritas por tipo de artefacto.",
		}, []string{"kind"}),
		artifacts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Artefactos escritos por tipo.",
		}, []string{"kind"}),
		tasks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Tareas terminadas por resultado.",
		}, []string{"task", "result"}),
		taskDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duración de cada tarea.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"task"}),
		lastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "task_last_success_timestamp_seconds",
			Help:      "Unix time del último éxito de cada tarea.",
		}, []string{"task"}),
	}
}

func (p *Pipeline) FetchRound(round, items int, elapsed time.Duration) {
	p.fetchRounds.Inc()
	p.fetchRoundSize.Observe(float64(items))
	p.fetchDuration.Observe(elapsed.Seconds())
}

func (p *Pipeline) FetchItem(outcome string) {
	p.fetchItems.WithLabelValues(outcome).Inc()
}

func (p *Pipeline) ArtifactWritten(kind string, rows int) {
	p.artifacts.WithLabelValues(kind).Inc()
	p.artifactRows.WithLabelValues(kind).Add(float64(rows))
}

func (p *Pipeline) TaskFinished(task string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.tasks.WithLabelValues(task, result).Inc()
	p.taskDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	if err == nil {
		p.lastSuccess.WithLabelValues(task).SetToCurrentTime()
	}
}

// Registry expone el registro (tests y exportación).
func (p *Pipeline) Registry() *prometheus.Registry { return p.registry }

// Handler endpoint /metrics para el servidor HTTP.
func (p *Pipeline) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// WriteTextfile vuelca el registro al formato textfile de node_exporter.
// Pensado para las ejecuciones por CLI, que terminan antes de ser scrapeadas.
func (p *Pipeline) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, p.registry)
}
