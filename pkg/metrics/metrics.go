package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Registry concentra as métricas Prometheus da API e do pipeline de análise
type Registry struct {
	registry *prometheus.Registry

	StageDuration    *prometheus.HistogramVec
	PipelineRuns     *prometheus.CounterVec
	IngestionErrors  *prometheus.CounterVec
	MetricsUpserted  *prometheus.CounterVec
	SnapshotCache    *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	LastRunTimestamp prometheus.Gauge
}

// NewRegistry cria um registro isolado, seguro para múltiplas instâncias em testes
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mruda_pipeline_stage_duration_seconds",
				Help:    "Duração de cada etapa do pipeline de análise",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage", "result"},
		),

		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mruda_pipeline_runs_total",
				Help: "Execuções do pipeline por resultado",
			},
			[]string{"result"},
		),

		IngestionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mruda_ingestion_errors_total",
				Help: "Falhas de ingestão por nível de entidade",
			},
			[]string{"level"},
		),

		MetricsUpserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mruda_normalized_metrics_total",
				Help: "Métricas normalizadas gravadas por nível e operação",
			},
			[]string{"level", "operation"},
		),

		SnapshotCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mruda_snapshot_cache_total",
				Help: "Consultas ao cache do último snapshot",
			},
			[]string{"result"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mruda_http_requests_total",
				Help: "Requisições HTTP por rota, método e status",
			},
			[]string{"path", "method", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mruda_http_request_duration_seconds",
				Help:    "Duração das requisições HTTP",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mruda_pipeline_last_success_timestamp_seconds",
				Help: "Momento da última execução bem sucedida do pipeline",
			},
		),
	}

	r.registry.MustRegister(
		r.StageDuration,
		r.PipelineRuns,
		r.IngestionErrors,
		r.MetricsUpserted,
		r.SnapshotCache,
		r.HTTPRequests,
		r.HTTPDuration,
		r.LastRunTimestamp,
	)

	return r
}

// Gatherer expõe o registro para testes
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serve as métricas no formato de exposição do Prometheus
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// StageTimer mede a duração de uma etapa do pipeline
type StageTimer struct {
	registry *Registry
	stage    string
	start    time.Time
}

func (r *Registry) StartStage(stage string) *StageTimer {
	return &StageTimer{registry: r, stage: stage, start: time.Now()}
}

// Stop registra a duração com o resultado informado ("success" ou "error")
func (t *StageTimer) Stop(result string) {
	if t == nil || t.registry == nil {
		return
	}

	duration := time.Since(t.start)
	t.registry.StageDuration.WithLabelValues(t.stage, result).Observe(duration.Seconds())

	logrus.WithFields(logrus.Fields{
		"stage":       t.stage,
		"result":      result,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Etapa do pipeline concluída")
}
