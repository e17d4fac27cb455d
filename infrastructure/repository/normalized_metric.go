package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/mruda-api/infrastructure/database/postgres"
	"github.com/vfg2006/mruda-api/internal/domain"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks github.com/vfg2006/mruda-api/infrastructure/repository NormalizedMetricRepository,RawPayloadRepository,AnalysisResultRepository

const normalizedMetricsTable = "normalized_metrics"

// NormalizedMetricRepository é o armazenamento de métricas normalizadas.
// A chave (source, entity_type, entity_id, date, metric_name) é única.
type NormalizedMetricRepository interface {
	// Upsert grava a métrica e informa se um novo registro foi criado
	Upsert(ctx context.Context, metric domain.NormalizedMetric) (bool, error)
	Query(ctx context.Context, query domain.MetricQuery) ([]domain.NormalizedMetric, error)
}

type normalizedMetricRepository struct {
	conn    postgres.Queryer
	timeout time.Duration
}

func NewNormalizedMetricRepository(conn postgres.Queryer, timeout time.Duration) NormalizedMetricRepository {
	return &normalizedMetricRepository{
		conn:    conn,
		timeout: timeout,
	}
}

func (r *normalizedMetricRepository) Upsert(ctx context.Context, metric domain.NormalizedMetric) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := squirrel.
		Insert(normalizedMetricsTable).
		Columns("source", "entity_type", "entity_id", "entity_name", "date", "metric_name", "metric_value", "metric_type", "updated_at").
		Values(
			metric.Source,
			metric.EntityType,
			metric.EntityID,
			metric.EntityName,
			metric.Date,
			metric.MetricName,
			metric.MetricValue,
			metric.MetricType,
			squirrel.Expr("NOW()"),
		).
		Suffix(`
			ON CONFLICT (source, entity_type, entity_id, date, metric_name) DO UPDATE SET
				metric_value = EXCLUDED.metric_value,
				entity_name = EXCLUDED.entity_name,
				metric_type = EXCLUDED.metric_type,
				updated_at = NOW()
			RETURNING (xmax = 0) AS created
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, wrapDBError("montar upsert de métrica", err)
	}

	// xmax = 0 só é verdadeiro para linhas recém inseridas
	var created bool
	if err := r.conn.QueryRowxContext(ctx, query, args...).Scan(&created); err != nil {
		return false, wrapDBError("gravar métrica normalizada", err)
	}

	return created, nil
}

func (r *normalizedMetricRepository) Query(ctx context.Context, q domain.MetricQuery) ([]domain.NormalizedMetric, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	builder := squirrel.
		Select("id, source, entity_type, entity_id, entity_name, to_char(date, 'YYYY-MM-DD') AS date, metric_name, metric_value, metric_type, updated_at").
		From(normalizedMetricsTable).
		Where(squirrel.GtOrEq{"date": q.Window.Start}).
		Where(squirrel.LtOrEq{"date": q.Window.Stop}).
		OrderBy("date ASC", "entity_type ASC", "entity_id ASC", "metric_name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if q.Source != "" {
		builder = builder.Where(squirrel.Eq{"source": q.Source})
	}
	if q.EntityType != "" {
		builder = builder.Where(squirrel.Eq{"entity_type": q.EntityType})
	}
	if q.EntityID != "" {
		builder = builder.Where(squirrel.Eq{"entity_id": q.EntityID})
	}
	if q.MetricName != "" {
		builder = builder.Where(squirrel.Eq{"metric_name": q.MetricName})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, wrapDBError("montar consulta de métricas", err)
	}

	metrics := make([]domain.NormalizedMetric, 0)
	if err := r.conn.SelectContext(ctx, &metrics, query, args...); err != nil {
		return nil, wrapDBError("consultar métricas normalizadas", err)
	}

	return metrics, nil
}
