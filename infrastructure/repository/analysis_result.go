package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/mruda-api/infrastructure/database/postgres"
	"github.com/vfg2006/mruda-api/internal/domain"
)

const (
	analysisResultsTable  = "analysis_results"
	analysisResultColumns = "id, created_at, schema_version, to_char(date_range_start, 'YYYY-MM-DD') AS date_range_start, to_char(date_range_end, 'YYYY-MM-DD') AS date_range_end, result_json"
)

// AnalysisResultRepository guarda os snapshots dos relatórios, somente inserção
type AnalysisResultRepository interface {
	Save(ctx context.Context, snapshot *domain.AnalysisSnapshot) (int64, error)
	// Latest retorna nil, nil quando ainda não há snapshot
	Latest(ctx context.Context) (*domain.AnalysisSnapshot, error)
	// List filtra pelo fim da janela quando dateFilter não é vazio
	List(ctx context.Context, dateFilter string, limit int) ([]*domain.AnalysisSnapshot, error)
}

type analysisResultRepository struct {
	conn    postgres.Queryer
	timeout time.Duration
}

func NewAnalysisResultRepository(conn postgres.Queryer, timeout time.Duration) AnalysisResultRepository {
	return &analysisResultRepository{
		conn:    conn,
		timeout: timeout,
	}
}

func (r *analysisResultRepository) Save(ctx context.Context, snapshot *domain.AnalysisSnapshot) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := squirrel.
		Insert(analysisResultsTable).
		Columns("schema_version", "date_range_start", "date_range_end", "result_json").
		Values(snapshot.SchemaVersion, snapshot.DateRangeStart, snapshot.DateRangeEnd, string(snapshot.ResultJSON)).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, wrapDBError("montar inserção de snapshot", err)
	}

	if err := r.conn.QueryRowxContext(ctx, query, args...).Scan(&snapshot.ID, &snapshot.CreatedAt); err != nil {
		return 0, wrapDBError("gravar snapshot de análise", err)
	}

	return snapshot.ID, nil
}

func (r *analysisResultRepository) Latest(ctx context.Context) (*domain.AnalysisSnapshot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := squirrel.
		Select(analysisResultColumns).
		From(analysisResultsTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, wrapDBError("montar consulta do último snapshot", err)
	}

	snapshot := &domain.AnalysisSnapshot{}
	if err := r.conn.GetContext(ctx, snapshot, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapDBError("consultar último snapshot", err)
	}

	return snapshot, nil
}

func (r *analysisResultRepository) List(ctx context.Context, dateFilter string, limit int) ([]*domain.AnalysisSnapshot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	builder := squirrel.
		Select(analysisResultColumns).
		From(analysisResultsTable).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if dateFilter != "" {
		builder = builder.Where(squirrel.Eq{"date_range_end": dateFilter})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, wrapDBError("montar listagem de snapshots", err)
	}

	snapshots := make([]*domain.AnalysisSnapshot, 0)
	if err := r.conn.SelectContext(ctx, &snapshots, query, args...); err != nil {
		return nil, wrapDBError("listar snapshots", err)
	}

	return snapshots, nil
}
