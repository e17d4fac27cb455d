package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/mruda-api/infrastructure/database/postgres"
	"github.com/vfg2006/mruda-api/internal/domain"
)

const rawPayloadTable = "raw_meta_data"

// RawPayloadRepository guarda as respostas brutas da ingestão. Registros nunca são alterados.
type RawPayloadRepository interface {
	Save(ctx context.Context, payload *domain.RawPayload) (int64, error)
	ListByWindow(ctx context.Context, window domain.DateWindow) ([]*domain.RawPayload, error)
	// FetchedSince informa se já existe payload com o mesmo date_stop buscado a partir de since
	FetchedSince(ctx context.Context, dateStop string, since time.Time) (bool, error)
}

type rawPayloadRepository struct {
	conn    postgres.Queryer
	timeout time.Duration
}

func NewRawPayloadRepository(conn postgres.Queryer, timeout time.Duration) RawPayloadRepository {
	return &rawPayloadRepository{
		conn:    conn,
		timeout: timeout,
	}
}

func (r *rawPayloadRepository) Save(ctx context.Context, payload *domain.RawPayload) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if payload.FetchedAt.IsZero() {
		payload.FetchedAt = time.Now().UTC()
	}

	query, args, err := squirrel.
		Insert(rawPayloadTable).
		Columns("endpoint", "entity_type", "entity_id", "date_start", "date_stop", "fetched_at", "payload_json").
		Values(
			payload.Endpoint,
			payload.EntityType,
			payload.EntityID,
			payload.DateStart,
			payload.DateStop,
			payload.FetchedAt,
			string(payload.PayloadJSON),
		).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, wrapDBError("montar inserção de payload bruto", err)
	}

	if err := r.conn.QueryRowxContext(ctx, query, args...).Scan(&payload.ID); err != nil {
		return 0, wrapDBError("gravar payload bruto", err)
	}

	return payload.ID, nil
}

func (r *rawPayloadRepository) ListByWindow(ctx context.Context, window domain.DateWindow) ([]*domain.RawPayload, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := squirrel.
		Select("id, endpoint, entity_type, entity_id, to_char(date_start, 'YYYY-MM-DD') AS date_start, to_char(date_stop, 'YYYY-MM-DD') AS date_stop, fetched_at, payload_json").
		From(rawPayloadTable).
		Where(squirrel.Eq{"date_start": window.Start, "date_stop": window.Stop}).
		OrderBy("fetched_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, wrapDBError("montar consulta de payloads brutos", err)
	}

	payloads := make([]*domain.RawPayload, 0)
	if err := r.conn.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, wrapDBError("consultar payloads brutos", err)
	}

	return payloads, nil
}

func (r *rawPayloadRepository) FetchedSince(ctx context.Context, dateStop string, since time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := squirrel.
		Select("1").
		From(rawPayloadTable).
		Where(squirrel.Eq{"date_stop": dateStop}).
		Where(squirrel.GtOrEq{"fetched_at": since}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, wrapDBError("montar verificação de atualização", err)
	}

	var exists bool
	if err := r.conn.QueryRowxContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, wrapDBError("verificar dados já buscados", err)
	}

	return exists, nil
}
