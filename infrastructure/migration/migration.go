package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/infrastructure/database/postgres"
)

type statement struct {
	name  string
	query string
}

// statements são idempotentes e executados em ordem
var statements = []statement{
	{
		name: "normalized_metrics",
		query: `CREATE TABLE IF NOT EXISTS normalized_metrics (
			id           BIGSERIAL PRIMARY KEY,
			source       VARCHAR(50)  NOT NULL,
			entity_type  VARCHAR(20)  NOT NULL,
			entity_id    VARCHAR(100) NOT NULL,
			entity_name  VARCHAR(500) NOT NULL DEFAULT '',
			date         DATE         NOT NULL,
			metric_name  VARCHAR(100) NOT NULL,
			metric_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			metric_type  VARCHAR(20)  NOT NULL DEFAULT 'unknown',
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_normalized_metric UNIQUE (source, entity_type, entity_id, date, metric_name)
		)`,
	},
	{
		name:  "idx_normalized_metrics_lookup",
		query: `CREATE INDEX IF NOT EXISTS idx_normalized_metrics_lookup ON normalized_metrics (source, entity_type, date)`,
	},
	{
		name: "raw_meta_data",
		query: `CREATE TABLE IF NOT EXISTS raw_meta_data (
			id           BIGSERIAL PRIMARY KEY,
			endpoint     VARCHAR(100) NOT NULL,
			entity_type  VARCHAR(20)  NOT NULL,
			entity_id    VARCHAR(100) NOT NULL,
			date_start   DATE         NOT NULL,
			date_stop    DATE         NOT NULL,
			fetched_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			payload_json JSONB        NOT NULL
		)`,
	},
	{
		name:  "idx_raw_meta_data_window",
		query: `CREATE INDEX IF NOT EXISTS idx_raw_meta_data_window ON raw_meta_data (date_start, date_stop)`,
	},
	{
		name: "analysis_results",
		query: `CREATE TABLE IF NOT EXISTS analysis_results (
			id               BIGSERIAL PRIMARY KEY,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			schema_version   VARCHAR(20) NOT NULL,
			date_range_start DATE        NOT NULL,
			date_range_end   DATE        NOT NULL,
			result_json      JSONB       NOT NULL
		)`,
	},
	{
		name:  "idx_analysis_results_created_at",
		query: `CREATE INDEX IF NOT EXISTS idx_analysis_results_created_at ON analysis_results (created_at DESC)`,
	},
}

// Migrate cria as tabelas do pipeline dentro de uma única transação
func Migrate(ctx context.Context, conn postgres.Conn) error {
	start := time.Now()

	err := conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt.query); err != nil {
				return fmt.Errorf("erro ao aplicar migração %s: %w", stmt.name, err)
			}
			logrus.WithField("migration", stmt.name).Debug("Migração aplicada")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"statements":  len(statements),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Migrações concluídas")

	return nil
}
