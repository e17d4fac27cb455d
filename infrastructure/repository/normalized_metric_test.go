package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func sampleMetric() domain.NormalizedMetric {
	return domain.NormalizedMetric{
		Source:      domain.SourceMeta,
		EntityType:  domain.EntityCampaign,
		EntityID:    "c1",
		EntityName:  "Campanha 1",
		Date:        "2024-03-01",
		MetricName:  "clicks",
		MetricValue: 250,
		MetricType:  domain.MetricTypeVolume,
	}
}

func TestNormalizedMetricRepository_Upsert(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		wantCreated bool
		wantErr     string
	}{
		{
			name: "novo registro",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO normalized_metrics").
					WithArgs(domain.SourceMeta, domain.EntityCampaign, "c1", "Campanha 1", "2024-03-01", "clicks", 250.0, domain.MetricTypeVolume).
					WillReturnRows(sqlmock.NewRows([]string{"created"}).AddRow(true))
			},
			wantCreated: true,
		},
		{
			name: "registro existente é atualizado",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("ON CONFLICT \\(source, entity_type, entity_id, date, metric_name\\) DO UPDATE").
					WillReturnRows(sqlmock.NewRows([]string{"created"}).AddRow(false))
			},
			wantCreated: false,
		},
		{
			name: "erro do postgres carrega o código",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO normalized_metrics").
					WillReturnError(&pq.Error{Code: "23502", Message: "null value"})
			},
			wantErr: "código: 23502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			repo := NewNormalizedMetricRepository(db, time.Second)
			created, err := repo.Upsert(context.Background(), sampleMetric())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCreated, created)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNormalizedMetricRepository_Query(t *testing.T) {
	columns := []string{"id", "source", "entity_type", "entity_id", "entity_name", "date", "metric_name", "metric_value", "metric_type", "updated_at"}
	now := time.Now()

	t.Run("filtros opcionais entram na consulta", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM normalized_metrics WHERE date >= \\$1 AND date <= \\$2 AND source = \\$3 AND entity_type = \\$4").
			WithArgs("2024-03-01", "2024-03-07", "meta", domain.EntityCampaign).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, "meta", "campaign", "c1", "Campanha 1", "2024-03-01", "clicks", 250.0, "volume", now).
				AddRow(2, "meta", "campaign", "c1", "Campanha 1", "2024-03-02", "clicks", 100.0, "volume", now))

		repo := NewNormalizedMetricRepository(db, 0)
		metrics, err := repo.Query(context.Background(), domain.MetricQuery{
			Source:     "meta",
			EntityType: domain.EntityCampaign,
			Window:     domain.DateWindow{Start: "2024-03-01", Stop: "2024-03-07"},
		})

		require.NoError(t, err)
		require.Len(t, metrics, 2)
		assert.Equal(t, domain.EntityCampaign, metrics[0].EntityType)
		assert.Equal(t, "2024-03-02", metrics[1].Date)
		assert.Equal(t, 100.0, metrics[1].MetricValue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falha na consulta", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("conexão perdida"))

		repo := NewNormalizedMetricRepository(db, 0)
		_, err := repo.Query(context.Background(), domain.MetricQuery{
			Window: domain.DateWindow{Start: "2024-03-01", Stop: "2024-03-07"},
		})

		assert.ErrorContains(t, err, "conexão perdida")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
