// Package bootstrap monta as dependências compartilhadas pela API e pela CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/infrastructure/cache"
	"github.com/vfg2006/mruda-api/infrastructure/database/postgres"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/mruda-api/infrastructure/migration"
	"github.com/vfg2006/mruda-api/infrastructure/repository"
	"github.com/vfg2006/mruda-api/infrastructure/repository/memory"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/usecases/analyzing"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating"
	"github.com/vfg2006/mruda-api/internal/usecases/normalizing"
	"github.com/vfg2006/mruda-api/pkg/metrics"
)

// Tipos de armazenamento aceitos por --store
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Stores agrupa os três repositórios do pipeline
type Stores struct {
	Metrics repository.NormalizedMetricRepository
	Raw     repository.RawPayloadRepository
	Results repository.AnalysisResultRepository
}

type App struct {
	Config        *config.Config
	Registry      *metrics.Registry
	Integrator    *meta.MetaIntegrator
	Analyzer      *analyzing.Service
	Authenticator *authenticating.Service

	closers []func() error
}

// New conecta banco e cache conforme o store escolhido e monta o pipeline
func New(ctx context.Context, cfg *config.Config, store string) (*App, error) {
	app := &App{
		Config:        cfg,
		Registry:      metrics.NewRegistry(),
		Authenticator: authenticating.NewService(cfg.Auth),
	}

	stores, err := app.openStores(ctx, store)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Integrator = meta.New(cfg.Meta, metaclient.NewClient(cfg.Meta))

	normalizer := normalizing.NewService(stores.Metrics, normalizing.NewRegistry())
	app.Analyzer = analyzing.NewService(
		cfg.Analysis,
		app.Integrator,
		normalizer,
		stores.Metrics,
		stores.Raw,
		stores.Results,
		app.Registry,
	)

	if store == StorePostgres {
		snapshotCache, err := cache.NewSnapshotCache(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Cache Redis indisponível, seguindo sem cache")
		} else if snapshotCache != nil {
			app.Analyzer.WithCache(snapshotCache)
			app.closers = append(app.closers, snapshotCache.Close)
		}
	}

	return app, nil
}

func (a *App) openStores(ctx context.Context, store string) (*Stores, error) {
	switch store {
	case StoreMemory:
		logrus.Info("Usando armazenamento em memória")
		return &Stores{
			Metrics: memory.NewMetricStore(),
			Raw:     memory.NewRawPayloadStore(),
			Results: memory.NewSnapshotStore(),
		}, nil

	case StorePostgres, "":
		conn, err := Connect(ctx, a.Config.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)

		if err := migration.Migrate(ctx, conn); err != nil {
			return nil, fmt.Errorf("erro ao aplicar migrações: %w", err)
		}

		timeout := a.Config.Database.QueryTimeout
		return &Stores{
			Metrics: repository.NewNormalizedMetricRepository(conn, timeout),
			Raw:     repository.NewRawPayloadRepository(conn, timeout),
			Results: repository.NewAnalysisResultRepository(conn, timeout),
		}, nil

	default:
		return nil, fmt.Errorf("store desconhecido %q (use %s ou %s)", store, StorePostgres, StoreMemory)
	}
}

// Connect abre a conexão com o PostgreSQL
func Connect(ctx context.Context, dbConfig config.Database) (*postgres.Connection, error) {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn, nil
}

// Close libera conexões na ordem inversa da abertura
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Warn("Erro ao liberar recurso")
		}
	}
	a.closers = nil
}
