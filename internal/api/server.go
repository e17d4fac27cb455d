package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta"
	"github.com/vfg2006/mruda-api/internal/api/handler"
	"github.com/vfg2006/mruda-api/internal/api/handler/router"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/usecases/analyzing"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating"
	"github.com/vfg2006/mruda-api/pkg/metrics"
	"github.com/vfg2006/mruda-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

// Dependencies reúne os serviços expostos pela API
type Dependencies struct {
	Analyzer      analyzing.Analyzer
	Authenticator authenticating.Authenticator
	Integrator    meta.Integrator
	CronJobs      handler.CronJobServices
	Registry      *metrics.Registry
}

func New(config *config.Config, deps Dependencies) (*Server, error) {
	if deps.Registry == nil {
		deps.Registry = metrics.NewRegistry()
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, deps),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// NewHandler monta rotas e a cadeia de middlewares
func NewHandler(config *config.Config, deps Dependencies) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(deps.Registry)...),
		router.WithRoutes(handler.Authentication(deps.Authenticator)...),
		router.WithRoutes(handler.Analysis(deps.Analyzer)...),
		router.WithRoutes(handler.Meta(deps.Integrator)...),
		router.WithRoutes(handler.CronJobs(deps.CronJobs)...),
	)

	middlewares := []alice.Constructor{
		middleware.RecoverMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.MetricsMiddleware(deps.Registry, rt),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(deps.Authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

const shutdownTimeout = 15 * time.Second

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
