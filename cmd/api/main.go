package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/internal/api"
	"github.com/vfg2006/mruda-api/internal/api/handler"
	"github.com/vfg2006/mruda-api/internal/bootstrap"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/scheduler"
	"github.com/vfg2006/mruda-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel, cfg.App.LogFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, bootstrap.StorePostgres)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar dependências")
	}
	defer app.Close()

	analysisSyncService := scheduler.NewAnalysisSyncService(app.Analyzer, cfg.AnalysisSchedule)
	if err := analysisSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de análises")
	} else {
		logrus.Info("Agendador de análises iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Dependencies{
		Analyzer:      app.Analyzer,
		Authenticator: app.Authenticator,
		Integrator:    app.Integrator,
		CronJobs: handler.CronJobServices{
			handler.CronJobTypeAnalysis: analysisSyncService,
		},
		Registry: app.Registry,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}
