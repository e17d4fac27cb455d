package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/usecases/analyzing"
)

// runTimeout limita uma execução agendada. A ingestão faz até quatro consultas paginadas.
const runTimeout = 10 * time.Minute

// ErrSyncRunning indica que já existe uma execução em andamento
var ErrSyncRunning = errors.New("análise já em andamento")

// AnalysisSyncService agenda a execução diária do pipeline de análise
type AnalysisSyncService struct {
	scheduler *gocron.Scheduler
	config    config.AnalysisSchedule
	analyzer  analyzing.Analyzer

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastError           string
}

func NewAnalysisSyncService(analyzer analyzing.Analyzer, cfg config.AnalysisSchedule) *AnalysisSyncService {
	if cfg.DateRange == "" {
		cfg.DateRange = "yesterday"
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.CronSchedule,
		"date_range":    cfg.DateRange,
		"sync_enabled":  cfg.Enabled,
	}).Info("Configuração do agendador de análises carregada")

	return &AnalysisSyncService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    cfg,
		analyzer:  analyzer,
	}
}

// Start agenda o job e para o agendador quando o contexto for cancelado
func (s *AnalysisSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Agendamento de análises desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de análises")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunNow(ctx); err != nil && !errors.Is(err, ErrSyncRunning) {
			logrus.WithError(err).Error("Execução agendada da análise falhou")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar análise: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de análises")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow executa o pipeline de forma síncrona. Execuções sobrepostas são recusadas.
func (s *AnalysisSyncService) RunNow(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Análise já em andamento, ignorando")
		return ErrSyncRunning
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	return s.run(ctx)
}

func (s *AnalysisSyncService) run(ctx context.Context) error {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	output, err := s.analyzer.Run(ctx, analyzing.RunRequest{DateRange: s.config.DateRange})

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false

	if err != nil {
		s.lastError = err.Error()
		return err
	}

	s.lastError = ""
	s.lastRunID = output.RunID
	s.lastSyncCompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"run_id":   output.RunID,
		"duration": time.Since(startTime).String(),
	}).Info("Análise agendada concluída")

	return nil
}

// TriggerManualSync dispara uma execução em segundo plano. Retorna false se já houver uma em andamento.
func (s *AnalysisSyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Análise já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	logrus.Info("Iniciando análise manual")
	go func() {
		if err := s.run(context.Background()); err != nil {
			logrus.WithError(err).Error("Análise manual falhou")
		}
	}()

	return true
}

// GetStatus retorna o status atual do agendador
func (s *AnalysisSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"date_range":             s.config.DateRange,
		"running":                s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_run_id":            s.lastRunID,
		"last_error":             s.lastError,
	}

	if _, next := s.scheduler.NextRun(); !next.IsZero() {
		status["next_run_at"] = next
	}

	return status
}
