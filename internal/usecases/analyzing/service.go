package analyzing

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/infrastructure/repository"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/internal/usecases/normalizing"
	"github.com/vfg2006/mruda-api/pkg/apiErrors"
	"github.com/vfg2006/mruda-api/pkg/metrics"
	"github.com/vfg2006/mruda-api/pkg/utils"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Níveis usados por cada motor. A fadiga roda por anúncio mas recebe as
// tendências de campanha, então os IDs nunca coincidem e a confirmação por
// tendência não escala o nível no pipeline.
const (
	kpiLevel     = domain.EntityCampaign
	fatigueLevel = domain.EntityAd
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// RunRequest é a entrada de uma execução. Datas explícitas têm prioridade sobre DateRange.
type RunRequest struct {
	DateRange string `json:"date_range"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Force     bool   `json:"force"`
}

// Service orquestra ingestão, normalização, motores de análise e persistência do snapshot
type Service struct {
	cfg        config.Analysis
	ingestor   Ingestor
	normalizer normalizing.Normalizer
	metricRepo repository.NormalizedMetricRepository
	rawRepo    repository.RawPayloadRepository
	resultRepo repository.AnalysisResultRepository
	cache      SnapshotCache
	registry   *metrics.Registry
	now        func() time.Time
}

func NewService(
	cfg config.Analysis,
	ingestor Ingestor,
	normalizer normalizing.Normalizer,
	metricRepo repository.NormalizedMetricRepository,
	rawRepo repository.RawPayloadRepository,
	resultRepo repository.AnalysisResultRepository,
	registry *metrics.Registry,
) *Service {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	if cfg.Source == "" {
		cfg.Source = domain.SourceMeta
	}

	return &Service{
		cfg:        cfg,
		ingestor:   ingestor,
		normalizer: normalizer,
		metricRepo: metricRepo,
		rawRepo:    rawRepo,
		resultRepo: resultRepo,
		registry:   registry,
		now:        time.Now,
	}
}

// WithCache habilita o cache do snapshot mais recente
func (s *Service) WithCache(cache SnapshotCache) *Service {
	s.cache = cache
	return s
}

// WithClock troca o relógio usado para resolver a janela
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run executa o pipeline completo e persiste o snapshot. Falhas da plataforma
// de anúncios não interrompem o relatório, que usa o que já estiver no banco.
func (s *Service) Run(ctx context.Context, req RunRequest) (*domain.InsightOutput, error) {
	now := s.now().UTC()
	runID := utils.GenerateRunID()
	window := ResolveWindow(req.DateRange, req.StartDate, req.EndDate, now)

	logger := logrus.WithFields(logrus.Fields{
		"run_id":     runID,
		"date_start": window.Start,
		"date_stop":  window.Stop,
	})

	previousWindow, err := window.Previous()
	if err != nil {
		s.registry.PipelineRuns.WithLabelValues(resultError).Inc()
		return nil, NewAnalysisError(ErrInvalidWindow, apiErrors.ErrInvalidFormat, "resolve", err.Error())
	}

	logger.WithField("force", req.Force).Info("Iniciando análise")

	timer := s.registry.StartStage(StageIngest)
	currency, objective := s.ingest(ctx, logger, window, req.Force, now)
	timer.Stop(resultSuccess)

	timer = s.registry.StartStage(StageNormalize)
	s.normalizeWindow(ctx, logger, window)
	timer.Stop(resultSuccess)

	timer = s.registry.StartStage(StageAnalyze)
	output, err := s.analyze(ctx, window, previousWindow, objective)
	if err != nil {
		timer.Stop(resultError)
		s.registry.PipelineRuns.WithLabelValues(resultError).Inc()
		logger.WithError(err).Error("Falha ao consultar métricas normalizadas")
		return nil, err
	}
	timer.Stop(resultSuccess)

	output.SchemaVersion = s.cfg.SchemaVersion
	output.RunID = runID
	output.GeneratedAt = now
	output.Currency = currency

	timer = s.registry.StartStage(StagePersist)
	if err := s.persist(ctx, output); err != nil {
		timer.Stop(resultError)
		s.registry.PipelineRuns.WithLabelValues(resultError).Inc()
		logger.WithError(err).Error("Falha ao salvar snapshot da análise")
		return nil, err
	}
	timer.Stop(resultSuccess)

	s.registry.PipelineRuns.WithLabelValues(resultSuccess).Inc()
	s.registry.LastRunTimestamp.SetToCurrentTime()

	logger.WithFields(logrus.Fields{
		"kpis":       len(output.KPIs),
		"trends":     len(output.TrendSignals),
		"risks":      len(output.Risks),
		"confidence": output.ConfidenceScore,
	}).Info("Análise concluída")

	return output, nil
}

// ingest busca moeda, dados brutos e objetivo da campanha. Tudo aqui é best-effort.
func (s *Service) ingest(ctx context.Context, logger *logrus.Entry, window domain.DateWindow, force bool, now time.Time) (string, string) {
	currency := s.cfg.Currency
	if c, err := s.ingestor.FetchCurrency(ctx); err != nil {
		logger.WithError(err).Warn("Não foi possível obter a moeda da conta, usando a configurada")
	} else {
		currency = c
	}

	fresh := false
	if !force {
		var err error
		fresh, err = s.rawRepo.FetchedSince(ctx, window.Stop, startOfDayUTC(now))
		if err != nil {
			logger.WithError(err).Warn("Falha ao verificar dados já buscados hoje")
		}
	}

	if fresh {
		logger.Info("Dados da janela já buscados hoje, pulando ingestão")
	} else if err := s.fetchLevels(ctx, logger, window, now); err != nil {
		logger.WithError(err).Warn("Ingestão incompleta, seguindo com os dados existentes")
	}

	objective, err := s.ingestor.FetchCampaignObjective(ctx)
	if err != nil {
		logger.WithError(err).Warn("Não foi possível obter o objetivo da campanha")
	}

	return currency, objective
}

// fetchLevels busca os quatro níveis em paralelo e grava cada resposta bruta.
// Um nível com falha não cancela os demais.
func (s *Service) fetchLevels(ctx context.Context, logger *logrus.Entry, window domain.DateWindow, now time.Time) error {
	results := make([][]domain.RawRow, len(domain.IngestionLevels))

	var g errgroup.Group
	for i, level := range domain.IngestionLevels {
		i, level := i, level
		g.Go(func() error {
			rows, err := s.ingestor.Fetch(ctx, level, window)
			if err != nil {
				s.registry.IngestionErrors.WithLabelValues(string(level)).Inc()
				return fmt.Errorf("%w: %s: %v", ErrIngestionUnavailable, level, err)
			}
			if rows == nil {
				rows = []domain.RawRow{}
			}
			results[i] = rows
			return nil
		})
	}
	fetchErr := g.Wait()

	for i, level := range domain.IngestionLevels {
		if results[i] == nil {
			continue
		}

		payload, err := json.Marshal(results[i])
		if err != nil {
			logger.WithError(err).WithField("level", level).Warn("Falha ao serializar payload bruto")
			continue
		}

		_, err = s.rawRepo.Save(ctx, &domain.RawPayload{
			Endpoint:    string(level) + "/insights",
			EntityType:  level,
			EntityID:    s.ingestor.AccountID(),
			DateStart:   window.Start,
			DateStop:    window.Stop,
			FetchedAt:   now,
			PayloadJSON: payload,
		})
		if err != nil {
			logger.WithError(err).WithField("level", level).Warn("Falha ao gravar payload bruto")
			continue
		}

		logger.WithFields(logrus.Fields{
			"level": level,
			"rows":  len(results[i]),
		}).Debug("Payload bruto gravado")
	}

	return fetchErr
}

// normalizeWindow relê os payloads brutos da janela e normaliza cada um.
// Erros são registrados e o pipeline segue com o que já estiver no banco.
func (s *Service) normalizeWindow(ctx context.Context, logger *logrus.Entry, window domain.DateWindow) {
	payloads, err := s.rawRepo.ListByWindow(ctx, window)
	if err != nil {
		logger.WithError(err).Warn("Falha ao listar payloads brutos da janela")
		return
	}

	for _, payload := range payloads {
		var rows []domain.RawRow
		if err := json.Unmarshal(payload.PayloadJSON, &rows); err != nil {
			logger.WithError(err).WithField("payload_id", payload.ID).Warn("Payload bruto ilegível")
			continue
		}

		created, err := s.normalizer.Normalize(ctx, rows, payload.EntityType)
		if err != nil {
			logger.WithError(err).WithField("level", payload.EntityType).Warn("Falha na normalização")
		}
		s.registry.MetricsUpserted.WithLabelValues(string(payload.EntityType), "created").Add(float64(created))
	}
}

func (s *Service) analyze(ctx context.Context, window, previousWindow domain.DateWindow, objective string) (*domain.InsightOutput, error) {
	current, err := s.metricRepo.Query(ctx, domain.MetricQuery{Source: s.cfg.Source, Window: window})
	if err != nil {
		return nil, NewAnalysisError(ErrMetricStore, apiErrors.ErrDatabaseOperation, StageAnalyze, err.Error())
	}

	previous, err := s.metricRepo.Query(ctx, domain.MetricQuery{Source: s.cfg.Source, Window: previousWindow})
	if err != nil {
		return nil, NewAnalysisError(ErrMetricStore, apiErrors.ErrDatabaseOperation, StageAnalyze, err.Error())
	}

	kpis := ComputeKPIs(current, kpiLevel)
	trends := ComputeTrends(current, previous, kpiLevel)
	fatigue := ComputeFatigue(current, fatigueLevel, trends)
	opportunities := ComputeOpportunities(kpis)

	summary := BuildSummary(current)
	summary.CampaignObjective = objective
	summary.ROASContext = DetermineROASContext(objective, summary)

	confidence, breakdown := ComputeConfidence(current, window)

	return &domain.InsightOutput{
		DateRangeStart:      window.Start,
		DateRangeEnd:        window.Stop,
		MetaSummary:         summary,
		KPIs:                kpis,
		CampaignRankings:    BuildRankings(kpis),
		TrendSignals:        trends,
		FatigueAnalysis:     fatigue,
		Opportunities:       opportunities,
		Risks:               DetectRisks(trends),
		ConfidenceScore:     confidence,
		ConfidenceBreakdown: breakdown,
	}, nil
}

func (s *Service) persist(ctx context.Context, output *domain.InsightOutput) error {
	resultJSON, err := json.Marshal(output)
	if err != nil {
		return NewAnalysisError(ErrSnapshotPersist, apiErrors.ErrDatabaseOperation, StagePersist, err.Error())
	}

	snapshot := &domain.AnalysisSnapshot{
		SchemaVersion:  output.SchemaVersion,
		DateRangeStart: output.DateRangeStart,
		DateRangeEnd:   output.DateRangeEnd,
		ResultJSON:     resultJSON,
	}

	if _, err := s.resultRepo.Save(ctx, snapshot); err != nil {
		return NewAnalysisError(ErrSnapshotPersist, apiErrors.ErrDatabaseOperation, StagePersist, err.Error())
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, snapshot); err != nil {
			logrus.WithError(err).Warn("Falha ao atualizar cache do snapshot")
		}
	}

	return nil
}

// Latest retorna o snapshot mais recente, passando pelo cache quando habilitado
func (s *Service) Latest(ctx context.Context) (*domain.AnalysisSnapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.GetLatest(ctx)
		switch {
		case err != nil:
			s.registry.SnapshotCache.WithLabelValues("error").Inc()
			logrus.WithError(err).Warn("Falha ao ler cache do snapshot")
		case cached != nil:
			s.registry.SnapshotCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			s.registry.SnapshotCache.WithLabelValues("miss").Inc()
		}
	}

	snapshot, err := s.resultRepo.Latest(ctx)
	if err != nil {
		return nil, NewAnalysisError(ErrMetricStore, apiErrors.ErrDatabaseOperation, "latest", err.Error())
	}
	if snapshot == nil {
		return nil, ErrNoSnapshot
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, snapshot); err != nil {
			logrus.WithError(err).Warn("Falha ao atualizar cache do snapshot")
		}
	}

	return snapshot, nil
}

// History lista snapshots do mais novo para o mais antigo. date filtra pelo fim da janela.
func (s *Service) History(ctx context.Context, date string, limit int) ([]*domain.AnalysisSnapshot, error) {
	if date != "" {
		if _, ok := utils.ParseDate(date); !ok {
			return nil, NewAnalysisError(ErrInvalidWindow, apiErrors.ErrInvalidFormat, "history", fmt.Sprintf("data inválida %q", date))
		}
	}

	snapshots, err := s.resultRepo.List(ctx, date, limit)
	if err != nil {
		return nil, NewAnalysisError(ErrMetricStore, apiErrors.ErrDatabaseOperation, "history", err.Error())
	}

	return snapshots, nil
}
