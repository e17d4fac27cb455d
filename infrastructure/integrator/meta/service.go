package meta

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/integrator.go -package=mocks

var ErrNoCurrency = errors.New("conta sem moeda informada")

// Integrator expõe a conta de anúncios configurada para o pipeline de análise
type Integrator interface {
	AccountID() string
	Fetch(ctx context.Context, level domain.EntityType, window domain.DateWindow) ([]domain.RawRow, error)
	FetchCurrency(ctx context.Context) (string, error)
	FetchCampaignObjective(ctx context.Context) (string, error)
	GetAccountInfo(ctx context.Context) (*metadomain.AccountInfo, error)
	ValidateToken(ctx context.Context) (*metadomain.TokenInfo, error)
}

type MetaIntegrator struct {
	cfg    config.Meta
	Client metaclient.Client
}

func New(cfg config.Meta, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// AccountID retorna o id da conta com o prefixo act_
func (s *MetaIntegrator) AccountID() string {
	return metaclient.AccountPath(s.cfg.AdAccountID)
}

func (s *MetaIntegrator) Fetch(ctx context.Context, level domain.EntityType, window domain.DateWindow) ([]domain.RawRow, error) {
	rows, err := s.Client.GetInsights(ctx, level, window)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": s.AccountID(),
			"level":      level,
			"error":      err.Error(),
		}).Error("insights: failed to get insights from API")
		return nil, fmt.Errorf("falha ao buscar insights de %s: %w", level, err)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": s.AccountID(),
		"level":      level,
		"rows":       len(rows),
	}).Debug("insights: successfully retrieved insights")

	return rows, nil
}

func (s *MetaIntegrator) FetchCurrency(ctx context.Context) (string, error) {
	info, err := s.Client.GetAccountInfo(ctx)
	if err != nil {
		return "", err
	}
	if info.Currency == "" {
		return "", ErrNoCurrency
	}
	return info.Currency, nil
}

// FetchCampaignObjective usa o objetivo da primeira campanha da conta.
// Sem campanhas o objetivo fica vazio.
func (s *MetaIntegrator) FetchCampaignObjective(ctx context.Context) (string, error) {
	campaigns, err := s.Client.GetCampaigns(ctx)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": s.AccountID(),
			"error":      err.Error(),
		}).Error("insights: failed to get campaigns for ad account")
		return "", err
	}

	if len(campaigns) == 0 {
		return "", nil
	}
	return campaigns[0].Objective, nil
}

func (s *MetaIntegrator) GetAccountInfo(ctx context.Context) (*metadomain.AccountInfo, error) {
	return s.Client.GetAccountInfo(ctx)
}

func (s *MetaIntegrator) ValidateToken(ctx context.Context) (*metadomain.TokenInfo, error) {
	info, err := s.Client.DebugToken(ctx)
	if err != nil {
		logrus.WithError(err).Error("meta: falha ao validar token")
		return nil, err
	}

	if !info.Valid {
		logrus.WithField("app_id", info.AppID).Warn("meta: token inválido")
	}

	return info, nil
}
