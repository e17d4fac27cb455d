package analyzing

import (
	"context"

	"github.com/vfg2006/mruda-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/analyzing.go -package=mocks

// Ingestor busca dados brutos na plataforma de anúncios
type Ingestor interface {
	// AccountID identifica a conta nos payloads brutos
	AccountID() string
	Fetch(ctx context.Context, level domain.EntityType, window domain.DateWindow) ([]domain.RawRow, error)
	FetchCurrency(ctx context.Context) (string, error)
	FetchCampaignObjective(ctx context.Context) (string, error)
}

// SnapshotCache guarda o snapshot mais recente. Uma falha nunca impede a leitura do banco.
type SnapshotCache interface {
	// GetLatest retorna nil, nil quando não há nada em cache
	GetLatest(ctx context.Context) (*domain.AnalysisSnapshot, error)
	SetLatest(ctx context.Context, snapshot *domain.AnalysisSnapshot) error
}

// Analyzer é o contrato usado pela API, pelo agendador e pela CLI
type Analyzer interface {
	Run(ctx context.Context, req RunRequest) (*domain.InsightOutput, error)
	Latest(ctx context.Context) (*domain.AnalysisSnapshot, error)
	History(ctx context.Context, date string, limit int) ([]*domain.AnalysisSnapshot, error)
}
