package metaclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
	"golang.org/x/time/rate"
)

//go:generate mockgen -source=client.go -destination=../mocks/metaclient.go -package=mocks

type Client interface {
	GetInsights(ctx context.Context, level domain.EntityType, window domain.DateWindow) ([]domain.RawRow, error)
	GetCampaigns(ctx context.Context) ([]metadomain.Campaign, error)
	GetAccountInfo(ctx context.Context) (*metadomain.AccountInfo, error)
	DebugToken(ctx context.Context) (*metadomain.TokenInfo, error)
}

// Sleeper aguarda entre tentativas. Retorna erro quando o contexto é cancelado.
type Sleeper func(ctx context.Context, d time.Duration) error

type MetaClient struct {
	cfg        config.Meta
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	sleep      Sleeper
}

type Option func(*MetaClient)

func WithHTTPClient(client *http.Client) Option {
	return func(c *MetaClient) {
		c.httpClient = client
	}
}

func WithSleeper(sleep Sleeper) Option {
	return func(c *MetaClient) {
		c.sleep = sleep
	}
}

func NewClient(cfg config.Meta, opts ...Option) *MetaClient {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 50
	}

	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	client := &MetaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		breaker:    newBreaker(),
		limiter:    rate.NewLimiter(limit, burst),
		sleep:      sleepContext,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// newBreaker abre o circuito após três falhas seguidas. Erros 4xx de requisição
// (exceto 429) não contam como falha da Graph API.
func newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "meta-graph-api",
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			apiErr, ok := asAPIError(err)
			return ok && !apiErr.Retryable()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("meta: circuit breaker mudou de estado")
		},
	})
}

// AccountPath garante o prefixo act_ exigido pela Graph API
func AccountPath(adAccountID string) string {
	if strings.HasPrefix(adAccountID, "act_") {
		return adAccountID
	}
	return "act_" + adAccountID
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
