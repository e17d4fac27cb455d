package metaclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*MetaClient, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	waits := &[]time.Duration{}
	client := NewClient(config.Meta{
		URL:            server.URL,
		AccessToken:    "token-123",
		AdAccountID:    "987",
		MaxRetries:     3,
		RetryBaseDelay: 2 * time.Second,
		MaxPages:       50,
	}, WithSleeper(func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}))

	return client, waits
}

func TestGetInsights(t *testing.T) {
	t.Run("envia os parâmetros e segue a paginação", func(t *testing.T) {
		var calls int32
		var serverURL string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&calls, 1)
			assert.Equal(t, "/act_987/insights", r.URL.Path)
			assert.Equal(t, "token-123", r.URL.Query().Get("access_token"))

			if n == 1 {
				assert.Equal(t, "campaign", r.URL.Query().Get("level"))
				assert.Equal(t, "1", r.URL.Query().Get("time_increment"))
				assert.JSONEq(t, `{"since":"2024-01-01","until":"2024-01-07"}`, r.URL.Query().Get("time_range"))
				assert.Contains(t, r.URL.Query().Get("fields"), "account_id,account_name,campaign_name")
				_, _ = w.Write([]byte(`{"data":[{"campaign_id":"c1","spend":"10.5"}],"paging":{"next":"` + serverURL + `/act_987/insights?after=abc"}}`))
				return
			}

			assert.Equal(t, "abc", r.URL.Query().Get("after"))
			_, _ = w.Write([]byte(`{"data":[{"campaign_id":"c2","spend":"3"}],"paging":{}}`))
		})
		serverURL = client.cfg.URL

		rows, err := client.GetInsights(context.Background(), domain.EntityCampaign, domain.DateWindow{Start: "2024-01-01", Stop: "2024-01-07"})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "c1", rows[0].String("campaign_id"))
		assert.Equal(t, 10.5, rows[0].Float("spend"))
		assert.Equal(t, "c2", rows[1].String("campaign_id"))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("respeita o limite de páginas", func(t *testing.T) {
		var serverURL string
		var calls int32
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = w.Write([]byte(`{"data":[{"ad_id":"a"}],"paging":{"next":"` + serverURL + `/act_987/insights?after=x"}}`))
		})
		serverURL = client.cfg.URL
		client.cfg.MaxPages = 3

		rows, err := client.GetInsights(context.Background(), domain.EntityAd, domain.DateWindow{Start: "2024-01-01", Stop: "2024-01-01"})
		require.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("nível inválido", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("não deveria chamar a API")
		})

		_, err := client.GetInsights(context.Background(), domain.EntityType("creative"), domain.DateWindow{})
		assert.Error(t, err)
	})
}

func TestRetries(t *testing.T) {
	t.Run("429 é repetido com backoff exponencial", func(t *testing.T) {
		var calls int32
		client, waits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"limite","code":17}}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":[],"paging":{}}`))
		})

		_, err := client.GetCampaigns(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *waits)
	})

	t.Run("5xx esgota as tentativas", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.GetAccountInfo(context.Background())
		require.Error(t, err)

		apiErr, ok := asAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("4xx não é repetido e traz a mensagem da API", func(t *testing.T) {
		var calls int32
		client, waits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Error validating access token","type":"OAuthException","code":190}}`))
		})

		_, err := client.GetAccountInfo(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Error validating access token")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Empty(t, *waits)

		apiErr, ok := asAPIError(err)
		require.True(t, ok)
		assert.True(t, apiErr.IsTokenExpired())
	})
}

func TestGetAccountInfo(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/act_987", r.URL.Path)
		assert.Equal(t, accountFields, r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"id":"act_987","name":"Loja","account_id":"987","account_status":1,"currency":"BRL","timezone_name":"America/Sao_Paulo"}`))
	})

	info, err := client.GetAccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BRL", info.Currency)
	assert.Equal(t, "Loja", info.Name)
}

func TestDebugToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/debug_token", r.URL.Path)
		assert.Equal(t, "token-123", r.URL.Query().Get("input_token"))
		_, _ = w.Write([]byte(`{"data":{"is_valid":true,"expires_at":1735689600,"scopes":["ads_read"],"app_id":"42"}}`))
	})

	info, err := client.DebugToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &metadomain.TokenInfo{Valid: true, ExpiresAt: 1735689600, Scopes: []string{"ads_read"}, AppID: "42"}, info)
}

func TestAccountPath(t *testing.T) {
	assert.Equal(t, "act_1", AccountPath("1"))
	assert.Equal(t, "act_1", AccountPath("act_1"))
}
