package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Meta: config.Meta{
			URL:         "http://127.0.0.1:1/v21.0",
			AdAccountID: "123",
			AccessToken: "token",
			MaxRetries:  1,
		},
		Analysis: config.Analysis{SchemaVersion: "1.0.0", Currency: "INR"},
		Auth:     config.Auth{Secret: "s", TokenTTL: time.Hour},
	}
}

func TestNew_MemoryStore(t *testing.T) {
	app, err := New(context.Background(), testConfig(), StoreMemory)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Analyzer)
	assert.NotNil(t, app.Integrator)
	assert.NotNil(t, app.Authenticator)
	assert.Equal(t, "act_123", app.Integrator.AccountID())
}

func TestNew_UnknownStore(t *testing.T) {
	_, err := New(context.Background(), testConfig(), "sqlite")

	assert.ErrorContains(t, err, "store desconhecido")
}
