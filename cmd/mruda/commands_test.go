package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating"
	"golang.org/x/crypto/bcrypt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newFakeGraph(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v21.0/act_123":
			w.Write([]byte(`{"id":"act_123","name":"Loja","account_id":"123","currency":"BRL"}`))
		case "/v21.0/act_123/campaigns":
			w.Write([]byte(`{"data":[{"id":"c1","objective":"OUTCOME_SALES"}]}`))
		case "/v21.0/act_123/insights":
			w.Write([]byte(`{"data":[]}`))
		case "/v21.0/debug_token":
			w.Write([]byte(`{"data":{"is_valid":true,"expires_at":0,"scopes":["ads_read"],"app_id":"9"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"unknown path","code":803}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testCLI(t *testing.T, graphURL string) (*cli, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	c := newCLI(out)
	c.loadConfig = func() (*config.Config, error) {
		return &config.Config{
			App: config.App{LogLevel: "error"},
			Meta: config.Meta{
				URL:            graphURL + "/v21.0",
				AdAccountID:    "123",
				AccessToken:    "token",
				MaxRetries:     1,
				RequestTimeout: 5 * time.Second,
			},
			Analysis: config.Analysis{SchemaVersion: "1.0.0", Currency: "INR", Source: "meta"},
			Auth:     config.Auth{Secret: "cli-secret", TokenTTL: time.Hour},
		}, nil
	}
	return c, out
}

func execute(c *cli, args ...string) error {
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestRunCmd_MemoryStore(t *testing.T) {
	graph := newFakeGraph(t)
	c, out := testCLI(t, graph.URL)

	require.NoError(t, execute(c, "run", "--store", "memory", "--range", "yesterday"))

	var report domain.InsightOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "1.0.0", report.SchemaVersion)
	assert.Equal(t, "BRL", report.Currency)
	assert.NotEmpty(t, report.RunID)
}

func TestLatestCmd_Empty(t *testing.T) {
	c, out := testCLI(t, "http://127.0.0.1:1")

	require.NoError(t, execute(c, "latest", "--store", "memory"))
	assert.Contains(t, out.String(), "Nenhuma análise encontrada")
}

func TestHistoryCmd_InvalidLimit(t *testing.T) {
	c, _ := testCLI(t, "http://127.0.0.1:1")

	assert.Error(t, execute(c, "history", "--store", "memory", "--limit", "0"))
}

func TestTokenCmd(t *testing.T) {
	c, out := testCLI(t, "http://127.0.0.1:1")

	require.NoError(t, execute(c, "token", "--email", "viewer@mruda.io", "--role", "viewer"))

	cfg, _ := c.loadConfig()
	claims, err := authenticating.NewService(cfg.Auth).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "viewer@mruda.io", claims.UserEmail)
	assert.Equal(t, domain.RoleViewer, claims.UserRoleID)
}

func TestTokenCmd_InvalidRole(t *testing.T) {
	c, _ := testCLI(t, "http://127.0.0.1:1")

	assert.Error(t, execute(c, "token", "--email", "x@mruda.io", "--role", "root"))
}

func TestValidateTokenCmd(t *testing.T) {
	graph := newFakeGraph(t)
	c, out := testCLI(t, graph.URL)

	require.NoError(t, execute(c, "validate-token"))
	assert.Contains(t, out.String(), `"valid": true`)
	assert.Contains(t, out.String(), `"app_id": "9"`)
}

func TestHashPasswordCmd(t *testing.T) {
	c, out := testCLI(t, "http://127.0.0.1:1")

	require.NoError(t, execute(c, "hash-password", "s3nh@"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out.String())), []byte("s3nh@")))
}
