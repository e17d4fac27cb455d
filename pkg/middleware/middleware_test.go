package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/api/handler/router"
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/mruda-api/pkg/apiErrors"
	"github.com/vfg2006/mruda-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		header     string
		setup      func(m *mocks.MockAuthenticator)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "rota pública",
			path:       "/healthcheck",
			setup:      func(m *mocks.MockAuthenticator) {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "sem header",
			path:       "/v1/analysis/latest",
			setup:      func(m *mocks.MockAuthenticator) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   apiErrors.ErrInvalidToken,
		},
		{
			name:       "sem prefixo Bearer",
			path:       "/v1/analysis/latest",
			header:     "abc",
			setup:      func(m *mocks.MockAuthenticator) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "token expirado",
			path:   "/v1/analysis/latest",
			header: "Bearer velho",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().ValidateToken("velho").Return(nil,
					authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, "exp"))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   apiErrors.ErrExpiredToken,
		},
		{
			name:   "token válido",
			path:   "/v1/analysis/latest",
			header: "Bearer bom",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().ValidateToken("bom").Return(&domain.Claims{UserEmail: "ops@mruda.io", UserRoleID: domain.RoleViewer}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			tt.setup(auth)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(auth)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)
	auth.EXPECT().ValidateToken("viewer").Return(&domain.Claims{UserEmail: "v@mruda.io", UserRoleID: domain.RoleViewer}, nil).Times(2)
	auth.EXPECT().ValidateToken("admin").Return(&domain.Claims{UserEmail: "a@mruda.io", UserRoleID: domain.RoleAdmin}, nil)

	adminRoute := AuthMiddleware(auth)(AdminOnly()(okHandler()))
	readRoute := AuthMiddleware(auth)(AllRoles()(okHandler()))

	do := func(h http.Handler, token string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/analysis/run", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, do(adminRoute, "viewer"))
	assert.Equal(t, http.StatusOK, do(adminRoute, "admin"))
	assert.Equal(t, http.StatusOK, do(readRoute, "viewer"))
}

func TestRoleMiddleware_NoClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminOnly()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:3000"})(okHandler())

	t.Run("origem permitida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origem desconhecida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/analysis/run", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	registry := metrics.NewRegistry()
	rt := router.New(router.WithRoutes(router.Route{
		Path:    "/healthcheck",
		Method:  http.MethodGet,
		Handler: okHandler(),
	}))

	handler := MetricsMiddleware(registry, rt)(rt)

	for _, path := range []string{"/healthcheck", "/healthcheck", "/nao-existe"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(registry.HTTPRequests.WithLabelValues("/healthcheck", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.HTTPRequests.WithLabelValues("unmatched", "GET", "404")))
}

func TestLoggingMiddleware_SetsCorrelationHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	LoggingMiddleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Len(t, rec.Header().Get(CorrelationHeader), 36)
}

func TestRecoverMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		RecoverMiddleware()(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analysis/latest", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), apiErrors.ErrInternalServer))
}
