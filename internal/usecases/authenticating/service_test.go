package authenticating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh@Forte"), bcrypt.MinCost)
	require.NoError(t, err)

	return NewService(config.Auth{
		Secret:            "test-secret",
		TokenTTL:          time.Hour,
		AdminEmail:        "ops@mruda.io",
		AdminPasswordHash: string(hash),
	})
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "credenciais corretas", email: " OPS@mruda.io ", password: "s3nh@Forte"},
		{name: "senha incorreta", email: "ops@mruda.io", password: "errada", wantErr: ErrInvalidCredentials},
		{name: "email desconhecido", email: "outro@mruda.io", password: "s3nh@Forte", wantErr: ErrInvalidCredentials},
		{name: "campos vazios", email: "", password: "", wantErr: ErrMissingRequiredData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)

			token, err := svc.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			claims, err := svc.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "ops@mruda.io", claims.UserEmail)
			assert.Equal(t, domain.RoleAdmin, claims.UserRoleID)
		})
	}
}

func TestService_Login_NoOperator(t *testing.T) {
	svc := NewService(config.Auth{Secret: "x", TokenTTL: time.Hour})

	_, err := svc.Login("ops@mruda.io", "qualquer")
	assert.ErrorIs(t, err, ErrOperatorNotConfigured)
	assert.True(t, IsCredentialsError(err))
}

func TestService_ValidateToken(t *testing.T) {
	t.Run("token expirado", func(t *testing.T) {
		svc := newTestService(t)
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := svc.IssueToken("viewer@mruda.io", domain.RoleViewer)
		require.NoError(t, err)

		svc.now = time.Now
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.True(t, IsAuthorizationError(err))
	})

	t.Run("assinatura de outro segredo", func(t *testing.T) {
		svc := newTestService(t)
		token, err := svc.IssueToken("viewer@mruda.io", domain.RoleViewer)
		require.NoError(t, err)

		other := NewService(config.Auth{Secret: "outro", TokenTTL: time.Hour})
		_, err = other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("lixo", func(t *testing.T) {
		_, err := newTestService(t).ValidateToken("abc.def")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_IssueToken_UnknownRole(t *testing.T) {
	_, err := newTestService(t).IssueToken("ops@mruda.io", 99)
	assert.ErrorIs(t, err, ErrInsufficientPrivilege)
}
