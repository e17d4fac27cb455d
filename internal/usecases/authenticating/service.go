package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=mocks/authenticator.go -package=mocks

type Authenticator interface {
	Login(email, password string) (string, error)
	IssueToken(email string, roleID int) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

// Service autentica o operador configurado e emite tokens HS256
type Service struct {
	cfg config.Auth
	now func() time.Time
}

func NewService(cfg config.Auth) *Service {
	return &Service{
		cfg: cfg,
		now: time.Now,
	}
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) Login(email, password string) (string, error) {
	// Validação de entrada
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" {
		return "", NewAuthError(ErrOperatorNotConfigured, apiErrors.ErrInvalidCredentials, "Nenhum operador configurado")
	}

	op := s.operator()
	email = handleEmail(email)
	if email != op.Email {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Usuário não encontrado")
	}

	// Verificar senha
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("user_email", email).Warn("auth: senha incorreta")
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Senha incorreta")
	}

	return s.IssueToken(op.Email, op.RoleID)
}

// operator monta o operador administrador a partir da configuração
func (s *Service) operator() domain.Operator {
	return domain.Operator{
		Email:        handleEmail(s.cfg.AdminEmail),
		PasswordHash: s.cfg.AdminPasswordHash,
		RoleID:       domain.RoleAdmin,
	}
}

// IssueToken gera um JWT para o email e perfil informados
func (s *Service) IssueToken(email string, roleID int) (string, error) {
	if email == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email é obrigatório")
	}
	if roleID != domain.RoleAdmin && roleID != domain.RoleViewer {
		return "", NewAuthError(ErrInsufficientPrivilege, apiErrors.ErrInvalidRequest, fmt.Sprintf("perfil desconhecido: %d", roleID))
	}

	now := s.now()
	claims := domain.Claims{
		UserEmail:  handleEmail(email),
		UserRoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, err.Error())
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "claims inválidas")
}
