package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Perfis de acesso à API
const (
	RoleAdmin  = 1
	RoleViewer = 2
)

// Operator é o usuário que opera a API de análises
type Operator struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RoleID       int    `json:"role_id"`
}

type Claims struct {
	UserEmail  string `json:"email"`
	UserRoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}
