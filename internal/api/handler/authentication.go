package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating"
	"github.com/vfg2006/mruda-api/pkg/apiErrors"
	"github.com/vfg2006/mruda-api/pkg/log"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		token, err := service.Login(req.Email, req.Password)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("auth: login recusado")
			handleLoginError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"token": token,
		})
	}
}

// handleLoginError não expõe se foi o email ou a senha que falhou
func handleLoginError(w http.ResponseWriter, err error) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) && authErr.Code != "" {
		message := "Credenciais inválidas"
		if errors.Is(err, authenticating.ErrMissingRequiredData) {
			message = authErr.Details
		}
		apiErrors.WriteError(w, authErr.Code, message, nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao realizar login", nil)
}
