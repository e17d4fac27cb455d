package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/mruda-api/pkg/apiErrors"
	"github.com/vfg2006/mruda-api/pkg/log"
)

func ValidateMetaToken(integrator meta.Integrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := integrator.ValidateToken(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("meta: falha ao validar token")
			writeMetaError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"token":  info,
		})
	}
}

func GetMetaAccountInfo(integrator meta.Integrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := integrator.GetAccountInfo(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("meta: falha ao buscar dados da conta")
			writeMetaError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"account": info,
		})
	}
}

func writeMetaError(w http.ResponseWriter, err error) {
	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) && apiErr.IsTokenExpired() {
		apiErrors.WriteError(w, apiErrors.ErrMetaToken, apiErr.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrMetaRequest, err.Error(), nil)
}
