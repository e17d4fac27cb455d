package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/mruda-api/pkg/apiErrors"
)

// CronJobTypeAnalysis é o único job agendado da API
const CronJobTypeAnalysis = "analysis"

// CronJob é a parte do agendador usada pelos handlers
type CronJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices mapeia o tipo da URL para o job
type CronJobServices map[string]CronJob

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices, cronType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := services[cronType]
		if !ok || job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: analysis", nil)
			return
		}

		logrus.WithField("type", cronType).Info("cron: disparo manual")

		if !job.TriggerManualSync() {
			writeJSON(w, http.StatusConflict, map[string]any{
				"message": "Cron job já está em execução",
				"type":    cronType,
			})
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(services))
		for name, job := range services {
			if job != nil {
				status[name] = job.GetStatus()
			}
		}

		writeJSON(w, http.StatusOK, status)
	}
}
