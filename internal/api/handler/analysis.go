package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/internal/usecases/analyzing"
	"github.com/vfg2006/mruda-api/pkg/apiErrors"
	"github.com/vfg2006/mruda-api/pkg/log"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type snapshotResponse struct {
	ID            int64                 `json:"id"`
	CreatedAt     time.Time             `json:"created_at"`
	SchemaVersion string                `json:"schema_version"`
	DateRange     string                `json:"date_range,omitempty"`
	Insight       *domain.InsightOutput `json:"insight"`
}

func RunAnalysis(service analyzing.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req analyzing.RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		logger.WithFields(log.Fields{
			"date_range": req.DateRange,
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
			"force":      req.Force,
		}).Info("analysis: executando pipeline")

		output, err := service.Run(r.Context(), req)
		if err != nil {
			logger.WithError(err).Error("analysis: falha ao executar pipeline")
			writeAnalysisError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"insight": output,
		})
	}
}

func GetLatestInsight(service analyzing.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := service.Latest(r.Context())
		if errors.Is(err, analyzing.ErrNoSnapshot) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":  "no_data",
				"message": "Nenhuma análise encontrada. Execute POST /v1/analysis/run primeiro.",
			})
			return
		}
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("insights: falha ao buscar último snapshot")
			writeAnalysisError(w, err)
			return
		}

		resp, err := toSnapshotResponse(snapshot, false)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "success",
			"id":             resp.ID,
			"created_at":     resp.CreatedAt,
			"schema_version": resp.SchemaVersion,
			"insight":        resp.Insight,
		})
	}
}

func ListInsights(service analyzing.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		date := r.URL.Query().Get("date")

		limit, err := parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		snapshots, err := service.History(r.Context(), date, limit)
		if err != nil {
			logger.WithError(err).WithField("date", date).Warn("insights: falha ao listar histórico")
			writeAnalysisError(w, err)
			return
		}

		results := make([]snapshotResponse, 0, len(snapshots))
		for _, snapshot := range snapshots {
			resp, err := toSnapshotResponse(snapshot, true)
			if err != nil {
				logger.WithError(err).Warn("insights: snapshot ignorado")
				continue
			}
			results = append(results, *resp)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"count":   len(results),
			"results": results,
		})
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxHistoryLimit {
		return 0, fmt.Errorf("limit deve estar entre 1 e %d", maxHistoryLimit)
	}

	return limit, nil
}

func toSnapshotResponse(snapshot *domain.AnalysisSnapshot, withRange bool) (*snapshotResponse, error) {
	insight, err := snapshot.Insight()
	if err != nil {
		return nil, err
	}

	resp := &snapshotResponse{
		ID:            snapshot.ID,
		CreatedAt:     snapshot.CreatedAt,
		SchemaVersion: snapshot.SchemaVersion,
		Insight:       insight,
	}
	if withRange {
		resp.DateRange = fmt.Sprintf("%s → %s", snapshot.DateRangeStart, snapshot.DateRangeEnd)
	}

	return resp, nil
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	var analysisErr *analyzing.AnalysisError
	if errors.As(err, &analysisErr) {
		apiErrors.WriteError(w, analysisErr.Code, analysisErr.Error(), map[string]any{
			"stage": analysisErr.Stage,
		})
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
}
