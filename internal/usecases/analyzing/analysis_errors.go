package analyzing

import (
	"errors"
	"fmt"
)

// Erros do pipeline de análise
var (
	// Falha na plataforma de anúncios. Não interrompe o relatório.
	ErrIngestionUnavailable = errors.New("ingestion unavailable")

	ErrInvalidWindow   = errors.New("invalid analysis window")
	ErrMetricStore     = errors.New("metric store unavailable")
	ErrSnapshotPersist = errors.New("error persisting analysis snapshot")
	ErrNoSnapshot      = errors.New("no analysis available")
)

// Estágios do pipeline, usados em logs, métricas e erros
const (
	StageIngest    = "ingest"
	StageNormalize = "normalize"
	StageAnalyze   = "analyze"
	StagePersist   = "persist"
)

// AnalysisError é um erro com contexto do estágio em que o pipeline falhou
type AnalysisError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Stage   string // Estágio do pipeline
	Details string // Detalhes adicionais
}

func (e *AnalysisError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func NewAnalysisError(err error, code, stage, details string) *AnalysisError {
	return &AnalysisError{
		Err:     err,
		Code:    code,
		Stage:   stage,
		Details: details,
	}
}
