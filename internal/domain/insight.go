package domain

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// KPIMetric é um KPI derivado para uma entidade na janela analisada
type KPIMetric struct {
	Name       string     `json:"name"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit"`
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	EntityName string     `json:"entity_name"`
}

type TrendDirection string

const (
	DirectionUp   TrendDirection = "up"
	DirectionDown TrendDirection = "down"
	DirectionFlat TrendDirection = "flat"
)

type Signal string

const (
	SignalImproving        Signal = "improving"
	SignalDeclining        Signal = "declining"
	SignalStable           Signal = "stable"
	SignalAlert            Signal = "alert"
	SignalInsufficientData Signal = "insufficient_data"
)

// TrendSignal compara o período atual com o período anterior de mesma duração
type TrendSignal struct {
	MetricName              string         `json:"metric_name"`
	EntityType              EntityType     `json:"entity_type"`
	EntityID                string         `json:"entity_id"`
	EntityName              string         `json:"entity_name"`
	CurrentValue            float64        `json:"current_value"`
	PreviousValue           float64        `json:"previous_value"`
	ChangePct               float64        `json:"change_pct"`
	Direction               TrendDirection `json:"direction"`
	Signal                  Signal         `json:"signal"`
	PreviousPeriodAvailable bool           `json:"previous_period_available"`
}

// FatigueLevel tem ordem total none < low < medium < high < critical
type FatigueLevel string

const (
	FatigueNone     FatigueLevel = "none"
	FatigueLow      FatigueLevel = "low"
	FatigueMedium   FatigueLevel = "medium"
	FatigueHigh     FatigueLevel = "high"
	FatigueCritical FatigueLevel = "critical"
)

var fatigueOrder = []FatigueLevel{FatigueNone, FatigueLow, FatigueMedium, FatigueHigh, FatigueCritical}

// Rank retorna a posição do nível na ordem total. Níveis desconhecidos valem 0.
func (f FatigueLevel) Rank() int {
	for i, level := range fatigueOrder {
		if level == f {
			return i
		}
	}
	return 0
}

// Escalate sobe exatamente um nível, saturando em critical
func (f FatigueLevel) Escalate() FatigueLevel {
	idx := f.Rank() + 1
	if idx >= len(fatigueOrder) {
		idx = len(fatigueOrder) - 1
	}
	return fatigueOrder[idx]
}

// AffectedEntity é uma entidade com fadiga diferente de none
type AffectedEntity struct {
	EntityID     string       `json:"entity_id"`
	EntityName   string       `json:"entity_name"`
	EntityType   EntityType   `json:"entity_type"`
	FatigueLevel FatigueLevel `json:"fatigue_level"`
	AvgFrequency float64      `json:"avg_frequency"`
	CTRDeclining bool         `json:"ctr_declining"`
	CPCRising    bool         `json:"cpc_rising"`
}

type FatigueAnalysis struct {
	FatigueLevel     FatigueLevel     `json:"fatigue_level"`
	AffectedEntities []AffectedEntity `json:"affected_entities"`
	Signals          []string         `json:"signals"`
}

type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

type Opportunity struct {
	Type            string     `json:"type"`
	Description     string     `json:"description"`
	EntityType      EntityType `json:"entity_type"`
	EntityID        string     `json:"entity_id"`
	EntityName      string     `json:"entity_name"`
	PotentialImpact Impact     `json:"potential_impact"`
}

type Risk struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Severity    Impact     `json:"severity"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
}

// ConfidenceBreakdown detalha os quatro fatores do score de confiança, todos em [0,1]
type ConfidenceBreakdown struct {
	DataCompleteness float64 `json:"data_completeness"`
	SampleSizeFactor float64 `json:"sample_size_factor"`
	MetricCoverage   float64 `json:"metric_coverage"`
	VolumeStability  float64 `json:"volume_stability"`
}

type ROASReason string

const (
	ROASApplicable        ROASReason = "applicable"
	ROASLeadGen           ROASReason = "lead_generation_campaign"
	ROASAwareness         ROASReason = "awareness_objective"
	ROASNoConversionValue ROASReason = "no_conversion_value_tracked"
)

// MetricContext indica se uma métrica faz sentido para o objetivo da conta
type MetricContext struct {
	Applicable bool       `json:"applicable"`
	Reason     ROASReason `json:"reason"`
}

// MetaSummary é o resumo em nível de conta
type MetaSummary struct {
	TotalSpend        float64       `json:"total_spend"`
	TotalImpressions  int64         `json:"total_impressions"`
	TotalClicks       int64         `json:"total_clicks"`
	TotalReach        int64         `json:"total_reach"`
	AvgCTR            float64       `json:"avg_ctr"`
	AvgCPC            float64       `json:"avg_cpc"`
	AvgCPM            float64       `json:"avg_cpm"`
	TotalConversions  int64         `json:"total_conversions"`
	OverallROAS       float64       `json:"overall_roas"`
	CampaignObjective string        `json:"campaign_objective"`
	ROASContext       MetricContext `json:"roas_context"`
}

type CampaignRanking struct {
	Rank         int     `json:"rank"`
	EntityID     string  `json:"entity_id"`
	EntityName   string  `json:"entity_name"`
	PrimaryKPI   string  `json:"primary_kpi"`
	PrimaryValue float64 `json:"primary_value"`
	Spend        float64 `json:"spend"`
	ROAS         float64 `json:"roas"`
}

// InsightOutput é o relatório estruturado consumido pelos geradores de narrativa.
// Os nomes dos campos fazem parte do contrato e só mudam com novo schema_version.
type InsightOutput struct {
	SchemaVersion       string              `json:"schema_version"`
	RunID               string              `json:"run_id,omitempty"`
	GeneratedAt         time.Time           `json:"generated_at"`
	Currency            string              `json:"currency"`
	DateRangeStart      string              `json:"date_range_start"`
	DateRangeEnd        string              `json:"date_range_end"`
	MetaSummary         MetaSummary         `json:"meta_summary"`
	KPIs                []KPIMetric         `json:"kpis"`
	CampaignRankings    []CampaignRanking   `json:"campaign_rankings"`
	TrendSignals        []TrendSignal       `json:"trend_signals"`
	FatigueAnalysis     FatigueAnalysis     `json:"fatigue_analysis"`
	Opportunities       []Opportunity       `json:"opportunities"`
	Risks               []Risk              `json:"risks"`
	ConfidenceScore     float64             `json:"confidence_score"`
	ConfidenceBreakdown ConfidenceBreakdown `json:"confidence_breakdown"`
}

// AnalysisSnapshot é a versão persistida de um InsightOutput. Nunca é alterada.
type AnalysisSnapshot struct {
	ID             int64     `json:"id" db:"id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	SchemaVersion  string    `json:"schema_version" db:"schema_version"`
	DateRangeStart string    `json:"date_range_start" db:"date_range_start"`
	DateRangeEnd   string    `json:"date_range_end" db:"date_range_end"`
	ResultJSON     []byte    `json:"-" db:"result_json"`
}

// Insight decodifica o relatório guardado no snapshot
func (s *AnalysisSnapshot) Insight() (*InsightOutput, error) {
	var out InsightOutput
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(s.ResultJSON, &out); err != nil {
		return nil, fmt.Errorf("snapshot %d corrompido: %w", s.ID, err)
	}
	return &out, nil
}
