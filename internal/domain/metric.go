package domain

import "time"

// EntityType identifica o nível de granularidade de uma entidade de anúncio
type EntityType string

const (
	EntityAccount  EntityType = "account"
	EntityCampaign EntityType = "campaign"
	EntityAdSet    EntityType = "adset"
	EntityAd       EntityType = "ad"
)

// IngestionLevels é a ordem em que os níveis são buscados e normalizados
var IngestionLevels = []EntityType{EntityAccount, EntityCampaign, EntityAdSet, EntityAd}

func (e EntityType) IsValid() bool {
	switch e {
	case EntityAccount, EntityCampaign, EntityAdSet, EntityAd:
		return true
	}
	return false
}

// MetricType classifica semanticamente uma métrica
type MetricType string

const (
	MetricTypeVolume     MetricType = "volume"
	MetricTypeCost       MetricType = "cost"
	MetricTypeRevenue    MetricType = "revenue"
	MetricTypeRate       MetricType = "rate"
	MetricTypeDerived    MetricType = "derived"
	MetricTypeEngagement MetricType = "engagement"
	MetricTypeVideo      MetricType = "video"
	MetricTypeUnknown    MetricType = "unknown"
)

// SourceMeta é a única fonte de ingestão suportada hoje
const SourceMeta = "meta"

// NormalizedMetric é um fato único no esquema universal de métricas
type NormalizedMetric struct {
	ID          int64      `json:"id" db:"id"`
	Source      string     `json:"source" db:"source"`
	EntityType  EntityType `json:"entity_type" db:"entity_type"`
	EntityID    string     `json:"entity_id" db:"entity_id"`
	EntityName  string     `json:"entity_name" db:"entity_name"`
	Date        string     `json:"date" db:"date"`
	MetricName  string     `json:"metric_name" db:"metric_name"`
	MetricValue float64    `json:"metric_value" db:"metric_value"`
	MetricType  MetricType `json:"metric_type" db:"metric_type"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// MetricKey é a chave composta única de um NormalizedMetric
type MetricKey struct {
	Source     string
	EntityType EntityType
	EntityID   string
	Date       string
	MetricName string
}

func (m NormalizedMetric) Key() MetricKey {
	return MetricKey{
		Source:     m.Source,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Date:       m.Date,
		MetricName: m.MetricName,
	}
}

// MetricQuery filtra métricas normalizadas. Campos vazios não restringem a busca.
type MetricQuery struct {
	Source     string
	EntityType EntityType
	EntityID   string
	MetricName string
	Window     DateWindow
}

// Matches reporta se a métrica satisfaz o filtro
func (q MetricQuery) Matches(m NormalizedMetric) bool {
	if q.Source != "" && m.Source != q.Source {
		return false
	}
	if q.EntityType != "" && m.EntityType != q.EntityType {
		return false
	}
	if q.EntityID != "" && m.EntityID != q.EntityID {
		return false
	}
	if q.MetricName != "" && m.MetricName != q.MetricName {
		return false
	}
	return q.Window.Contains(m.Date)
}
