package normalizing

import "github.com/vfg2006/mruda-api/internal/domain"

// MetricDefinition descreve uma métrica conhecida
type MetricDefinition struct {
	Name        string
	Type        domain.MetricType
	Unit        string
	Aggregation string
}

const (
	aggregationSum = "sum"
	aggregationAvg = "avg"
)

// Registry é o catálogo imutável de métricas. Não há registro após a construção.
type Registry struct {
	definitions map[string]MetricDefinition
}

func NewRegistry() *Registry {
	defs := []MetricDefinition{
		{"impressions", domain.MetricTypeVolume, "count", aggregationSum},
		{"reach", domain.MetricTypeVolume, "count", aggregationSum},
		{"clicks", domain.MetricTypeVolume, "count", aggregationSum},
		{"unique_clicks", domain.MetricTypeVolume, "count", aggregationSum},
		{"link_clicks", domain.MetricTypeVolume, "count", aggregationSum},
		{"conversions", domain.MetricTypeVolume, "count", aggregationSum},
		{"frequency", domain.MetricTypeVolume, "ratio", aggregationAvg},

		{"spend", domain.MetricTypeCost, "currency", aggregationSum},
		{"purchase_value", domain.MetricTypeRevenue, "currency", aggregationSum},

		{"ctr", domain.MetricTypeRate, "%", aggregationAvg},
		{"cpc", domain.MetricTypeRate, "currency", aggregationAvg},
		{"cpm", domain.MetricTypeRate, "currency", aggregationAvg},
		{"cpp", domain.MetricTypeRate, "currency", aggregationAvg},

		{"post_engagement", domain.MetricTypeEngagement, "count", aggregationSum},
		{"page_engagement", domain.MetricTypeEngagement, "count", aggregationSum},
		{"likes", domain.MetricTypeEngagement, "count", aggregationSum},
		{"comments", domain.MetricTypeEngagement, "count", aggregationSum},
		{"shares", domain.MetricTypeEngagement, "count", aggregationSum},

		{"video_views", domain.MetricTypeVideo, "count", aggregationSum},
		{"video_p25_watched", domain.MetricTypeVideo, "count", aggregationSum},
		{"video_p50_watched", domain.MetricTypeVideo, "count", aggregationSum},
		{"video_p75_watched", domain.MetricTypeVideo, "count", aggregationSum},
		{"video_p100_watched", domain.MetricTypeVideo, "count", aggregationSum},

		{"roas", domain.MetricTypeDerived, "ratio", aggregationAvg},
		{"cpa", domain.MetricTypeDerived, "currency", aggregationAvg},
		{"engagement_rate", domain.MetricTypeDerived, "%", aggregationAvg},
		{"video_completion_rate", domain.MetricTypeDerived, "%", aggregationAvg},
	}

	r := &Registry{definitions: make(map[string]MetricDefinition, len(defs))}
	for _, d := range defs {
		r.definitions[d.Name] = d
	}

	return r
}

func (r *Registry) Lookup(name string) (MetricDefinition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// TypeOf classifica a métrica, retornando unknown quando não registrada
func (r *Registry) TypeOf(name string) domain.MetricType {
	if def, ok := r.definitions[name]; ok {
		return def.Type
	}
	return domain.MetricTypeUnknown
}

// Len retorna a quantidade de métricas registradas
func (r *Registry) Len() int {
	return len(r.definitions)
}
