package analyzing

import "github.com/vfg2006/mruda-api/internal/domain"

func nm(entityType domain.EntityType, id, name, date, metric string, value float64) domain.NormalizedMetric {
	return domain.NormalizedMetric{
		Source:      domain.SourceMeta,
		EntityType:  entityType,
		EntityID:    id,
		EntityName:  name,
		Date:        date,
		MetricName:  metric,
		MetricValue: value,
	}
}

// campaignTotals gera as métricas base de uma campanha em um único dia
func campaignTotals(id, name, date string, values map[string]float64) []domain.NormalizedMetric {
	order := []string{"impressions", "clicks", "spend", "conversions", "purchase_value", "post_engagement", "video_views", "video_p100_watched", "reach"}
	var out []domain.NormalizedMetric
	for _, metric := range order {
		if v, ok := values[metric]; ok {
			out = append(out, nm(domain.EntityCampaign, id, name, date, metric, v))
		}
	}
	return out
}

func kpiValue(kpis []domain.KPIMetric, entityID, name string) (float64, bool) {
	for _, k := range kpis {
		if k.EntityID == entityID && k.Name == name {
			return k.Value, true
		}
	}
	return 0, false
}
