package analyzing

import "github.com/vfg2006/mruda-api/internal/domain"

// entityRef identifica uma entidade na ordem em que apareceu
type entityRef struct {
	ID   string
	Name string
}

// entityTotals soma, por entidade, as métricas usadas nos KPIs
type entityTotals struct {
	Impressions    float64
	Clicks         float64
	Spend          float64
	Reach          float64
	Conversions    float64
	PurchaseValue  float64
	PostEngagement float64
	VideoViews     float64
	VideoP100      float64
}

func (t *entityTotals) add(name string, value float64) {
	switch name {
	case "impressions":
		t.Impressions += value
	case "clicks":
		t.Clicks += value
	case "spend":
		t.Spend += value
	case "reach":
		t.Reach += value
	case "conversions":
		t.Conversions += value
	case "purchase_value":
		t.PurchaseValue += value
	case "post_engagement":
		t.PostEngagement += value
	case "video_views":
		t.VideoViews += value
	case "video_p100_watched":
		t.VideoP100 += value
	}
}

// entityGroup agrega totais por entity_id preservando a ordem de primeira aparição
type entityGroup struct {
	order  []entityRef
	totals map[string]*entityTotals
}

func groupByEntity(metrics []domain.NormalizedMetric, entityType domain.EntityType) *entityGroup {
	g := &entityGroup{totals: make(map[string]*entityTotals)}

	for _, m := range metrics {
		if entityType != "" && m.EntityType != entityType {
			continue
		}

		totals, ok := g.totals[m.EntityID]
		if !ok {
			totals = &entityTotals{}
			g.totals[m.EntityID] = totals
			g.order = append(g.order, entityRef{ID: m.EntityID, Name: m.EntityName})
		}
		totals.add(m.MetricName, m.MetricValue)
	}

	return g
}

// sumAll soma todas as métricas, sem distinguir entidades
func sumAll(metrics []domain.NormalizedMetric, entityType domain.EntityType) entityTotals {
	var totals entityTotals
	for _, m := range metrics {
		if entityType != "" && m.EntityType != entityType {
			continue
		}
		totals.add(m.MetricName, m.MetricValue)
	}
	return totals
}
