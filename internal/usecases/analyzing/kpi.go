package analyzing

import (
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/pkg/utils"
)

const kpiPrecision = 4

const (
	unitPercent  = "%"
	unitCurrency = "currency"
	unitRatio    = "ratio"
	unitCount    = "count"
)

// ComputeKPIs agrega as métricas de cada entidade do tipo informado e calcula
// os KPIs derivados. Divisões por zero resultam em 0.
func ComputeKPIs(metrics []domain.NormalizedMetric, entityType domain.EntityType) []domain.KPIMetric {
	group := groupByEntity(metrics, entityType)
	kpis := make([]domain.KPIMetric, 0, len(group.order)*12)

	for _, entity := range group.order {
		t := group.totals[entity.ID]

		values := []struct {
			name  string
			value float64
			unit  string
		}{
			{"ctr", utils.SafeDiv(t.Clicks, t.Impressions) * 100, unitPercent},
			{"cpc", utils.SafeDiv(t.Spend, t.Clicks), unitCurrency},
			{"cpm", utils.SafeDiv(t.Spend, t.Impressions) * 1000, unitCurrency},
			{"cpa", utils.SafeDiv(t.Spend, t.Conversions), unitCurrency},
			{"roas", utils.SafeDiv(t.PurchaseValue, t.Spend), unitRatio},
			{"engagement_rate", utils.SafeDiv(t.PostEngagement, t.Impressions) * 100, unitPercent},
			{"video_completion_rate", utils.SafeDiv(t.VideoP100, t.VideoViews) * 100, unitPercent},
			// totais da janela, lidos pelas oportunidades e pelo ranking
			{"spend", t.Spend, unitCurrency},
			{"clicks", t.Clicks, unitCount},
			{"impressions", t.Impressions, unitCount},
			{"conversions", t.Conversions, unitCount},
			{"purchase_value", t.PurchaseValue, unitCurrency},
		}

		for _, v := range values {
			kpis = append(kpis, domain.KPIMetric{
				Name:       v.name,
				Value:      utils.RoundTo(v.value, kpiPrecision),
				Unit:       v.unit,
				EntityType: entityType,
				EntityID:   entity.ID,
				EntityName: entity.Name,
			})
		}
	}

	return kpis
}

// kpiTable reagrupa a lista de KPIs por entidade, na ordem original
type kpiTable struct {
	order  []entityRef
	values map[string]map[string]float64
}

func newKPITable(kpis []domain.KPIMetric, entityType domain.EntityType) *kpiTable {
	table := &kpiTable{values: make(map[string]map[string]float64)}

	for _, k := range kpis {
		if entityType != "" && k.EntityType != entityType {
			continue
		}
		values, ok := table.values[k.EntityID]
		if !ok {
			values = make(map[string]float64)
			table.values[k.EntityID] = values
			table.order = append(table.order, entityRef{ID: k.EntityID, Name: k.EntityName})
		}
		values[k.Name] = k.Value
	}

	return table
}

func (t *kpiTable) get(entityID, name string) float64 {
	return t.values[entityID][name]
}
