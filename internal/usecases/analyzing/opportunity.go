package analyzing

import (
	"fmt"
	"strconv"

	"github.com/vfg2006/mruda-api/internal/domain"
)

const (
	highROASThreshold    = 3.0
	lowSpendRatio        = 0.3
	highEngagementRate   = 2.0
	lowCTRThreshold      = 1.0
	lowCPCThresholdRatio = 0.7
)

// protectROASThreshold acompanha o limiar de ROAS alto
const protectROASThreshold = 2 * highROASThreshold

// ComputeOpportunities aplica as regras de oportunidade a cada campanha.
// Os limiares relativos consideram apenas entidades com valor positivo.
func ComputeOpportunities(kpis []domain.KPIMetric) []domain.Opportunity {
	table := newKPITable(kpis, "")
	opportunities := make([]domain.Opportunity, 0)

	avgSpend := positiveMean(table, "spend")
	avgCPC := positiveMean(table, "cpc")
	spendThreshold := avgSpend * lowSpendRatio
	cpcThreshold := avgCPC * lowCPCThresholdRatio

	for _, entity := range table.order {
		roas := table.get(entity.ID, "roas")
		spend := table.get(entity.ID, "spend")
		ctr := table.get(entity.ID, "ctr")
		cpc := table.get(entity.ID, "cpc")
		clicks := table.get(entity.ID, "clicks")
		engagement := table.get(entity.ID, "engagement_rate")

		add := func(kind, description string, impact domain.Impact) {
			opportunities = append(opportunities, domain.Opportunity{
				Type:            kind,
				Description:     description,
				EntityType:      domain.EntityCampaign,
				EntityID:        entity.ID,
				EntityName:      entity.Name,
				PotentialImpact: impact,
			})
		}

		if roas >= highROASThreshold && spend > 0 && spend <= spendThreshold {
			add("scale_up",
				fmt.Sprintf("High ROAS (%sx) with low spend (%s). Consider increasing budget.", formatValue(roas), formatValue(spend)),
				domain.ImpactHigh)
		}

		if engagement >= highEngagementRate && ctr > 0 && ctr < lowCTRThreshold {
			add("cta_optimization",
				fmt.Sprintf("High engagement (%s%%) but low CTR (%s%%). Ad resonates but CTA needs work.", formatValue(engagement), formatValue(ctr)),
				domain.ImpactMedium)
		}

		if cpc > 0 && cpc <= cpcThreshold && clicks > 0 {
			add("capitalize_efficiency",
				fmt.Sprintf("Below-average CPC (%s vs avg %s). Efficient traffic source, scale it.", formatValue(cpc), formatValue(avgCPC)),
				domain.ImpactMedium)
		}

		if roas >= protectROASThreshold {
			add("protect_performer",
				fmt.Sprintf("Exceptional ROAS (%sx). Protect this campaign from budget cuts.", formatValue(roas)),
				domain.ImpactHigh)
		}
	}

	return opportunities
}

func positiveMean(table *kpiTable, name string) float64 {
	var sum float64
	var count int
	for _, entity := range table.order {
		if v := table.get(entity.ID, name); v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// formatValue usa a menor representação exata do valor
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
