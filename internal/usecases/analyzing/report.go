package analyzing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/pkg/utils"
)

const (
	riskChangeThreshold     = 25.0
	highRiskChangeThreshold = 50.0
	primaryKPI              = "roas"
)

var leadGenObjectives = map[string]bool{
	"LEAD_GENERATION": true,
	"OUTCOME_LEADS":   true,
	"LEAD_GEN":        true,
}

var awarenessObjectives = map[string]bool{
	"BRAND_AWARENESS":   true,
	"REACH":             true,
	"OUTCOME_AWARENESS": true,
}

// BuildSummary resume as métricas em nível de conta
func BuildSummary(metrics []domain.NormalizedMetric) domain.MetaSummary {
	t := sumAll(metrics, domain.EntityAccount)

	return domain.MetaSummary{
		TotalSpend:       utils.RoundTo(t.Spend, 2),
		TotalImpressions: int64(t.Impressions),
		TotalClicks:      int64(t.Clicks),
		TotalReach:       int64(t.Reach),
		AvgCTR:           utils.RoundTo(utils.SafeDiv(t.Clicks, t.Impressions)*100, 4),
		AvgCPC:           utils.RoundTo(utils.SafeDiv(t.Spend, t.Clicks), 4),
		AvgCPM:           utils.RoundTo(utils.SafeDiv(t.Spend, t.Impressions)*1000, 4),
		TotalConversions: int64(t.Conversions),
		OverallROAS:      utils.RoundTo(utils.SafeDiv(t.PurchaseValue, t.Spend), 4),
		ROASContext:      domain.MetricContext{Applicable: true, Reason: domain.ROASApplicable},
	}
}

// BuildRankings ordena as campanhas por ROAS decrescente. Empates mantêm a ordem original.
func BuildRankings(kpis []domain.KPIMetric) []domain.CampaignRanking {
	table := newKPITable(kpis, domain.EntityCampaign)

	entities := append([]entityRef(nil), table.order...)
	sort.SliceStable(entities, func(i, j int) bool {
		return table.get(entities[i].ID, primaryKPI) > table.get(entities[j].ID, primaryKPI)
	})

	rankings := make([]domain.CampaignRanking, 0, len(entities))
	for i, entity := range entities {
		roas := utils.RoundTo(table.get(entity.ID, primaryKPI), 4)
		rankings = append(rankings, domain.CampaignRanking{
			Rank:         i + 1,
			EntityID:     entity.ID,
			EntityName:   entity.Name,
			PrimaryKPI:   primaryKPI,
			PrimaryValue: roas,
			Spend:        utils.RoundTo(table.get(entity.ID, "spend"), 2),
			ROAS:         roas,
		})
	}

	return rankings
}

// DetermineROASContext indica se o ROAS faz sentido para o objetivo da campanha
func DetermineROASContext(objective string, summary domain.MetaSummary) domain.MetricContext {
	objective = strings.ToUpper(objective)

	switch {
	case leadGenObjectives[objective]:
		return domain.MetricContext{Applicable: false, Reason: domain.ROASLeadGen}
	case awarenessObjectives[objective]:
		return domain.MetricContext{Applicable: false, Reason: domain.ROASAwareness}
	case summary.OverallROAS == 0 && summary.TotalConversions == 0:
		return domain.MetricContext{Applicable: false, Reason: domain.ROASNoConversionValue}
	}

	return domain.MetricContext{Applicable: true, Reason: domain.ROASApplicable}
}

// DetectRisks transforma alertas fortes de tendência em riscos. Sem período
// anterior não há risco.
func DetectRisks(trends []domain.TrendSignal) []domain.Risk {
	risks := make([]domain.Risk, 0)

	for _, t := range trends {
		if !t.PreviousPeriodAvailable || t.Signal != domain.SignalAlert {
			continue
		}

		change := math.Abs(t.ChangePct)
		if change <= riskChangeThreshold {
			continue
		}

		severity := domain.ImpactMedium
		if change > highRiskChangeThreshold {
			severity = domain.ImpactHigh
		}

		risks = append(risks, domain.Risk{
			Type:        "trend_alert",
			Description: fmt.Sprintf("%s %s %+.1f%% for %s", t.MetricName, t.Direction, t.ChangePct, t.EntityName),
			Severity:    severity,
			EntityType:  t.EntityType,
			EntityID:    t.EntityID,
		})
	}

	return risks
}
