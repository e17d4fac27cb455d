package analyzing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/domain"
)

func TestBuildSummary(t *testing.T) {
	metrics := []domain.NormalizedMetric{
		nm(domain.EntityAccount, "act_1", "Account", "2024-01-01", "spend", 120),
		nm(domain.EntityAccount, "act_1", "Account", "2024-01-02", "spend", 80),
		nm(domain.EntityAccount, "act_1", "Account", "2024-01-01", "impressions", 1000),
		nm(domain.EntityAccount, "act_1", "Account", "2024-01-01", "clicks", 20),
		nm(domain.EntityAccount, "act_1", "Account", "2024-01-01", "reach", 800),
		nm(domain.EntityAccount, "act_1", "Account", "2024-01-01", "conversions", 2),
		nm(domain.EntityAccount, "act_1", "Account", "2024-01-01", "purchase_value", 500),
		// campanhas não entram no resumo
		nm(domain.EntityCampaign, "c1", "C1", "2024-01-01", "spend", 999),
	}

	summary := BuildSummary(metrics)

	assert.Equal(t, 200.0, summary.TotalSpend)
	assert.Equal(t, int64(1000), summary.TotalImpressions)
	assert.Equal(t, int64(20), summary.TotalClicks)
	assert.Equal(t, int64(800), summary.TotalReach)
	assert.Equal(t, int64(2), summary.TotalConversions)
	assert.Equal(t, 2.0, summary.AvgCTR)
	assert.Equal(t, 10.0, summary.AvgCPC)
	assert.Equal(t, 200.0, summary.AvgCPM)
	assert.Equal(t, 2.5, summary.OverallROAS)
	assert.True(t, summary.ROASContext.Applicable)
}

func TestBuildRankings(t *testing.T) {
	var metrics []domain.NormalizedMetric
	metrics = append(metrics, campaignTotals("a", "A", "2024-01-01", map[string]float64{"spend": 100, "purchase_value": 200})...)
	metrics = append(metrics, campaignTotals("b", "B", "2024-01-01", map[string]float64{"spend": 100, "purchase_value": 500})...)
	metrics = append(metrics, campaignTotals("c", "C", "2024-01-01", map[string]float64{"spend": 50, "purchase_value": 100})...)

	rankings := BuildRankings(ComputeKPIs(metrics, domain.EntityCampaign))

	require.Len(t, rankings, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{rankings[0].EntityID, rankings[1].EntityID, rankings[2].EntityID})
	assert.Equal(t, domain.CampaignRanking{
		Rank:         1,
		EntityID:     "b",
		EntityName:   "B",
		PrimaryKPI:   "roas",
		PrimaryValue: 5,
		Spend:        100,
		ROAS:         5,
	}, rankings[0])
	assert.Equal(t, 3, rankings[2].Rank)
}

func TestDetermineROASContext(t *testing.T) {
	withValue := domain.MetaSummary{OverallROAS: 2, TotalConversions: 3}

	tests := []struct {
		name      string
		objective string
		summary   domain.MetaSummary
		want      domain.MetricContext
	}{
		{"geração de leads", "OUTCOME_LEADS", withValue, domain.MetricContext{Applicable: false, Reason: domain.ROASLeadGen}},
		{"reconhecimento em minúsculas", "reach", withValue, domain.MetricContext{Applicable: false, Reason: domain.ROASAwareness}},
		{"sem valor de conversão", "OUTCOME_SALES", domain.MetaSummary{}, domain.MetricContext{Applicable: false, Reason: domain.ROASNoConversionValue}},
		{"vendas com retorno", "OUTCOME_SALES", withValue, domain.MetricContext{Applicable: true, Reason: domain.ROASApplicable}},
		{"objetivo desconhecido", "", withValue, domain.MetricContext{Applicable: true, Reason: domain.ROASApplicable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineROASContext(tt.objective, tt.summary))
		})
	}
}

func TestDetectRisks(t *testing.T) {
	trend := func(metric string, change float64, signal domain.Signal, available bool) domain.TrendSignal {
		direction := domain.DirectionUp
		if change < 0 {
			direction = domain.DirectionDown
		}
		return domain.TrendSignal{
			MetricName:              metric,
			EntityType:              domain.EntityCampaign,
			EntityID:                "c1",
			EntityName:              "Campanha 1",
			ChangePct:               change,
			Direction:               direction,
			Signal:                  signal,
			PreviousPeriodAvailable: available,
		}
	}

	risks := DetectRisks([]domain.TrendSignal{
		trend("cpc", 60, domain.SignalAlert, true),
		trend("cpm", 30, domain.SignalAlert, true),
		trend("spend", 20, domain.SignalAlert, true),
		trend("cpa", 80, domain.SignalAlert, false),
		trend("ctr", -70, domain.SignalDeclining, true),
	})

	require.Len(t, risks, 2)
	assert.Equal(t, domain.Risk{
		Type:        "trend_alert",
		Description: "cpc up +60.0% for Campanha 1",
		Severity:    domain.ImpactHigh,
		EntityType:  domain.EntityCampaign,
		EntityID:    "c1",
	}, risks[0])
	assert.Equal(t, domain.ImpactMedium, risks[1].Severity)
	assert.Equal(t, "cpm up +30.0% for Campanha 1", risks[1].Description)

	assert.NotNil(t, DetectRisks(nil))
}
