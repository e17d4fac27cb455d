package analyzing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/domain"
)

func TestComputeOpportunities(t *testing.T) {
	t.Run("uma campanha sozinha não dispara regras relativas", func(t *testing.T) {
		kpis := ComputeKPIs(campaignTotals("c1", "C1", "2024-01-01", map[string]float64{
			"impressions":    10000,
			"clicks":         250,
			"spend":          500,
			"conversions":    10,
			"purchase_value": 2000,
		}), domain.EntityCampaign)

		assert.Empty(t, ComputeOpportunities(kpis))
	})

	t.Run("scale_up e capitalize_efficiency", func(t *testing.T) {
		var metrics []domain.NormalizedMetric
		metrics = append(metrics, campaignTotals("a", "A", "2024-01-01", map[string]float64{
			"impressions": 10000, "clicks": 250, "spend": 500, "purchase_value": 2000,
		})...)
		metrics = append(metrics, campaignTotals("b", "B", "2024-01-01", map[string]float64{
			"impressions": 50000, "clicks": 1000, "spend": 5000, "purchase_value": 5000,
		})...)
		// sem gasto: não pode mexer nos limiares
		metrics = append(metrics, campaignTotals("c", "C", "2024-01-01", map[string]float64{
			"impressions": 10,
		})...)

		opportunities := ComputeOpportunities(ComputeKPIs(metrics, domain.EntityCampaign))

		require.Len(t, opportunities, 2)
		assert.Equal(t, domain.Opportunity{
			Type:            "scale_up",
			Description:     "High ROAS (4x) with low spend (500). Consider increasing budget.",
			EntityType:      domain.EntityCampaign,
			EntityID:        "a",
			EntityName:      "A",
			PotentialImpact: domain.ImpactHigh,
		}, opportunities[0])
		assert.Equal(t, "capitalize_efficiency", opportunities[1].Type)
		assert.Equal(t, "Below-average CPC (2 vs avg 3.5). Efficient traffic source, scale it.", opportunities[1].Description)
		assert.Equal(t, domain.ImpactMedium, opportunities[1].PotentialImpact)
	})

	t.Run("protect_performer a partir do dobro do ROAS alto", func(t *testing.T) {
		kpis := ComputeKPIs(campaignTotals("p", "P", "2024-01-01", map[string]float64{
			"impressions": 1000, "clicks": 10, "spend": 100, "purchase_value": 700,
		}), domain.EntityCampaign)

		opportunities := ComputeOpportunities(kpis)

		require.Len(t, opportunities, 1)
		assert.Equal(t, "protect_performer", opportunities[0].Type)
		assert.Equal(t, "Exceptional ROAS (7x). Protect this campaign from budget cuts.", opportunities[0].Description)
		assert.Equal(t, 6.0, protectROASThreshold)
	})

	t.Run("cta_optimization", func(t *testing.T) {
		kpis := ComputeKPIs(campaignTotals("e", "E", "2024-01-01", map[string]float64{
			"impressions": 10000, "clicks": 50, "post_engagement": 300,
		}), domain.EntityCampaign)

		opportunities := ComputeOpportunities(kpis)

		require.Len(t, opportunities, 1)
		assert.Equal(t, "cta_optimization", opportunities[0].Type)
		assert.Equal(t, "High engagement (3%) but low CTR (0.5%). Ad resonates but CTA needs work.", opportunities[0].Description)
	})
}
