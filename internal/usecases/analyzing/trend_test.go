package analyzing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/mruda-api/internal/domain"
)

func findTrend(trends []domain.TrendSignal, entityID, metric string) (domain.TrendSignal, bool) {
	for _, t := range trends {
		if t.EntityID == entityID && t.MetricName == metric {
			return t, true
		}
	}
	return domain.TrendSignal{}, false
}

func TestComputeTrends(t *testing.T) {
	current := []domain.NormalizedMetric{
		nm(domain.EntityCampaign, "c1", "C1", "2024-01-08", "clicks", 100),
		nm(domain.EntityCampaign, "c2", "C2", "2024-01-08", "cpc", 3),
		nm(domain.EntityCampaign, "c2", "C2", "2024-01-08", "ctr", 0.8),
		nm(domain.EntityCampaign, "c2", "C2", "2024-01-08", "spend", 101),
		nm(domain.EntityCampaign, "c2", "C2", "2024-01-08", "frequency", 4),
		nm(domain.EntityAd, "a1", "A1", "2024-01-08", "clicks", 5),
	}
	previous := []domain.NormalizedMetric{
		nm(domain.EntityCampaign, "c2", "C2", "2024-01-01", "cpc", 2),
		nm(domain.EntityCampaign, "c2", "C2", "2024-01-01", "ctr", 1),
		nm(domain.EntityCampaign, "c2", "C2", "2024-01-01", "spend", 100),
	}

	trends := ComputeTrends(current, previous, domain.EntityCampaign)

	t.Run("base zero não gera variação", func(t *testing.T) {
		trend, ok := findTrend(trends, "c1", "clicks")
		require.True(t, ok)
		assert.Equal(t, domain.SignalInsufficientData, trend.Signal)
		assert.Equal(t, domain.DirectionFlat, trend.Direction)
		assert.False(t, trend.PreviousPeriodAvailable)
		assert.Zero(t, trend.ChangePct)
		assert.Equal(t, 100.0, trend.CurrentValue)
	})

	t.Run("custo subindo é alerta", func(t *testing.T) {
		trend, ok := findTrend(trends, "c2", "cpc")
		require.True(t, ok)
		assert.Equal(t, 50.0, trend.ChangePct)
		assert.Equal(t, domain.DirectionUp, trend.Direction)
		assert.Equal(t, domain.SignalAlert, trend.Signal)
		assert.True(t, trend.PreviousPeriodAvailable)
	})

	t.Run("performance caindo é declínio", func(t *testing.T) {
		trend, ok := findTrend(trends, "c2", "ctr")
		require.True(t, ok)
		assert.Equal(t, -20.0, trend.ChangePct)
		assert.Equal(t, domain.SignalDeclining, trend.Signal)
	})

	t.Run("variação pequena é estável", func(t *testing.T) {
		trend, ok := findTrend(trends, "c2", "spend")
		require.True(t, ok)
		assert.Equal(t, domain.DirectionFlat, trend.Direction)
		assert.Equal(t, domain.SignalStable, trend.Signal)
	})

	t.Run("métricas não acompanhadas e outros níveis ficam de fora", func(t *testing.T) {
		_, ok := findTrend(trends, "c2", "frequency")
		assert.False(t, ok)
		_, ok = findTrend(trends, "a1", "clicks")
		assert.False(t, ok)
		assert.Len(t, trends, 4)
	})
}

func TestSignalOf(t *testing.T) {
	tests := []struct {
		metric    string
		direction domain.TrendDirection
		want      domain.Signal
	}{
		{"cpm", domain.DirectionDown, domain.SignalImproving},
		{"roas", domain.DirectionUp, domain.SignalImproving},
		{"impressions", domain.DirectionUp, domain.SignalStable},
		{"cpc", domain.DirectionFlat, domain.SignalStable},
	}

	for _, tt := range tests {
		t.Run(tt.metric+"_"+string(tt.direction), func(t *testing.T) {
			assert.Equal(t, tt.want, signalOf(tt.metric, tt.direction))
		})
	}
}
