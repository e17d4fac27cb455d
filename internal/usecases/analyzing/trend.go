package analyzing

import (
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/pkg/utils"
)

// Variação mínima, em pontos percentuais, para considerar movimento
const directionThreshold = 2.0

var trackedMetrics = map[string]bool{
	"impressions":     true,
	"clicks":          true,
	"spend":           true,
	"ctr":             true,
	"cpc":             true,
	"cpm":             true,
	"conversions":     true,
	"purchase_value":  true,
	"roas":            true,
	"engagement_rate": true,
}

// Em métricas de custo, subir é ruim
var costMetrics = map[string]bool{
	"cpc":   true,
	"cpm":   true,
	"cpa":   true,
	"spend": true,
}

var performanceMetrics = map[string]bool{
	"ctr":             true,
	"roas":            true,
	"engagement_rate": true,
	"clicks":          true,
	"conversions":     true,
	"purchase_value":  true,
}

type trendKey struct {
	EntityID   string
	EntityName string
	MetricName string
}

// ComputeTrends compara a janela atual com a anterior de mesma duração.
// Base zero nunca vira variação percentual: o sinal é insufficient_data.
func ComputeTrends(current, previous []domain.NormalizedMetric, entityType domain.EntityType) []domain.TrendSignal {
	currentSums, order := sumByTrendKey(current, entityType)
	previousSums, _ := sumByTrendKey(previous, entityType)

	signals := make([]domain.TrendSignal, 0, len(order))

	for _, key := range order {
		curr := currentSums[key]
		prev := previousSums[key]

		signal := domain.TrendSignal{
			MetricName:   key.MetricName,
			EntityType:   entityType,
			EntityID:     key.EntityID,
			EntityName:   key.EntityName,
			CurrentValue: utils.RoundTo(curr, 4),
		}

		if prev == 0 {
			signal.Direction = domain.DirectionFlat
			signal.Signal = domain.SignalInsufficientData
			signals = append(signals, signal)
			continue
		}

		change := (curr - prev) / prev * 100
		direction := directionOf(change)

		signal.PreviousValue = utils.RoundTo(prev, 4)
		signal.ChangePct = utils.RoundTo(change, 2)
		signal.Direction = direction
		signal.Signal = signalOf(key.MetricName, direction)
		signal.PreviousPeriodAvailable = true

		signals = append(signals, signal)
	}

	return signals
}

func sumByTrendKey(metrics []domain.NormalizedMetric, entityType domain.EntityType) (map[trendKey]float64, []trendKey) {
	sums := make(map[trendKey]float64)
	var order []trendKey

	for _, m := range metrics {
		if m.EntityType != entityType || !trackedMetrics[m.MetricName] {
			continue
		}

		key := trendKey{EntityID: m.EntityID, EntityName: m.EntityName, MetricName: m.MetricName}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] += m.MetricValue
	}

	return sums, order
}

func directionOf(change float64) domain.TrendDirection {
	switch {
	case change > directionThreshold:
		return domain.DirectionUp
	case change < -directionThreshold:
		return domain.DirectionDown
	}
	return domain.DirectionFlat
}

func signalOf(metric string, direction domain.TrendDirection) domain.Signal {
	switch {
	case costMetrics[metric] && direction == domain.DirectionUp:
		return domain.SignalAlert
	case costMetrics[metric] && direction == domain.DirectionDown:
		return domain.SignalImproving
	case performanceMetrics[metric] && direction == domain.DirectionUp:
		return domain.SignalImproving
	case performanceMetrics[metric] && direction == domain.DirectionDown:
		return domain.SignalDeclining
	}
	return domain.SignalStable
}
