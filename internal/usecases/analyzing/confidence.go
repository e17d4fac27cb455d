package analyzing

import (
	"math"

	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/pkg/utils"
)

const (
	fullSampleEntities = 5.0
	defaultStability   = 0.5

	weightCompleteness = 0.3
	weightSampleSize   = 0.2
	weightCoverage     = 0.3
	weightStability    = 0.2
)

var coverageMetrics = []string{"impressions", "clicks", "spend", "ctr", "cpc"}

// ComputeConfidence estima a qualidade dos dados da janela. Sem métricas o
// score é 0 e todos os fatores são 0.
func ComputeConfidence(metrics []domain.NormalizedMetric, window domain.DateWindow) (float64, domain.ConfidenceBreakdown) {
	if len(metrics) == 0 {
		return 0, domain.ConfidenceBreakdown{}
	}

	dates := make(map[string]struct{})
	entities := make(map[string]struct{})
	names := make(map[string]struct{})
	dailyImpressions := make(map[string]float64)

	for _, m := range metrics {
		dates[m.Date] = struct{}{}
		entities[m.EntityID] = struct{}{}
		names[m.MetricName] = struct{}{}
		if m.MetricName == "impressions" {
			dailyImpressions[m.Date] += m.MetricValue
		}
	}

	completeness := 0.0
	if expected := window.Days(); expected > 0 {
		completeness = math.Min(float64(len(dates))/float64(expected), 1)
	}

	sampleSize := math.Min(float64(len(entities))/fullSampleEntities, 1)

	present := 0
	for _, name := range coverageMetrics {
		if _, ok := names[name]; ok {
			present++
		}
	}
	coverage := float64(present) / float64(len(coverageMetrics))

	stability := volumeStability(dailyImpressions)

	breakdown := domain.ConfidenceBreakdown{
		DataCompleteness: utils.RoundTo(completeness, 3),
		SampleSizeFactor: utils.RoundTo(sampleSize, 3),
		MetricCoverage:   utils.RoundTo(coverage, 3),
		VolumeStability:  utils.RoundTo(stability, 3),
	}

	score := completeness*weightCompleteness +
		sampleSize*weightSampleSize +
		coverage*weightCoverage +
		stability*weightStability

	return utils.RoundTo(score, 4), breakdown
}

// volumeStability é 1 - coeficiente de variação das impressões diárias
func volumeStability(daily map[string]float64) float64 {
	if len(daily) <= 1 {
		return defaultStability
	}

	var sum float64
	for _, v := range daily {
		sum += v
	}
	mean := sum / float64(len(daily))

	var variance float64
	for _, v := range daily {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(daily))

	cv := 1.0
	if mean > 0 {
		cv = math.Sqrt(variance) / mean
	}

	return math.Max(1-cv, 0)
}
