package analyzing

import (
	"fmt"

	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/pkg/utils"
)

const (
	ctrDeclineThreshold = -15.0
	cpcRiseThreshold    = 20.0
)

// fatigueBands em ordem decrescente; vale a primeira faixa atingida
var fatigueBands = []struct {
	level        domain.FatigueLevel
	minFrequency float64
}{
	{domain.FatigueCritical, 10},
	{domain.FatigueHigh, 7},
	{domain.FatigueMedium, 5},
	{domain.FatigueLow, 3},
}

func fatigueFromFrequency(avg float64) domain.FatigueLevel {
	for _, band := range fatigueBands {
		if avg >= band.minFrequency {
			return band.level
		}
	}
	return domain.FatigueNone
}

// ComputeFatigue classifica a fadiga pela frequência média de cada entidade e
// sobe um nível quando as tendências confirmam queda de CTR ou alta de CPC.
func ComputeFatigue(metrics []domain.NormalizedMetric, entityType domain.EntityType, trends []domain.TrendSignal) domain.FatigueAnalysis {
	type frequencyStats struct {
		name  string
		sum   float64
		count int
	}

	stats := make(map[string]*frequencyStats)
	var order []string

	for _, m := range metrics {
		if m.EntityType != entityType || m.MetricName != "frequency" {
			continue
		}
		s, ok := stats[m.EntityID]
		if !ok {
			s = &frequencyStats{}
			stats[m.EntityID] = s
			order = append(order, m.EntityID)
		}
		s.name = m.EntityName
		s.sum += m.MetricValue
		s.count++
	}

	analysis := domain.FatigueAnalysis{
		FatigueLevel:     domain.FatigueNone,
		AffectedEntities: make([]domain.AffectedEntity, 0),
		Signals:          make([]string, 0),
	}

	for _, entityID := range order {
		s := stats[entityID]
		avg := s.sum / float64(s.count)
		level := fatigueFromFrequency(avg)

		ctrDeclining, cpcRising := trendConfirmation(entityID, trends)
		if level != domain.FatigueNone && (ctrDeclining || cpcRising) {
			level = level.Escalate()
		}

		if level == domain.FatigueNone {
			continue
		}

		analysis.AffectedEntities = append(analysis.AffectedEntities, domain.AffectedEntity{
			EntityID:     entityID,
			EntityName:   s.name,
			EntityType:   entityType,
			FatigueLevel: level,
			AvgFrequency: utils.RoundTo(avg, 2),
			CTRDeclining: ctrDeclining,
			CPCRising:    cpcRising,
		})

		if level.Rank() > analysis.FatigueLevel.Rank() {
			analysis.FatigueLevel = level
		}
	}

	analysis.Signals = fatigueSignals(analysis.AffectedEntities)

	return analysis
}

func trendConfirmation(entityID string, trends []domain.TrendSignal) (ctrDeclining, cpcRising bool) {
	for _, t := range trends {
		if t.EntityID != entityID {
			continue
		}
		if t.MetricName == "ctr" && t.ChangePct <= ctrDeclineThreshold {
			ctrDeclining = true
		}
		if t.MetricName == "cpc" && t.ChangePct >= cpcRiseThreshold {
			cpcRising = true
		}
	}
	return ctrDeclining, cpcRising
}

func fatigueSignals(affected []domain.AffectedEntity) []string {
	signals := make([]string, 0, 3)

	var severe, ctrDrops, cpcRises int
	for _, a := range affected {
		if a.FatigueLevel == domain.FatigueHigh || a.FatigueLevel == domain.FatigueCritical {
			severe++
		}
		if a.CTRDeclining {
			ctrDrops++
		}
		if a.CPCRising {
			cpcRises++
		}
	}

	if severe > 0 {
		signals = append(signals, fmt.Sprintf("%d entities with high/critical fatigue", severe))
	}
	if ctrDrops > 0 {
		signals = append(signals, fmt.Sprintf("%d entities with declining CTR", ctrDrops))
	}
	if cpcRises > 0 {
		signals = append(signals, fmt.Sprintf("%d entities with rising CPC", cpcRises))
	}

	return signals
}
