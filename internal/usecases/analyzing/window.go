package analyzing

import (
	"time"

	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/pkg/utils"
)

// Intervalos nomeados aceitos em date_range
const (
	RangeYesterday = "yesterday"
	RangeLast7d    = "last_7d"
	RangeLast14d   = "last_14d"
	RangeLast30d   = "last_30d"
	RangeThisMonth = "this_month"
)

// ResolveWindow escolhe a janela de análise. Datas explícitas válidas têm
// prioridade sobre o intervalo nomeado; qualquer entrada inválida cai nos
// últimos 7 dias completos. Início depois do fim conta como entrada inválida.
// today é truncado para a data UTC.
func ResolveWindow(dateRange, startDate, endDate string, today time.Time) domain.DateWindow {
	today = startOfDayUTC(today)
	yesterday := today.AddDate(0, 0, -1)

	start, startOK := utils.ParseDate(startDate)
	end, endOK := utils.ParseDate(endDate)
	if startOK && endOK && !end.Before(start) {
		return domain.NewDateWindow(start, end)
	}

	switch dateRange {
	case RangeYesterday:
		return domain.NewDateWindow(yesterday, yesterday)
	case RangeLast7d:
		return domain.NewDateWindow(today.AddDate(0, 0, -7), yesterday)
	case RangeLast14d:
		return domain.NewDateWindow(today.AddDate(0, 0, -14), yesterday)
	case RangeLast30d:
		return domain.NewDateWindow(today.AddDate(0, 0, -30), yesterday)
	case RangeThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return domain.NewDateWindow(first, today)
	}

	return domain.NewDateWindow(today.AddDate(0, 0, -7), yesterday)
}

// startOfDayUTC retorna a meia-noite UTC do dia de t
func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
