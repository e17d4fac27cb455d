package utils

import "time"

// ParseDate interpreta datas YYYY-MM-DD. Vazio ou inválido retorna false.
func ParseDate(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return time.Time{}, false
	}

	return date, true
}
