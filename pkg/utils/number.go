package utils

import "math"

// RoundTo arredonda para a quantidade de casas decimais informada
func RoundTo(f float64, places int) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	pow := math.Pow(10, float64(places))
	return math.Round(f*pow) / pow
}

// SafeDiv retorna 0 quando o divisor é zero
func SafeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
