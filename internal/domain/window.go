package domain

import (
	"fmt"
	"time"
)

// DateWindow é um intervalo inclusivo de datas no formato YYYY-MM-DD
type DateWindow struct {
	Start string `json:"date_start"`
	Stop  string `json:"date_stop"`
}

func NewDateWindow(start, stop time.Time) DateWindow {
	return DateWindow{
		Start: start.Format(time.DateOnly),
		Stop:  stop.Format(time.DateOnly),
	}
}

// Bounds converte a janela em datas UTC
func (w DateWindow) Bounds() (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data inicial inválida %q: %w", w.Start, err)
	}

	stop, err := time.Parse(time.DateOnly, w.Stop)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data final inválida %q: %w", w.Stop, err)
	}

	return start, stop, nil
}

// Days retorna a quantidade de dias da janela, contando as duas pontas
func (w DateWindow) Days() int {
	start, stop, err := w.Bounds()
	if err != nil || stop.Before(start) {
		return 0
	}
	return int(stop.Sub(start).Hours()/24) + 1
}

// Contains compara lexicograficamente, válido para datas ISO
func (w DateWindow) Contains(date string) bool {
	return date >= w.Start && date <= w.Stop
}

// Previous retorna a janela imediatamente anterior com a mesma duração
func (w DateWindow) Previous() (DateWindow, error) {
	start, stop, err := w.Bounds()
	if err != nil {
		return DateWindow{}, err
	}

	length := int(stop.Sub(start).Hours()/24) + 1
	prevStop := start.AddDate(0, 0, -1)
	prevStart := prevStop.AddDate(0, 0, -(length - 1))

	return NewDateWindow(prevStart, prevStop), nil
}

func (w DateWindow) String() string {
	return fmt.Sprintf("%s → %s", w.Start, w.Stop)
}
