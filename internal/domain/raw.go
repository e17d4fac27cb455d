package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// RawRow é uma linha de insight como devolvida pela plataforma de anúncios
type RawRow map[string]any

// ActionEntry é um item das listas aninhadas actions, action_values e video_pXX_watched_actions
type ActionEntry struct {
	ActionType string `mapstructure:"action_type"`
	Value      string `mapstructure:"value"`
}

// String retorna o campo como texto, vazio quando ausente
func (r RawRow) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Has reporta se o campo está presente na linha
func (r RawRow) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Float converte o campo para float64. Valores ausentes ou não numéricos viram 0.
func (r RawRow) Float(key string) float64 {
	return ToFloat(r[key])
}

// Actions decodifica uma lista aninhada de ações
func (r RawRow) Actions(key string) ([]ActionEntry, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return nil, nil
	}

	var entries []ActionEntry
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &entries,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("lista %s inválida: %w", key, err)
	}

	return entries, nil
}

// ToFloat converte valores vindos de JSON para float64, nunca falhando
func ToFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		parsed, err := strconv.ParseFloat(fmt.Sprint(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}

	// ParseFloat aceita "NaN" e "Inf"
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// RawPayload é a resposta bruta e imutável de um endpoint de ingestão
type RawPayload struct {
	ID          int64      `json:"id" db:"id"`
	Endpoint    string     `json:"endpoint" db:"endpoint"`
	EntityType  EntityType `json:"entity_type" db:"entity_type"`
	EntityID    string     `json:"entity_id" db:"entity_id"`
	DateStart   string     `json:"date_start" db:"date_start"`
	DateStop    string     `json:"date_stop" db:"date_stop"`
	FetchedAt   time.Time  `json:"fetched_at" db:"fetched_at"`
	PayloadJSON []byte     `json:"-" db:"payload_json"`
}
