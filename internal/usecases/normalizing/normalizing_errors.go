package normalizing

import (
	"errors"
	"fmt"
)

// ErrRowNormalization indica uma linha bruta descartada. Não interrompe o lote.
var ErrRowNormalization = errors.New("linha bruta inválida")

// RowError identifica a linha descartada e o motivo
type RowError struct {
	Index int
	Level string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: linha %d do nível %s: %v", ErrRowNormalization, e.Index, e.Level, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrRowNormalization, e.Err}
}
