package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Add appends f when a check failed.
func (e *Errs) Add(f *ErrField) {
	if f != nil {
		*e = append(*e, *f)
	}
}

// Err returns nil when nothing failed.
func (e Errs) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func Positive(field string, v *decimal.Decimal) *ErrField {
	if v == nil {
		return &ErrField{Field: field, Msg: "required"}
	}
	if !v.IsPositive() {
		return &ErrField{Field: field, Msg: "must be > 0"}
	}
	return nil
}

// NonNegative accepts an absent value.
func NonNegative(field string, v *decimal.Decimal) *ErrField {
	if v != nil && v.IsNegative() {
		return &ErrField{Field: field, Msg: "must be >= 0"}
	}
	return nil
}

// MaxScale rejects values with more than places digits after the point.
// An absent value passes.
func MaxScale(field string, v *decimal.Decimal, places int32) *ErrField {
	if v != nil && !v.Equal(v.Truncate(places)) {
		return &ErrField{Field: field, Msg: fmt.Sprintf("at most %d decimal places", places)}
	}
	return nil
}
