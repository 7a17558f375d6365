package autosave

import (
	"math"
	"strings"
)

// SanitizeFornecedor normalizes a supplier code: whitespace-only values
// mean "unset" and become nil.
func SanitizeFornecedor(value *string) *string {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil
	}
	return &s
}

// SanitizeEmbalagem normalizes a packaging lot size: values below 1 or
// non-finite are unset, valid values are floored to an integer.
func SanitizeEmbalagem(value *float64) *int {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return nil
	}
	if *value < 1 {
		return nil
	}
	v := int(math.Floor(*value))
	return &v
}

// SanitizeObservacao normalizes a purchasing note the same way as the
// supplier code.
func SanitizeObservacao(value *string) *string {
	return SanitizeFornecedor(value)
}
