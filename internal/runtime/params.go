package runtime

import (
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// number coerces a block value to float64.
// A missing, empty or malformed value yields def; it never fails.
func number(v any, def float64) float64 {
	if out, ok := Numeric(v); ok {
		return out
	}
	return def
}

// nonZero is number with an explicit zero also yielding def.
func nonZero(v any, def float64) float64 {
	if out := number(v, def); out != 0 {
		return out
	}
	return def
}

// Numeric reports the finite number a block value denotes, if any.
// Numeric strings count; blank strings do not.
func Numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, false
		}
		v = strings.TrimSpace(x)
	}

	var out float64
	if err := mapstructure.WeakDecode(v, &out); err != nil {
		return 0, false
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, false
	}
	return out, true
}
