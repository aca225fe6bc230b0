package cipher

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidParameter reports a shift that is not an integer or lies
	// outside the variant's range. No job is produced.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidState reports Decrypt on a job that was never encrypted.
	// Callers can recover by calling Encrypt first.
	ErrInvalidState = errors.New("invalid state")
)

func invalidShift(kind Kind, shift, max int) error {
	return fmt.Errorf("%w: %s shift must lie in {0, ..., %d}, got %d", ErrInvalidParameter, kind, max, shift)
}

// ParseShift converts an untyped shift value, as found in operation parameters
// decoded from JSON or YAML, into an int. Fractional numbers, non-numeric
// strings and other types are rejected with ErrInvalidParameter. Range checks
// are left to the variant constructors.
func ParseShift(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("%w: shift is required", ErrInvalidParameter)
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return intFrom64(n)
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return intFrom64(int64(n))
	case uint64:
		if n > math.MaxInt32 {
			return 0, fmt.Errorf("%w: shift %d out of range", ErrInvalidParameter, n)
		}
		return int(n), nil
	case float32:
		return intFromFloat(float64(n))
	case float64:
		return intFromFloat(n)
	case json.Number:
		return parseShiftString(n.String())
	case string:
		return parseShiftString(n)
	default:
		return 0, fmt.Errorf("%w: shift must be an integer, got %T", ErrInvalidParameter, v)
	}
}

func intFrom64(n int64) (int, error) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("%w: shift %d out of range", ErrInvalidParameter, n)
	}
	return int(n), nil
}

func intFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: shift must be an integer, got %v", ErrInvalidParameter, f)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: shift %v out of range", ErrInvalidParameter, f)
	}
	return int(f), nil
}

func parseShiftString(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: shift must be an integer, got %q", ErrInvalidParameter, s)
	}
	return int(n), nil
}
