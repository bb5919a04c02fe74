package pure

import (
	"math"
	"strconv"
	"strings"
)

// IndexOf converts x into a recurrence index.
//
// Any Go integer kind is accepted as long as it is non-negative and fits in an int.
// Floats are accepted only when they hold an integral value, so 2.0 is index 2
// and 2.5 is rejected. Strings are parsed as base-10 integers.
func IndexOf(x any) (int, error) {
	switch v := x.(type) {
	case int:
		return checkIndex(int64(v), x)
	case int8:
		return checkIndex(int64(v), x)
	case int16:
		return checkIndex(int64(v), x)
	case int32:
		return checkIndex(int64(v), x)
	case int64:
		return checkIndex(v, x)
	case uint:
		return checkUnsigned(uint64(v), x)
	case uint8:
		return checkUnsigned(uint64(v), x)
	case uint16:
		return checkUnsigned(uint64(v), x)
	case uint32:
		return checkUnsigned(uint64(v), x)
	case uint64:
		return checkUnsigned(v, x)
	case float32:
		return checkFloat(float64(v), x)
	case float64:
		return checkFloat(v, x)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 0)
		if err != nil {
			return 0, invalidIndex(x)
		}
		return checkIndex(i, x)
	default:
		return 0, invalidIndex(x)
	}
}

func checkIndex(i int64, x any) (int, error) {
	if i < 0 || i > math.MaxInt {
		return 0, invalidIndex(x)
	}
	return int(i), nil
}

func checkUnsigned(u uint64, x any) (int, error) {
	if u > math.MaxInt {
		return 0, invalidIndex(x)
	}
	return int(u), nil
}

func checkFloat(f float64, x any) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalidIndex(x)
	}
	// float64(math.MaxInt) rounds up, so the bound is exclusive.
	if f < 0 || f >= math.MaxInt {
		return 0, invalidIndex(x)
	}
	return int(f), nil
}
