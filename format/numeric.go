package format

import (
	"math"
	"strconv"
	"strings"
)

// Signed is the "i<N>" format: an Integer range-checked to signed N bits.
func Signed(n int) Format {
	name := "i" + strconv.Itoa(n)
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if n < 64 {
		lo, hi = -(int64(1) << (n - 1)), int64(1)<<(n-1)-1
	}
	return integerFormat(name, func(v int64) bool { return v >= lo && v <= hi }, strconv.FormatInt(lo, 10), strconv.FormatInt(hi, 10))
}

// Unsigned is the "u<N>" format: an Integer in 0 .. 2^N-1. Values above
// MaxInt64 cannot be represented, so u64 is capped there.
func Unsigned(n int) Format {
	name := "u" + strconv.Itoa(n)
	hi := int64(math.MaxInt64)
	if n < 63 {
		hi = int64(1)<<n - 1
	}
	return integerFormat(name, func(v int64) bool { return v >= 0 && v <= hi }, "0", strconv.FormatInt(hi, 10))
}

func integerFormat(name string, in func(int64) bool, lo, hi string) Format {
	validate := func(v any) error {
		i, ok := ToInt64(v)
		if !ok {
			return invalidf(name, "expected integer, got %T", v)
		}
		if !in(i) {
			return rangef(name, "%d outside %s..%s", i, lo, hi)
		}
		return nil
	}
	same := func(v any) (any, error) {
		if err := validate(v); err != nil {
			return nil, err
		}
		i, _ := ToInt64(v)
		return i, nil
	}
	return Format{Name: name, Base: Integer, Validate: validate, Encode: same, Decode: same}
}

type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// ToInt64 converts any Go integer, an integral float, or a JSON number
// literal to int64. Values that do not fit report false.
func ToInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return uintToInt64(uint64(t))
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return uintToInt64(t)
	case float32:
		return floatToInt64(float64(t))
	case float64:
		return floatToInt64(t)
	case number:
		if i, err := t.Int64(); err == nil {
			return i, true
		}
		// An integer literal that Int64 rejects is out of range.
		if !strings.ContainsAny(t.String(), ".eE") {
			return 0, false
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	}
	return 0, false
}

func uintToInt64(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

func floatToInt64(f float64) (int64, bool) {
	// 2^63 itself is not representable as int64.
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}
