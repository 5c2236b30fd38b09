package binding

import (
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Bool interprets a bound value as a flag. nil is false.
func Bool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case *bool:
		return b != nil && *b, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(b))
	}
	f, err := Float(v)
	if err != nil {
		return false, pkgerrors.Errorf("cannot use %T as bool", v)
	}
	return f != 0, nil
}

// Float interprets a bound value as a number.
func Float(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, nil
	case *decimal.Decimal:
		if n == nil {
			return 0, pkgerrors.New("nil decimal")
		}
		f, _ := n.Float64()
		return f, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, pkgerrors.Errorf("cannot use %T as number", v)
}

// String interprets a bound value as text. nil is "".
func String(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case interface{ String() string }:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	}
	f, err := Float(v)
	if err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
