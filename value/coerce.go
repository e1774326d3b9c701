// Package value converts the loosely typed column values native drivers hand
// back (int64, float64, []byte, string, bool, time.Time, nil and friends)
// into the fixed set of types the dbc cursor primitives expose.
package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// IsNull reports whether a native column value represents SQL NULL: nil, or
// a nil pointer or interface.
func IsNull(v interface{}) bool {
	if v == nil {
		return true
	}
	return isNil(reflect.ValueOf(v))
}

// ToString converts a native column value into a string.
//
//	[]byte     => string(bytes)
//	time.Time  => RFC3339Nano
//	numbers    => strconv formatting
//	nil        => ""
func ToString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case []byte:
		return string(val), true
	case time.Time:
		return val.Format(time.RFC3339Nano), true
	case bool:
		return strconv.FormatBool(val), true
	case fmt.Stringer:
		return val.String(), true
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return "", true
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes()), true
		}
	}
	return fmt.Sprint(rv.Interface()), true
}

// ToInt64 converts a native column value into an int64.  Floats and
// decimal strings are truncated, ie rounded toward zero.
func ToInt64(v interface{}) (int64, bool) {
	return convertToInt64(0, v)
}

func convertToInt64(depth int, v interface{}) (int64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, true
	case []byte:
		return convertToInt64(depth, string(val))
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case time.Time:
		return val.Unix(), true
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0, true
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case reflect.Float32, reflect.Float64:
		return floatToInt64(rv.Float())
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		var i int64
		var err error
		if strings.HasPrefix(s, "0x") {
			i, err = strconv.ParseInt(s[2:], 16, 64)
		} else if strings.ContainsAny(s, ".eE") {
			fv, err2 := strconv.ParseFloat(s, 64)
			if err2 == nil {
				return floatToInt64(fv)
			}
			err = err2
		} else {
			i, err = strconv.ParseInt(s, 10, 64)
		}
		if err == nil {
			return i, true
		}
		if depth == 0 {
			return convertToInt64(1, numStrReplacer.Replace(s))
		}
	}
	return 0, false
}

// floatToInt64 truncates f, failing when the result does not fit an int64.
func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ToFloat64 converts a native column value into a float64.
func ToFloat64(v interface{}) (float64, bool) {
	return convertToFloat64(0, v)
}

func convertToFloat64(depth int, v interface{}) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, true
	case []byte:
		return convertToFloat64(depth, string(val))
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0, true
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err == nil {
			return f, true
		}
		if depth == 0 {
			return convertToFloat64(1, numStrReplacer.Replace(rv.String()))
		}
	}
	return math.NaN(), false
}

// ToBool converts a native column value into a bool.  Numbers are only
// convertible when 0 or 1; strings accept strconv.ParseBool forms plus
// "0"/"1".
func ToBool(v interface{}) (bool, bool) {
	switch val := v.(type) {
	case nil:
		return false, true
	case []byte:
		return ToBool(string(val))
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false, true
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		iv, _ := ToInt64(rv.Interface())
		switch iv {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		if bv, err := strconv.ParseBool(s); err == nil {
			return bv, true
		}
		iv, ok := ToInt64(s)
		if ok && iv == 1 {
			return true, true
		} else if ok && iv == 0 {
			return false, true
		}
	}
	return false, false
}

var numStrReplacer = strings.NewReplacer("$", "", ",", "", "£", "", "€", "", " ", "")

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		// An empty, non-nil []byte is an empty string, not NULL.
		return v.IsNil()
	}
	return false
}
