package fieldtype

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Dump converts an in-memory value to its storage-native form.
//
// Dump is the last gate before writing to storage: it validates shape and
// performs NO coercion, so application bugs surface instead of being
// silently papered over. The only conversions are the three date/time
// primitives, whose calendar representations are rendered into the
// store-native text forms. Custom types delegate entirely.
func Dump(t Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch tt := t.(type) {
	case Custom:
		return tt.CustomType.Dump(value)
	case Kind:
		switch tt {
		case KindDate:
			d, ok := value.(Date)
			if !ok {
				return nil, newErr(OpDump, t, value)
			}
			return dumpDate(d), nil
		case KindTime:
			tod, ok := value.(TimeOfDay)
			if !ok {
				return nil, newErr(OpDump, t, value)
			}
			return dumpTime(tod), nil
		case KindDateTime:
			dt, ok := value.(time.Time)
			if !ok {
				return nil, newErr(OpDump, t, value)
			}
			return dumpDateTime(dt), nil
		default:
			if OfType(tt, value) {
				return value, nil
			}
			return nil, newErr(OpDump, t, value)
		}
	case Array:
		if OfType(tt, value) {
			return value, nil
		}
		return nil, newErr(OpDump, t, value)
	default:
		return nil, newErr(OpDump, t, value)
	}
}

// Load converts a storage-native value back to the in-memory form.
//
// Mirror of Dump with the date/time conversions reversed. Values coming
// from the store are assumed well-typed, so a shape mismatch or a
// malformed date/time text indicates corruption or schema drift and
// fails loudly.
func Load(t Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch tt := t.(type) {
	case Custom:
		return tt.CustomType.Load(value)
	case Kind:
		switch tt {
		case KindDate:
			d, err := loadDate(value)
			if err != nil {
				return nil, newErr(OpLoad, t, value)
			}
			return d, nil
		case KindTime:
			tod, err := loadTime(value)
			if err != nil {
				return nil, newErr(OpLoad, t, value)
			}
			return tod, nil
		case KindDateTime:
			dt, err := loadDateTime(value)
			if err != nil {
				return nil, newErr(OpLoad, t, value)
			}
			return dt, nil
		default:
			if OfType(tt, value) {
				return value, nil
			}
			return nil, newErr(OpLoad, t, value)
		}
	case Array:
		if OfType(tt, value) {
			return value, nil
		}
		return nil, newErr(OpLoad, t, value)
	default:
		return nil, newErr(OpLoad, t, value)
	}
}

// Cast coerces an arbitrary external value into the target type.
//
// Cast is the permissive boundary where untrusted input (HTTP params, CLI
// args) becomes typed data. Shape-correct values pass through unchanged.
// Textual coercion is strict and non-lossy: the entire string must be
// consumed, and array casts are all-or-nothing.
func Cast(t Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if c, ok := t.(Custom); ok {
		return c.CustomType.Cast(value)
	}
	if OfType(t, value) {
		return value, nil
	}
	switch tt := t.(type) {
	case Kind:
		return castKind(tt, value)
	case Array:
		return castArray(tt, value)
	default:
		return nil, newErr(OpCast, t, value)
	}
}

func castKind(k Kind, value any) (any, error) {
	s, ok := textual(value)
	if !ok {
		return nil, newErr(OpCast, k, value)
	}
	switch k {
	case KindInteger:
		// ParseInt consumes the entire string; "1.0" and "12x" fail.
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, newErr(OpCast, k, value)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, newErr(OpCast, k, value)
		}
		return f, nil
	case KindBoolean:
		switch s {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, newErr(OpCast, k, value)
	case KindDecimal:
		d, _, err := apd.NewFromString(s)
		if err != nil {
			return nil, newErr(OpCast, k, value)
		}
		return d, nil
	default:
		// No coercion rule defined for this primitive/shape combination.
		return nil, newErr(OpCast, k, value)
	}
}

// castArray casts every element; if any element fails the whole cast
// fails, short-circuiting on the first failure. No partial arrays.
func castArray(a Array, value any) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return nil, newErr(OpCast, a, value)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := Cast(a.Elem, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = elem
	}
	return out, nil
}

// OfType is the pure shape predicate: it reports whether a value already
// has the runtime shape of the primitive, with no coercion. KindString,
// KindBinary and KindUUID all accept the same underlying byte-sequence
// shape; they are representationally identical and distinguished only by
// semantic intent. Decimal and the date/time primitives accept only their
// wrapped representations - textual forms require Cast, not shape checks.
func OfType(t Type, value any) bool {
	switch tt := t.(type) {
	case Kind:
		return ofKind(tt, value)
	case Array:
		if value == nil {
			return false
		}
		// []byte is the binary shape, never an array value.
		if _, isBytes := value.([]byte); isBytes {
			return false
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !OfType(tt.Elem, rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case Custom:
		return OfType(tt.Underlying(), value)
	default:
		return false
	}
}

func ofKind(k Kind, value any) bool {
	switch k {
	case KindAny:
		return true
	case KindInteger:
		switch value.(type) {
		case int, int8, int16, int32, int64:
			return true
		}
		return false
	case KindFloat:
		switch value.(type) {
		case float32, float64:
			return true
		}
		return false
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindString, KindBinary, KindUUID:
		switch value.(type) {
		case string, []byte:
			return true
		}
		return false
	case KindDecimal:
		_, ok := value.(*apd.Decimal)
		return ok
	case KindDateTime:
		_, ok := value.(time.Time)
		return ok
	case KindDate:
		_, ok := value.(Date)
		return ok
	case KindTime:
		_, ok := value.(TimeOfDay)
		return ok
	default:
		return false
	}
}

// Blank reports whether a value is semantically empty: nil, the empty
// string, a string of leading spaces and nothing else, or an empty
// sequence. Used by validation to decide whether a required field was
// effectively left empty.
//
// Only the space character counts as padding - not tabs or newlines.
func Blank(t Type, value any) bool {
	if value == nil {
		return true
	}
	if c, ok := t.(Custom); ok {
		return c.CustomType.Blank(value)
	}
	switch v := value.(type) {
	case string:
		return strings.TrimLeft(v, " ") == ""
	case []byte:
		return len(bytes.TrimLeft(v, " ")) == 0
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		return rv.Len() == 0
	}
	return false
}
