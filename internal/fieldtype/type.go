package fieldtype

import "fmt"

// Kind enumerates the closed set of primitive type atoms.
type Kind string

const (
	KindAny      Kind = "any"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindBoolean  Kind = "boolean"
	KindString   Kind = "string"
	KindBinary   Kind = "binary"
	KindUUID     Kind = "uuid"
	KindDecimal  Kind = "decimal"
	KindDateTime Kind = "datetime"
	KindTime     Kind = "time"
	KindDate     Kind = "date"
)

// validKinds defines the closed primitive set.
var validKinds = map[Kind]bool{
	KindAny:      true,
	KindInteger:  true,
	KindFloat:    true,
	KindBoolean:  true,
	KindString:   true,
	KindBinary:   true,
	KindUUID:     true,
	KindDecimal:  true,
	KindDateTime: true,
	KindTime:     true,
	KindDate:     true,
}

// Type is the declared type of a schema field.
//
// This is a sealed interface - only Kind, Array and Custom implement it.
// The marker method pattern enables exhaustive type switches in the
// coercion functions. User-defined types plug in through the CustomType
// contract wrapped in Custom; they are dispatched dynamically and are
// never const-evaluable the way primitives are.
type Type interface {
	fieldType() // Marker method - seals interface to this package
}

func (Kind) fieldType() {}

func (k Kind) String() string { return string(k) }

// Array is the single composite type form: an array of an element type.
type Array struct {
	Elem Type
}

func (Array) fieldType() {}

func (a Array) String() string { return "[]" + TypeString(a.Elem) }

// CustomType is the contract for pluggable types outside the closed
// primitive set. Implementations own their coercion logic entirely,
// including their nil policy.
type CustomType interface {
	// Underlying returns the primitive type this type reduces to.
	// Used by the Matches relation.
	Underlying() Type

	// Cast coerces arbitrary external input into the type's value shape.
	Cast(value any) (any, error)

	// Dump converts a value to its storage-native form.
	Dump(value any) (any, error)

	// Load converts a storage-native value back to the in-memory form.
	Load(value any) (any, error)

	// Blank reports whether the value is semantically empty.
	Blank(value any) bool
}

// Custom adapts a CustomType implementation into a declared Type.
type Custom struct {
	CustomType
}

func (Custom) fieldType() {}

func (c Custom) String() string {
	return fmt.Sprintf("custom(%s)", TypeString(c.Underlying()))
}

// TypeString renders a declared type for diagnostics.
func TypeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", t)
}

// IsPrimitive reports whether t is one of the closed basic set, or an
// array wrapping one. Anything else is a custom type.
func IsPrimitive(t Type) bool {
	switch tt := t.(type) {
	case Kind:
		return validKinds[tt]
	case Array:
		return IsPrimitive(tt.Elem)
	default:
		return false
	}
}

// Matches is the directed compatibility relation between a declared type
// and a comparison primitive. KindAny absorbs everything in either
// position. Arrays match only when both sides are arrays with matching
// element types. Custom types reduce through Underlying before matching.
func Matches(t, comparison Type) bool {
	if t == Type(KindAny) || comparison == Type(KindAny) {
		return true
	}
	if IsPrimitive(t) {
		return matchPrimitive(t, comparison)
	}
	c, ok := t.(Custom)
	if !ok {
		return false
	}
	return Matches(c.Underlying(), comparison)
}

func matchPrimitive(t, comparison Type) bool {
	if t == Type(KindAny) || comparison == Type(KindAny) {
		return true
	}
	if lt, ok := t.(Array); ok {
		rt, ok := comparison.(Array)
		return ok && matchPrimitive(lt.Elem, rt.Elem)
	}
	return t == comparison
}
