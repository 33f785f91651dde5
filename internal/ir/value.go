package ir

import (
	"fmt"
	"hash/fnv"
	"math/big"
)

// ValueKind is the closed tag set for literal values (spec.md §3.1).
type ValueKind int

const (
	ValString ValueKind = iota
	ValBool
	ValSignedInt
	ValUnsignedInt
	ValFloat
	ValSymbol
)

func (k ValueKind) String() string {
	switch k {
	case ValString:
		return "string"
	case ValBool:
		return "bool"
	case ValSignedInt:
		return "signed-int"
	case ValUnsignedInt:
		return "unsigned-int"
	case ValFloat:
		return "float"
	case ValSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Value is a tagged literal: one of {string, bool, signed integer
// (arbitrary width), unsigned integer (arbitrary width), float (32/64),
// symbol}. Each carries its bit-width where applicable. Equality is
// structural.
//
// Integer magnitude is carried in a *big.Int so that widths beyond 64
// bits can at least be represented in the literal carrier, per spec.md
// §4.1 ("arbitrary precision supported in the literal carrier, but the
// backend rejects widths >64").
type Value struct {
	Kind  ValueKind
	Str   string
	Bool  bool
	Int   *big.Int
	Width int // bit width for int/float kinds; 0 means unspecified
	Float float64
	Sym   *Symbol
}

func NewStringValue(s string) Value { return Value{Kind: ValString, Str: s} }
func NewBoolValue(b bool) Value     { return Value{Kind: ValBool, Bool: b} }
func NewSignedValue(v int64, width int) Value {
	return Value{Kind: ValSignedInt, Int: big.NewInt(v), Width: width}
}
func NewUnsignedValue(v uint64, width int) Value {
	return Value{Kind: ValUnsignedInt, Int: new(big.Int).SetUint64(v), Width: width}
}
func NewBigSignedValue(v *big.Int, width int) Value {
	return Value{Kind: ValSignedInt, Int: v, Width: width}
}
func NewBigUnsignedValue(v *big.Int, width int) Value {
	return Value{Kind: ValUnsignedInt, Int: v, Width: width}
}
func NewFloatValue(v float64, width int) Value {
	return Value{Kind: ValFloat, Float: v, Width: width}
}
func NewSymbolValue(s *Symbol) Value { return Value{Kind: ValSymbol, Sym: s} }

// Equal reports structural equality between two Values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValString:
		return v.Str == other.Str
	case ValBool:
		return v.Bool == other.Bool
	case ValSignedInt, ValUnsignedInt:
		if v.Width != other.Width {
			return false
		}
		if v.Int == nil || other.Int == nil {
			return v.Int == other.Int
		}
		return v.Int.Cmp(other.Int) == 0
	case ValFloat:
		return v.Width == other.Width && v.Float == other.Float
	case ValSymbol:
		return v.Sym == other.Sym
	default:
		return false
	}
}

// Hash computes a variant-aware hash, grounded on the teacher's
// hash/fnv-based Object.Hash() pattern (internal/evaluator/object.go).
func (v Value) Hash() uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:", v.Kind)
	switch v.Kind {
	case ValString:
		h.Write([]byte(v.Str))
	case ValBool:
		if v.Bool {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case ValSignedInt, ValUnsignedInt:
		fmt.Fprintf(h, "%d:%s", v.Width, v.Int.String())
	case ValFloat:
		fmt.Fprintf(h, "%d:%v", v.Width, v.Float)
	case ValSymbol:
		h.Write([]byte(v.Sym.Name))
	}
	return h.Sum32()
}

func (v Value) String() string {
	switch v.Kind {
	case ValString:
		return fmt.Sprintf("%q", v.Str)
	case ValBool:
		return fmt.Sprintf("%v", v.Bool)
	case ValSignedInt:
		return fmt.Sprintf("%si%d", v.Int.String(), v.Width)
	case ValUnsignedInt:
		return fmt.Sprintf("%su%d", v.Int.String(), v.Width)
	case ValFloat:
		return fmt.Sprintf("%vf%d", v.Float, v.Width)
	case ValSymbol:
		return v.Sym.Name
	default:
		return "<invalid value>"
	}
}
