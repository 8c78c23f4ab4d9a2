package types

import "fmt"

// Solidity-level type model used by the lowering engine.
// Types arrive attached to expression nodes by the upstream checker;
// this package only represents them, it never infers them.

// The unexported marker keeps the interface nominal: operands elsewhere
// satisfy String() too, and a type in value position must be
// distinguishable from them by assertion.
type Type interface {
	String() string
	isType()
}

// Elementary is a built-in value type like uint256, int8, bool or address.
// The name is kept exactly as the front end produced it: "uint" and "int"
// (without a width) are valid and distinct from "uint256"/"int256", because
// the constant-folding type guess depends on the short spellings.
type Elementary struct {
	Name string
}

func Elem(name string) *Elementary {
	return &Elementary{Name: name}
}

func (t *Elementary) String() string { return t.Name }

func (t *Elementary) isType() {}

// Signed reports whether the type is a signed integer type.
func (t *Elementary) Signed() bool {
	return len(t.Name) >= 3 && t.Name[:3] == "int"
}

// Bits returns the width of an integer type. Widthless "uint"/"int"
// default to 256. Non-integer types report 0.
func (t *Elementary) Bits() int {
	var digits string
	switch {
	case len(t.Name) >= 4 && t.Name[:4] == "uint":
		digits = t.Name[4:]
	case len(t.Name) >= 3 && t.Name[:3] == "int":
		digits = t.Name[3:]
	default:
		return 0
	}
	if digits == "" {
		return 256
	}
	bits := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0
		}
		bits = bits*10 + int(c-'0')
	}
	return bits
}

// IsAddress reports whether the type is the address type (payable or not).
func (t *Elementary) IsAddress() bool {
	return t.Name == "address" || t.Name == "address payable"
}

// Array is a fixed or dynamic array type. A derived array type with a
// constant length is produced during lowering for abi.decode-style type
// arguments; Length is the literal text of the length, empty for dynamic.
type Array struct {
	Elem   Type
	Length string
}

func (t *Array) String() string {
	return fmt.Sprintf("%s[%s]", t.Elem, t.Length)
}

func (t *Array) isType() {}

// Alias is a user-defined value type ("type MyInt is int256"). Wrap and
// unwrap selectors on an alias lower to conversions between the alias and
// its underlying type.
type Alias struct {
	Name       string
	Underlying Type
}

func (t *Alias) String() string { return t.Name }

func (t *Alias) isType() {}

// IsAddressType reports whether t is an address-typed elementary type.
func IsAddressType(t Type) bool {
	e, ok := t.(*Elementary)
	return ok && e.IsAddress()
}
