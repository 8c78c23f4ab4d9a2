package types

import "math/big"

// Min returns the smallest representable value of an integer type as a
// decimal string. The second result is false for non-integer types.
func (t *Elementary) Min() (string, bool) {
	bits := t.Bits()
	if bits == 0 {
		if t.Name == "bool" {
			return "false", true
		}
		return "", false
	}
	if !t.Signed() {
		return "0", true
	}
	// -(2^(bits-1))
	min := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	min.Neg(min)
	return min.String(), true
}

// Max returns the largest representable value of an integer type as a
// decimal string. The second result is false for non-integer types.
func (t *Elementary) Max() (string, bool) {
	bits := t.Bits()
	if bits == 0 {
		if t.Name == "bool" {
			return "true", true
		}
		return "", false
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	if t.Signed() {
		// 2^(bits-1) - 1
		max.Rsh(max, 1)
	}
	max.Sub(max, big.NewInt(1))
	return max.String(), true
}
