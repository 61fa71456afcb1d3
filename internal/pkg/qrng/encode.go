package qrng

import (
	"fmt"
	"math/big"
)

// EncodeDecimal reduces a bit string to a fixed-width decimal passcode.
//
// The bit string is read as a big-endian unsigned integer, reduced modulo
// 10^digits, and left-padded with zeros so the result is always exactly
// digits characters of '0'..'9'.
func EncodeDecimal(bits string, digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("%w: digit length must be positive", ErrInvalidParameter)
	}
	if len(bits) == 0 {
		return "", fmt.Errorf("%w: empty bit string", ErrInvalidParameter)
	}

	value, ok := new(big.Int).SetString(bits, 2)
	if !ok {
		return "", fmt.Errorf("%w: bit string must contain only 0 and 1", ErrInvalidParameter)
	}

	mod := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	value.Mod(value, mod)

	return fmt.Sprintf("%0*d", digits, value), nil
}
