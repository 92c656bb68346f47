package payment

import (
	"fmt"
	"math/big"
	"strings"
)

// maxAmountBits bounds amounts to the on-chain uint256 range.
const maxAmountBits = 256

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// HumanToRaw converts a human-readable decimal amount to raw on-chain units,
// e.g. "5.000001" with 6 decimals -> 5000001. Extra fractional digits are
// truncated, not rounded. Signs, exponents, grouping characters and input
// without any digit are rejected.
func HumanToRaw(human string, decimals uint8) (*big.Int, error) {
	d := int(decimals)

	integerPart := human
	decimalPart := ""
	if pos := strings.Index(human, "."); pos >= 0 {
		integerPart = human[:pos]
		decimalPart = human[pos+1:]
	}

	if !isASCIIDigits(integerPart) {
		return nil, fmt.Errorf("invalid integer part")
	}
	if !isASCIIDigits(decimalPart) {
		return nil, fmt.Errorf("invalid decimal part")
	}
	// Both parts may individually be empty ("5." or ".5"), but not both:
	// an amount needs at least one digit.
	if len(integerPart)+len(decimalPart) == 0 {
		return nil, fmt.Errorf("no digits in amount")
	}

	// Pad or truncate the fractional digits to the token's decimal count
	if len(decimalPart) < d {
		decimalPart += strings.Repeat("0", d-len(decimalPart))
	} else if len(decimalPart) > d {
		decimalPart = decimalPart[:d]
	}

	raw := integerPart + decimalPart

	// Strip leading zeros but keep at least one digit
	raw = strings.TrimLeft(raw, "0")
	if raw == "" {
		raw = "0"
	}

	result, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("failed to parse amount")
	}
	if result.BitLen() > maxAmountBits {
		return nil, fmt.Errorf("amount exceeds uint256 range")
	}

	return result, nil
}

// RawToHuman converts a raw integer amount string to human-readable decimal
// units, e.g. "5000001" with 6 decimals -> "5.000001". Trailing fractional
// zeros are dropped and the separator is omitted when the fraction is empty.
func RawToHuman(raw string, decimals uint8) string {
	d := int(decimals)

	if len(raw) <= d {
		raw = strings.Repeat("0", d-len(raw)+1) + raw
	}

	integerPart := raw[:len(raw)-d]
	decimalPart := strings.TrimRight(raw[len(raw)-d:], "0")

	if decimalPart == "" {
		return integerPart
	}
	return integerPart + "." + decimalPart
}

// GweiToWei converts a gas price entered in Gwei to wei, truncating any
// sub-wei remainder.
func GweiToWei(gwei float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(1e9)).Int(nil)
	return wei
}
