package util

import (
	"fmt"
	"math/big"
	"strings"
)

// SolDecimals is the lamport scale of the native asset.
const SolDecimals = 9

// ToBaseUnits converts a human-readable decimal amount to base units,
// truncating fractional digits beyond the asset's precision (floor for
// non-negative amounts). e.g. "0.001" with 9 decimals -> 1000000.
func ToBaseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("amount cannot be negative: %s", amount)
	}
	if decimals < 0 {
		return nil, fmt.Errorf("decimals cannot be negative: %d", decimals)
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}

	// Pad or truncate the fractional part to the asset's precision.
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else {
		frac = frac[:decimals]
	}

	combined := strings.TrimLeft(whole+frac, "0")
	if combined == "" {
		combined = "0"
	}

	result, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	return result, nil
}

// ToBaseUnitsUint64 is ToBaseUnits constrained to the uint64 range used by
// on-chain amounts.
func ToBaseUnitsUint64(amount string, decimals int) (uint64, error) {
	v, err := ToBaseUnits(amount, decimals)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("amount %s exceeds uint64 range", amount)
	}
	return v.Uint64(), nil
}

// SolToLamports converts a human SOL amount to lamports.
func SolToLamports(amount string) (uint64, error) {
	return ToBaseUnitsUint64(amount, SolDecimals)
}

// FromBaseUnits converts base units to a human-readable amount,
// e.g. 1000000 with 9 decimals -> "0.001".
func FromBaseUnits(amount uint64, decimals int) string {
	if decimals <= 0 {
		return fmt.Sprintf("%d", amount)
	}

	str := fmt.Sprintf("%d", amount)
	if len(str) <= decimals {
		str = strings.Repeat("0", decimals-len(str)+1) + str
	}

	insertPos := len(str) - decimals
	whole := str[:insertPos]
	frac := strings.TrimRight(str[insertPos:], "0")

	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
