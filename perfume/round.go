package perfume

import (
	"math"
	"math/big"
	"strconv"
)

// toFixed2 formats x with two decimals, rounding exact ties away from zero
// like ECMAScript's Number.prototype.toFixed. strconv alone rounds exact
// ties to even (0.125 -> "0.12").
func toFixed2(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return s
	}

	scaled := new(big.Float).SetPrec(256).SetFloat64(math.Abs(x))
	scaled.Mul(scaled, big.NewFloat(100))
	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetPrec(256).SetInt(whole))
	if frac.Cmp(big.NewFloat(0.5)) != 0 {
		return s
	}

	whole.Add(whole, big.NewInt(1))
	digits := whole.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	s = digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if x < 0 {
		s = "-" + s
	}
	return s
}

// round2 rounds x to two decimals with toFixed2 semantics.
func round2(x float64) float64 {
	v, err := strconv.ParseFloat(toFixed2(x), 64)
	if err != nil {
		return x
	}
	return v
}
