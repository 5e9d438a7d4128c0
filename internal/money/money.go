// Package money holds the shared currency arithmetic used by the order and
// payment modules. All monetary figures in the system are euros kept as
// float64 and rounded to cents after every multiplication or sum, so the
// same Round2 must be applied everywhere a price is produced.
package money

import "math"

// Epsilon absorbs floating-point noise when comparing currency amounts.
const Epsilon = 1e-6

// Round2 rounds to two decimal places, half up.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Exceeds reports whether a is strictly greater than b beyond Epsilon.
func Exceeds(a, b float64) bool {
	return a > b+Epsilon
}

// Net returns payments minus refunds, rounded and floored at zero.
func Net(paymentsTotal, refundsTotal float64) float64 {
	net := Round2(paymentsTotal - refundsTotal)
	if net < 0 {
		return 0
	}
	return net
}
