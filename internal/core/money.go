package core

// Amounts are whole numbers in the smallest currency unit. Form input is
// filtered to digits once, when a record is created or edited, and is never
// re-parsed afterwards.

import (
	"math"
	"strings"
)

// ParseAmount converts raw amount input to an integer.
//
// A leading minus sign is rejected as a negative amount. Every other non-digit
// rune is dropped, so thousands separators and stray characters are tolerated.
// Input with no digits, or that overflows int64, is rejected.
//
// Examples:
//   ParseAmount("12a3")   -> 123, nil
//   ParseAmount("90.000") -> 90000, nil
//   ParseAmount("-5")     -> 0, ErrNegativeAmount
//   ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return 0, &ValidationError{Field: "amount", Err: ErrNegativeAmount}
	}
	digits := StripNonDigits(s)
	if digits == "" {
		return 0, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	var v int64
	for _, r := range digits {
		d := int64(r - '0')
		if v > (math.MaxInt64-d)/10 {
			return 0, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
		}
		v = v*10 + d
	}
	return v, nil
}

// StripNonDigits keeps only ASCII digits.
func StripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
