// Package types provides the money and weight types shared by the ledger.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

func init() {
	// amounts are JSON numbers in storage and on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

// CentPlaces is the number of fractional digits every stored amount is rounded to.
const CentPlaces = 2

// KgPerQuintal converts bag weight to the unit prices are quoted in.
var KgPerQuintal = decimal.NewFromInt(100)

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundCents rounds half away from zero to two decimal places.
func RoundCents(m Money) Money {
	return m.Round(CentPlaces)
}

// Sum adds amounts and rounds the result to cents.
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return RoundCents(total)
}

// FormatINR renders an amount for display: rupee sign, Indian digit grouping
// (last three digits, then pairs) and at most two fractional digits.
func FormatINR(m Money) string {
	m = RoundCents(m)
	neg := m.IsNegative()
	s := m.Abs().StringFixed(CentPlaces)

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(intPart))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
