package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Frequency is the billing cadence of an income or expense.
type Frequency string

const (
	Weekly     Frequency = "weekly"
	Biweekly   Frequency = "biweekly"
	FourWeekly Frequency = "four_weekly"
	Monthly    Frequency = "monthly"
	Yearly     Frequency = "yearly"
)

// Frequencies lists every known cadence in display order.
var Frequencies = []Frequency{Weekly, Biweekly, FourWeekly, Monthly, Yearly}

// FrequencyLabels maps each cadence to its display label.
var FrequencyLabels = map[Frequency]string{
	Weekly:     "Per week",
	Biweekly:   "Per 2 weeks",
	FourWeekly: "Per 4 weeks",
	Monthly:    "Per month",
	Yearly:     "Per year",
}

// ErrInvalidFrequency is returned by ParseFrequency for unknown tags.
var ErrInvalidFrequency = errors.New("invalid frequency")

// ErrNegativeAmount is returned by ParseAmount for amounts below zero.
var ErrNegativeAmount = errors.New("amount must not be negative")

// Valid reports whether f is one of the known cadences.
func (f Frequency) Valid() bool {
	_, ok := FrequencyLabels[f]
	return ok
}

// ParseFrequency validates a frequency tag coming from an outer surface.
// The calculator itself never rejects unknown tags.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
	return f, nil
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FormatEuro renders an amount rounded to whole euros, e.g. "€15".
func FormatEuro(d decimal.Decimal) string {
	return "€" + d.Round(0).String()
}
