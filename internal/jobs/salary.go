package jobs

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Display scale thresholds shared by every currency.
const (
	kThreshold = 10_000
	mThreshold = 1_000_000
)

// annualMultiplier converts a salary unit to its yearly equivalent.
var annualMultiplier = map[SalaryUnit]float64{
	UnitHour:    2080, // 40 hours/week * 52 weeks
	UnitDay:     260,  // 52 weeks * 5 days
	UnitWeek:    52,
	UnitMonth:   12,
	UnitYear:    1,
	UnitProject: 1, // one-time, treated as an annual equivalent
}

// FormatSalary renders a salary range for display, e.g. "$90k-120k/year"
// or "€1.2M-1.8M/year (EUR)" when showCurrencyCode is set. A nil or
// empty salary renders as "Not specified".
func FormatSalary(s *Salary, showCurrencyCode bool) string {
	if !s.IsSet() {
		return "Not specified"
	}

	symbol := CurrencySymbol(s.Currency)
	min, max := deref(s.Min), deref(s.Max)

	var rng string
	if min != 0 && max != 0 {
		// Both bounds share the scale the larger bound requires so a
		// range never mixes suffixes.
		var forceScale string
		switch {
		case math.Max(min, max) >= mThreshold:
			forceScale = "M"
		case math.Max(min, max) >= kThreshold:
			forceScale = "k"
		}

		if min == max {
			// Equal bounds render the exact figure, never a scaled one.
			rng = humanize.Commaf(min)
		} else {
			rng = formatScaled(min, forceScale) + "-" + formatScaled(max, forceScale)
		}
	} else {
		v := min
		if v == 0 {
			v = max
		}
		rng = formatScaled(v, "")
	}

	out := symbol + rng + "/" + string(s.Unit)
	if showCurrencyCode {
		out += " (" + string(s.Currency) + ")"
	}
	return out
}

// formatScaled renders one bound: ">= 1M" values as e.g. "1.8M",
// ">= 10k" values as "120k", and smaller values with thousands
// separators. forceScale overrides the per-value choice.
func formatScaled(v float64, forceScale string) string {
	if v == 0 {
		return ""
	}

	switch forceScale {
	case "M":
		return millions(v)
	case "k":
		return thousands(v)
	}

	if v >= mThreshold {
		return millions(v)
	}
	if v >= kThreshold {
		return thousands(v)
	}
	return humanize.Commaf(v)
}

func millions(v float64) string {
	s := fmt.Sprintf("%.1f", math.Round(v/mThreshold*10)/10)
	return strings.TrimSuffix(s, ".0") + "M"
}

func thousands(v float64) string {
	return fmt.Sprintf("%.0fk", math.Round(v/1000))
}

// FormatUSDApproximation renders a "≈ $..." hint for non-USD salaries
// using the fixed exchange-rate table. It returns the empty string for
// nil, empty, or already-USD salaries.
func FormatUSDApproximation(s *Salary) string {
	if !s.IsSet() || s.Currency == DefaultCurrency {
		return ""
	}

	rate := CurrencyRate(s.Currency)
	usd := &Salary{Currency: DefaultCurrency, Unit: s.Unit}
	if deref(s.Min) != 0 {
		usd.Min = Float(deref(s.Min) * rate)
	}
	if deref(s.Max) != 0 {
		usd.Max = Float(deref(s.Max) * rate)
	}

	return "≈ " + FormatSalary(usd, false)
}

// NormalizeAnnualSalary converts a salary to its annual-USD comparison
// value: the max bound (min when max is absent) times the fixed exchange
// rate times the unit's annual multiplier. Empty salaries return the -1
// sentinel meaning "unranked, sorts and filters last".
func NormalizeAnnualSalary(s *Salary) float64 {
	if !s.IsSet() {
		return -1
	}

	value := deref(s.Max)
	if value == 0 {
		value = deref(s.Min)
	}

	return value * CurrencyRate(s.Currency) * annualMultiplier[s.Unit]
}
