package domain

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CalculateFinalPrice derives the final price of a rule. The order of
// operations is fixed: start from basePrice, apply discounts in array order,
// then surcharges in array order. Percentage modifiers act on the running
// total at the moment they are encountered, not on the original base, so
// reordering modifiers changes the result. A negative outcome clamps to zero;
// that is a logged, recoverable condition, not an error.
func CalculateFinalPrice(r PricingRule) float64 {
	total := decimal.NewFromFloat(r.BasePrice)
	for _, d := range r.Discounts {
		total = applyModifier(total, d, true)
	}
	for _, s := range r.Surcharges {
		total = applyModifier(total, s, false)
	}
	if total.IsNegative() {
		log.Warn().
			Str("rule_id", r.ID).
			Str("variant", r.BedAssignment.CanonicalKey()).
			Str("computed", total.String()).
			Msg("final price clamped to zero")
		return 0
	}
	f, _ := total.Float64()
	return f
}

func applyModifier(total decimal.Decimal, m PriceModifier, discount bool) decimal.Decimal {
	var delta decimal.Decimal
	switch {
	case m.Percentage != nil:
		pct := decimal.NewFromFloat(*m.Percentage).Div(decimal.NewFromInt(100))
		delta = total.Mul(pct)
	case m.Amount != nil:
		delta = decimal.NewFromFloat(*m.Amount)
	default:
		return total
	}
	if discount {
		return total.Sub(delta)
	}
	return total.Add(delta)
}

// Recalculate recomputes FinalPrice in place. Call it after any mutation to
// BasePrice, Discounts or Surcharges.
func (r *PricingRule) Recalculate() { r.FinalPrice = CalculateFinalPrice(*r) }

// FinitePrice reports whether v is usable as a price.
func FinitePrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
