package domain

import (
	"crypto/sha1"
	"encoding/hex"
)

// PriceModifier is one discount or surcharge. Exactly one of Percentage or
// Amount is set; percentage modifiers apply to the running total at the point
// they are encountered, amount modifiers add or subtract a literal value.
type PriceModifier struct {
	Label      string   `json:"label,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
}

// PricingRule prices one occupancy variant. FinalPrice is always derived from
// BasePrice, Discounts and Surcharges by CalculateFinalPrice; any mutation of
// those fields must recompute it before the rule is considered consistent.
type PricingRule struct {
	ID            string           `json:"id"`
	IsActive      bool             `json:"isActive"`
	BedAssignment OccupancyVariant `json:"bedAssignment"`
	BasePrice     float64          `json:"basePrice"`
	Discounts     []PriceModifier  `json:"discounts"`
	Surcharges    []PriceModifier  `json:"surcharges"`
	FinalPrice    float64          `json:"finalPrice"`
	Notes         string           `json:"notes,omitempty"`
}

// VariantKey is the rule's identity within its room type.
func (r PricingRule) VariantKey() string { return r.BedAssignment.Key() }

// RuleID derives a stable identifier from the variant's slot-aware key, so
// regenerating for an unchanged occupancy shape yields the same id.
func RuleID(v OccupancyVariant) string {
	sum := sha1.Sum([]byte(v.Key()))
	return "pr-" + hex.EncodeToString(sum[:6])
}
