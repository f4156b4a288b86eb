package domain

// GeneratePricingRules enumerates the room type's valid occupancy variants
// and wraps each in a PricingRule. The result is a full replacement for the
// room type's prior rule set, with a carry-forward merge: a prior rule whose
// canonical variant still exists keeps its base price, modifiers and notes,
// so operator edits survive room-configuration changes. New variants start at
// basePrice 0, active, with no modifiers.
func GeneratePricingRules(rt RoomType, cats []PersonCategory, includePermutations bool, prior []PricingRule) ([]PricingRule, error) {
	variants, err := EnumerateVariants(rt, cats, includePermutations)
	if err != nil {
		return nil, err
	}

	carried := make(map[string]PricingRule, len(prior))
	for _, p := range prior {
		carried[p.VariantKey()] = p
	}

	rules := make([]PricingRule, 0, len(variants))
	for _, v := range variants {
		r := PricingRule{
			ID:            RuleID(v),
			IsActive:      true,
			BedAssignment: v,
		}
		if old, ok := carried[v.Key()]; ok {
			r.IsActive = old.IsActive
			r.BasePrice = old.BasePrice
			r.Discounts = old.Discounts
			r.Surcharges = old.Surcharges
			r.Notes = old.Notes
		}
		r.Recalculate()
		rules = append(rules, r)
	}
	return rules, nil
}
