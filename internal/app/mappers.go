package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Every supported export format funnels through the same loose-JSON shape;
// these registries absorb the naming drift between spreadsheet, PDF and
// structured exports.

var categoryAliases = map[string][]string{
	"list":    {"personCategories", "person_categories", "categories", "ageCategories", "age_categories"},
	"code":    {"code", "categoryCode", "category_code"},
	"label":   {"label", "name", "title"},
	"ageFrom": {"ageFrom", "age_from", "from", "minAge", "min_age"},
	"ageTo":   {"ageTo", "age_to", "to", "maxAge", "max_age"},
}

var roomAliases = map[string][]string{
	"list":  {"roomTypePricing", "room_type_pricing", "roomTypes", "room_types", "rooms"},
	"id":    {"roomTypeId", "room_type_id", "roomId", "room_id", "id"},
	"name":  {"roomTypeName", "room_type_name", "name", "title"},
	"rules": {"pricingRules", "pricing_rules", "rules", "prices"},
}

var ruleAliases = map[string][]string{
	"occupancy":  {"bedAssignment", "bed_assignment", "occupancy", "occupants", "variant"},
	"basePrice":  {"basePrice", "base_price", "price", "amount"},
	"discounts":  {"discounts", "discount"},
	"surcharges": {"surcharges", "surcharge", "supplements"},
	"notes":      {"notes", "note", "comment"},
	"active":     {"isActive", "is_active", "active"},
}

var modifierAliases = map[string][]string{
	"percentage": {"percentage", "percent", "pct"},
	"amount":     {"amount", "value", "fixed"},
	"label":      {"label", "name", "reason"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func firstAny(m map[string]any, aliases map[string][]string, key string) any {
	for _, p := range aliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

func firstStr(m map[string]any, aliases map[string][]string, key string) string {
	if v := firstAny(m, aliases, key); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstFloat: number from aliased paths (float64/int/string like "8,0").
// Non-finite values are treated as unreadable: ParseFloat accepts "NaN" and
// "Inf", and neither may reach the decimal price math.
func firstFloat(m map[string]any, aliases map[string][]string, key string) *float64 {
	var f float64
	switch v := firstAny(m, aliases, key).(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func firstInt(m map[string]any, aliases map[string][]string, key string) *int {
	if f := firstFloat(m, aliases, key); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

func asSliceOfMaps(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

/********** preview normalizer **********/

// NormalizePreview maps a format parser's loose output into the canonical
// ImportPreview. Structural problems are recorded in the preview's errors and
// warnings rather than dropped; business validation runs separately.
func NormalizePreview(doc map[string]any) domain.ImportPreview {
	var p domain.ImportPreview

	rawCats := firstAny(doc, categoryAliases, "list")
	if rawCats == nil {
		p.Errors = append(p.Errors, "document carries no person categories")
	}
	for i, cm := range asSliceOfMaps(rawCats) {
		c := domain.PersonCategory{
			Code:  domain.CategoryCode(strings.ToUpper(firstStr(cm, categoryAliases, "code"))),
			Label: firstStr(cm, categoryAliases, "label"),
		}
		if v := firstInt(cm, categoryAliases, "ageFrom"); v != nil {
			c.AgeFrom = *v
		}
		if v := firstInt(cm, categoryAliases, "ageTo"); v != nil {
			c.AgeTo = *v
		}
		if c.Code == "" {
			p.Errors = append(p.Errors, fmt.Sprintf("person category #%d has no code", i+1))
			continue
		}
		p.PersonCategories = append(p.PersonCategories, c)
	}

	for _, rm := range asSliceOfMaps(firstAny(doc, roomAliases, "list")) {
		rtp := domain.RoomTypePricing{
			RoomTypeID:   firstStr(rm, roomAliases, "id"),
			RoomTypeName: firstStr(rm, roomAliases, "name"),
		}
		if rtp.RoomTypeID == "" {
			p.Errors = append(p.Errors, "room type block without an id")
			continue
		}
		for i, rr := range asSliceOfMaps(firstAny(rm, roomAliases, "rules")) {
			rule, errs, warns := mapRule(rtp.RoomTypeID, i, rr)
			p.Errors = append(p.Errors, errs...)
			p.Warnings = append(p.Warnings, warns...)
			if rule != nil {
				rtp.PricingRules = append(rtp.PricingRules, *rule)
			}
		}
		for _, r := range rtp.PricingRules {
			rtp.BaseOccupancyVariants = append(rtp.BaseOccupancyVariants, r.BedAssignment)
		}
		p.RoomTypePricing = append(p.RoomTypePricing, rtp)
	}

	return p
}

func mapRule(roomTypeID string, idx int, rr map[string]any) (*domain.PricingRule, []string, []string) {
	var errs, warns []string

	occ := mapOccupancy(firstAny(rr, ruleAliases, "occupancy"))
	if len(occ) == 0 {
		errs = append(errs, fmt.Sprintf("room type %s: rule #%d has no recognizable bed assignment", roomTypeID, idx+1))
		return nil, errs, warns
	}

	r := domain.PricingRule{
		ID:            domain.RuleID(occ),
		IsActive:      true,
		BedAssignment: occ,
		Notes:         firstStr(rr, ruleAliases, "notes"),
	}
	if v := firstAny(rr, ruleAliases, "active"); v != nil {
		if b, ok := v.(bool); ok {
			r.IsActive = b
		}
	}
	if raw := firstAny(rr, ruleAliases, "basePrice"); raw == nil {
		warns = append(warns, fmt.Sprintf("room type %s: rule #%d has no base price; defaulted to 0", roomTypeID, idx+1))
	} else if f := firstFloat(rr, ruleAliases, "basePrice"); f != nil {
		r.BasePrice = *f
	} else {
		errs = append(errs, fmt.Sprintf("room type %s: rule #%d has an unreadable base price %v", roomTypeID, idx+1, raw))
		return nil, errs, warns
	}
	r.Discounts = mapModifiers(firstAny(rr, ruleAliases, "discounts"))
	r.Surcharges = mapModifiers(firstAny(rr, ruleAliases, "surcharges"))
	r.Recalculate()
	return &r, errs, warns
}

// mapOccupancy accepts the three shapes seen in the wild: a list of occupant
// objects, a list of category code strings, or a single "ADL+CHD1" string.
func mapOccupancy(v any) domain.OccupancyVariant {
	switch raw := v.(type) {
	case string:
		return packCodes(strings.FieldsFunc(raw, func(r rune) bool { return r == '+' || r == ',' || r == ' ' }))
	case []any:
		if len(raw) == 0 {
			return nil
		}
		if _, ok := raw[0].(string); ok {
			codes := make([]string, 0, len(raw))
			for _, e := range raw {
				if s, ok := e.(string); ok {
					codes = append(codes, s)
				}
			}
			return packCodes(codes)
		}
		var out domain.OccupancyVariant
		for i, e := range asSliceOfMaps(v) {
			o := domain.BedOccupant{
				BedType:        domain.BedType(firstStr(e, map[string][]string{"t": {"bedType", "bed_type", "type"}}, "t")),
				PersonCategory: domain.CategoryCode(strings.ToUpper(firstStr(e, map[string][]string{"c": {"personCategory", "person_category", "category", "code"}}, "c"))),
			}
			if o.BedType != domain.BedBasic && o.BedType != domain.BedExtra {
				o.BedType = domain.BedBasic
			}
			o.BedIndex = i
			if n := firstInt(e, map[string][]string{"i": {"bedIndex", "bed_index", "index"}}, "i"); n != nil {
				o.BedIndex = *n
			}
			if o.PersonCategory != "" {
				out = append(out, o)
			}
		}
		return out
	}
	return nil
}

// packCodes assigns bare category codes to basic slots in order.
func packCodes(codes []string) domain.OccupancyVariant {
	var out domain.OccupancyVariant
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		out = append(out, domain.BedOccupant{
			BedType:        domain.BedBasic,
			BedIndex:       len(out),
			PersonCategory: domain.CategoryCode(c),
		})
	}
	return out
}

func mapModifiers(v any) []domain.PriceModifier {
	var out []domain.PriceModifier
	for _, mm := range asSliceOfMaps(v) {
		m := domain.PriceModifier{
			Label:      firstStr(mm, modifierAliases, "label"),
			Percentage: firstFloat(mm, modifierAliases, "percentage"),
		}
		if m.Percentage == nil {
			m.Amount = firstFloat(mm, modifierAliases, "amount")
		}
		if m.Percentage == nil && m.Amount == nil {
			continue
		}
		out = append(out, m)
	}
	return out
}
