package domain

import "fmt"

// CategoryCode is one of the closed set of guest age bands used by pricing.
type CategoryCode string

const (
	CodeAdult  CategoryCode = "ADL"
	CodeChild1 CategoryCode = "CHD1"
	CodeChild2 CategoryCode = "CHD2"
	CodeChild3 CategoryCode = "CHD3"
	CodeInfant CategoryCode = "INF"
)

// knownCodes is the closed enumeration; imports referencing anything else are rejected.
var knownCodes = map[CategoryCode]bool{
	CodeAdult:  true,
	CodeChild1: true,
	CodeChild2: true,
	CodeChild3: true,
	CodeInfant: true,
}

func KnownCategoryCode(c CategoryCode) bool { return knownCodes[c] }

// PersonCategory is one age band. AgeTo is exclusive, in years.
type PersonCategory struct {
	Code    CategoryCode `json:"code"`
	Label   string       `json:"label"`
	AgeFrom int          `json:"ageFrom"`
	AgeTo   int          `json:"ageTo"`
}

func (c PersonCategory) Validate() error {
	if !KnownCategoryCode(c.Code) {
		return fmt.Errorf("unknown person category code %q", c.Code)
	}
	if c.AgeFrom >= c.AgeTo {
		return fmt.Errorf("category %s: ageFrom %d must be below ageTo %d", c.Code, c.AgeFrom, c.AgeTo)
	}
	return nil
}

// CountsTowardOccupancy reports whether the category occupies a bed slot.
// Infants share a bed with an adult and are priced separately.
func (c PersonCategory) CountsTowardOccupancy() bool { return c.Code != CodeInfant }

// IsChild covers every band between adult and infant.
func (c PersonCategory) IsChild() bool { return c.Code != CodeAdult && c.Code != CodeInfant }

// DefaultCategories is the registry snapshot new price lists start from.
func DefaultCategories() []PersonCategory {
	return []PersonCategory{
		{Code: CodeAdult, Label: "Adult", AgeFrom: 18, AgeTo: 100},
		{Code: CodeChild1, Label: "Child 2-7", AgeFrom: 2, AgeTo: 7},
		{Code: CodeChild2, Label: "Child 7-12", AgeFrom: 7, AgeTo: 12},
		{Code: CodeChild3, Label: "Child 12-18", AgeFrom: 12, AgeTo: 18},
		{Code: CodeInfant, Label: "Infant", AgeFrom: 0, AgeTo: 2},
	}
}

// ValidateCategories checks every entry and rejects duplicate codes, so one
// price list can never carry two inconsistent definitions of the same band.
func ValidateCategories(cats []PersonCategory) error {
	seen := make(map[CategoryCode]bool, len(cats))
	for _, c := range cats {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Code] {
			return fmt.Errorf("duplicate person category code %q", c.Code)
		}
		seen[c.Code] = true
	}
	return nil
}

// CategoryIndex builds a lookup by code.
func CategoryIndex(cats []PersonCategory) map[CategoryCode]PersonCategory {
	idx := make(map[CategoryCode]PersonCategory, len(cats))
	for _, c := range cats {
		idx[c.Code] = c
	}
	return idx
}
