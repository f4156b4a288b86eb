package domain

import (
	"fmt"
	"time"
)

type ValidationStatus string

const (
	StatusPending  ValidationStatus = "pending"
	StatusApproved ValidationStatus = "approved"
	StatusRejected ValidationStatus = "rejected"
)

// RoomTypePricing holds every pricing rule for one room type. Rules are
// conceptually keyed by the occupancy variant they price; regeneration
// replaces the whole set so no rule can reference a stale bed configuration.
type RoomTypePricing struct {
	RoomTypeID            string             `json:"roomTypeId"`
	RoomTypeName          string             `json:"roomTypeName"`
	BaseOccupancyVariants []OccupancyVariant `json:"baseOccupancyVariants"`
	PricingRules          []PricingRule      `json:"pricingRules"`
}

// PriceList is the persisted pricing document for one property and validity
// window. It is the sole owner of its room type pricing; individual rules
// have no identity outside their parent block.
type PriceList struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	PropertyID       string            `json:"propertyId"`
	ValidFrom        time.Time         `json:"validFrom"`
	ValidTo          time.Time         `json:"validTo"`
	PersonCategories []PersonCategory  `json:"personCategories"`
	RoomTypePricing  []RoomTypePricing `json:"roomTypePricing"`
	ValidationStatus ValidationStatus  `json:"validationStatus"`
	ImportSource     string            `json:"importSource,omitempty"`
}

func (pl PriceList) Validate() error {
	if !pl.ValidFrom.Before(pl.ValidTo) {
		return fmt.Errorf("price list %s: validFrom must be before validTo", pl.ID)
	}
	if err := ValidateCategories(pl.PersonCategories); err != nil {
		return fmt.Errorf("price list %s: %w", pl.ID, err)
	}
	return nil
}

// RoomPricing returns the block for the given room type, if present.
func (pl *PriceList) RoomPricing(roomTypeID string) (*RoomTypePricing, bool) {
	for i := range pl.RoomTypePricing {
		if pl.RoomTypePricing[i].RoomTypeID == roomTypeID {
			return &pl.RoomTypePricing[i], true
		}
	}
	return nil, false
}

// ReplaceRoomPricing swaps in a freshly generated block for one room type.
// Full replace, never a merge: the prior block is dropped wholesale.
func (pl *PriceList) ReplaceRoomPricing(rtp RoomTypePricing) {
	for i := range pl.RoomTypePricing {
		if pl.RoomTypePricing[i].RoomTypeID == rtp.RoomTypeID {
			pl.RoomTypePricing[i] = rtp
			return
		}
	}
	pl.RoomTypePricing = append(pl.RoomTypePricing, rtp)
}

// ApplyImport merges an approved preview: categories and room pricing are
// replaced in full, atomically (the list is only mutated after the gate has
// passed, and both fields move together).
func (pl *PriceList) ApplyImport(p ImportPreview, source string) {
	pl.PersonCategories = p.PersonCategories
	pl.RoomTypePricing = p.RoomTypePricing
	pl.ValidationStatus = StatusApproved
	pl.ImportSource = source
}
