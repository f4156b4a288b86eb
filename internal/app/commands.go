package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nenad034/OlympicHub-sub000/internal/adapters/observability"
	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

// PriceListService owns the write paths of the price list aggregate.
type PriceListService struct {
	repo  domain.PriceListRepository
	cache domain.Cache
}

func NewPriceListService(r domain.PriceListRepository, c domain.Cache) *PriceListService {
	return &PriceListService{repo: r, cache: c}
}

// CreatePriceList starts a new pending list with the default category
// registry snapshot and an empty pricing section.
func (s *PriceListService) CreatePriceList(ctx context.Context, name, propertyID string, validFrom, validTo time.Time) (domain.PriceList, error) {
	pl := domain.PriceList{
		ID:               uuid.NewString(),
		Name:             name,
		PropertyID:       propertyID,
		ValidFrom:        validFrom,
		ValidTo:          validTo,
		PersonCategories: domain.DefaultCategories(),
		ValidationStatus: domain.StatusPending,
	}
	if err := pl.Validate(); err != nil {
		return domain.PriceList{}, err
	}
	if err := s.repo.UpsertPriceList(ctx, pl); err != nil {
		return domain.PriceList{}, fmt.Errorf("persist price list: %w", err)
	}
	log.Info().Str("price_list", pl.ID).Str("property", propertyID).Msg("price list created")
	return pl, nil
}

// RegenerateRules enumerates the room type's occupancy variants and swaps in
// a fresh rule set for it. Prior rules for variants that still exist keep
// their operator-entered prices and modifiers; the old block is otherwise
// replaced in full so no rule can outlive its bed configuration.
func (s *PriceListService) RegenerateRules(ctx context.Context, listID string, rt domain.RoomType, includePermutations bool) (domain.RoomTypePricing, error) {
	pl, err := s.repo.GetPriceList(ctx, listID)
	if err != nil {
		return domain.RoomTypePricing{}, err
	}

	var prior []domain.PricingRule
	if block, ok := pl.RoomPricing(rt.RoomTypeID); ok {
		prior = block.PricingRules
	}

	rules, err := domain.GeneratePricingRules(rt, pl.PersonCategories, includePermutations, prior)
	if err != nil {
		return domain.RoomTypePricing{}, err
	}

	variants := make([]domain.OccupancyVariant, len(rules))
	for i, r := range rules {
		variants[i] = r.BedAssignment
	}
	block := domain.RoomTypePricing{
		RoomTypeID:            rt.RoomTypeID,
		RoomTypeName:          rt.RoomTypeName,
		BaseOccupancyVariants: variants,
		PricingRules:          rules,
	}
	pl.ReplaceRoomPricing(block)

	if err := s.repo.UpsertPriceList(ctx, pl); err != nil {
		return domain.RoomTypePricing{}, fmt.Errorf("persist regenerated rules: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, priceListKey(listID))
	}
	observability.ObserveRulesGenerated(rt.RoomTypeID, len(rules))
	log.Info().
		Str("price_list", listID).
		Str("room_type", rt.RoomTypeID).
		Int("rules", len(rules)).
		Bool("permutations", includePermutations).
		Msg("pricing rules regenerated")
	return block, nil
}

// UpdateRulePrice edits one rule's base price and modifiers, recomputing the
// final price before anything is persisted; the two are never allowed to
// drift.
func (s *PriceListService) UpdateRulePrice(ctx context.Context, listID, roomTypeID, ruleID string, basePrice float64, discounts, surcharges []domain.PriceModifier, notes string) (domain.PricingRule, error) {
	if !domain.FinitePrice(basePrice) {
		return domain.PricingRule{}, fmt.Errorf("base price %v is not a finite non-negative number", basePrice)
	}
	pl, err := s.repo.GetPriceList(ctx, listID)
	if err != nil {
		return domain.PricingRule{}, err
	}
	block, ok := pl.RoomPricing(roomTypeID)
	if !ok {
		return domain.PricingRule{}, domain.ErrNotFound
	}
	for i := range block.PricingRules {
		if block.PricingRules[i].ID != ruleID {
			continue
		}
		r := &block.PricingRules[i]
		r.BasePrice = basePrice
		r.Discounts = discounts
		r.Surcharges = surcharges
		r.Notes = notes
		r.Recalculate()
		if err := s.repo.UpsertPriceList(ctx, pl); err != nil {
			return domain.PricingRule{}, fmt.Errorf("persist rule edit: %w", err)
		}
		if s.cache != nil {
			_ = s.cache.Del(ctx, priceListKey(listID))
		}
		return *r, nil
	}
	return domain.PricingRule{}, domain.ErrNotFound
}
