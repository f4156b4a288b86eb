package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Nenad034/OlympicHub-sub000/internal/app"
	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

func doubleRoom() domain.RoomType {
	return domain.RoomType{
		RoomTypeID:       "rt-double",
		RoomTypeName:     "Double",
		MinOccupancy:     1,
		MaxOccupancy:     3,
		MaxAdults:        2,
		MaxChildren:      1,
		BasicBeds:        1,
		BasicBedCapacity: 2,
		ExtraBeds:        1,
	}
}

func TestCreatePriceList(t *testing.T) {
	repo := newFakeRepo()
	svc := app.NewPriceListService(repo, &fakeCache{})

	pl, err := svc.CreatePriceList(context.Background(), "Winter", "prop-9",
		time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pl.ID == "" || pl.ValidationStatus != domain.StatusPending {
		t.Fatalf("unexpected list: %+v", pl)
	}
	if len(pl.PersonCategories) == 0 {
		t.Fatalf("expected default category snapshot")
	}
	if _, err := repo.GetPriceList(context.Background(), pl.ID); err != nil {
		t.Fatalf("not persisted: %v", err)
	}
}

func TestCreatePriceList_RejectsBadWindow(t *testing.T) {
	svc := app.NewPriceListService(newFakeRepo(), &fakeCache{})

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.CreatePriceList(context.Background(), "Broken", "prop-9", from, from); err == nil {
		t.Fatalf("validFrom == validTo must be rejected")
	}
}

func TestRegenerateRules_CarriesForwardEdits(t *testing.T) {
	repo := newFakeRepo(livePriceList())
	cache := &fakeCache{}
	svc := app.NewPriceListService(repo, cache)
	ctx := context.Background()

	block, err := svc.RegenerateRules(ctx, "pl-1", doubleRoom(), false)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if len(block.PricingRules) != 4 {
		t.Fatalf("expected 4 rules, got %d", len(block.PricingRules))
	}

	// Operator sets a price on one rule.
	target := block.PricingRules[0]
	if _, err := svc.UpdateRulePrice(ctx, "pl-1", "rt-double", target.ID, 75, nil, nil, "single use"); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Room grows an extra bed; the edit must survive.
	rt := doubleRoom()
	rt.ExtraBeds = 2
	rt.MaxOccupancy = 4
	regen, err := svc.RegenerateRules(ctx, "pl-1", rt, false)
	if err != nil {
		t.Fatalf("regenerate after growth: %v", err)
	}
	found := false
	for _, r := range regen.PricingRules {
		if r.ID == target.ID {
			found = true
			if r.BasePrice != 75 || r.Notes != "single use" {
				t.Fatalf("edit lost: %+v", r)
			}
		}
	}
	if !found {
		t.Fatalf("edited rule missing after regeneration")
	}

	// Full replace: the persisted list holds exactly one block for the room.
	live, _ := repo.GetPriceList(ctx, "pl-1")
	count := 0
	for _, rtp := range live.RoomTypePricing {
		if rtp.RoomTypeID == "rt-double" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one block, got %d", count)
	}
	if len(cache.dels) == 0 {
		t.Fatalf("expected cache invalidation on regenerate")
	}
}

func TestRegenerateRules_ConfigurationError(t *testing.T) {
	svc := app.NewPriceListService(newFakeRepo(livePriceList()), &fakeCache{})

	rt := doubleRoom()
	rt.MinOccupancy, rt.MaxOccupancy = 5, 2
	if _, err := svc.RegenerateRules(context.Background(), "pl-1", rt, false); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestUpdateRulePrice_RejectsNonFinite(t *testing.T) {
	svc := app.NewPriceListService(newFakeRepo(livePriceList()), &fakeCache{})
	if _, err := svc.UpdateRulePrice(context.Background(), "pl-1", "rt-double", "pr-x", -5, nil, nil, ""); err == nil {
		t.Fatalf("negative base price must be rejected")
	}
}
