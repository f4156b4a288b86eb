package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "github.com/Nenad034/OlympicHub-sub000/internal/adapters/redis"
	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGetDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	pl := domain.PriceList{
		ID:         "pl-1",
		Name:       "Summer",
		PropertyID: "prop-1",
		ValidFrom:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := c.Set(ctx, "pricelist:pl-1", pl, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.PriceList
	ok, err := c.Get(ctx, "pricelist:pl-1", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.ID != pl.ID || got.Name != pl.Name || !got.ValidFrom.Equal(pl.ValidFrom) {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if err := c.Del(ctx, "pricelist:pl-1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "pricelist:pl-1", &got)
	if err != nil {
		t.Fatalf("get after del: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after del")
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := newTestCache(t)
	var dst domain.PriceList
	ok, err := c.Get(context.Background(), "pricelist:none", &dst)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}
