package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

func priceListKey(id string) string { return fmt.Sprintf("pricelist:%s", id) }

type QueryService struct {
	repo     domain.PriceListRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.PriceListRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetPriceList(ctx context.Context, id string) (domain.PriceList, error) {
	key := priceListKey(id)
	var pl domain.PriceList
	if ok, _ := s.cache.Get(ctx, key, &pl); ok {
		return pl, nil
	}
	pl, err := s.repo.GetPriceList(ctx, id)
	if err != nil {
		return domain.PriceList{}, err
	}
	_ = s.cache.Set(ctx, key, pl, int(s.cacheTTL.Seconds()))
	return pl, nil
}

func (s *QueryService) ListPriceLists(ctx context.Context, propertyID string) ([]domain.PriceList, error) {
	// Listing is uncached: it is an operator screen, and invalidating every
	// property key on each write is not worth it.
	return s.repo.ListPriceLists(ctx, propertyID)
}
