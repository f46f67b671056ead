package services

import (
	"context"
	"fmt"

	"engmarket/internal/catalog"
	"engmarket/internal/media"
	"engmarket/internal/models"
	"engmarket/internal/repositories"
)

// ListingService runs the marketplace listing routine for one session.
type ListingService struct {
	Catalog   *catalog.Catalog
	Favorites repositories.FavoritesRepository
	Media     media.Resolver
	MaxLimit  int
}

// List filters and sorts the catalog. A zero Limit returns every match on
// a single page; otherwise the page is 1-based and the limit is capped at
// MaxLimit.
func (s *ListingService) List(ctx context.Context, sessionID string, q models.ListingQuery) (models.ListingResult, error) {
	q = catalog.NormalizeQuery(q)
	matched := catalog.List(s.Catalog.Services(), q)

	minPrice, maxPrice := s.Catalog.PriceBounds()
	result := models.ListingResult{
		Total:    len(matched),
		Page:     1,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     q.Sort,

		Locations: s.Catalog.Locations(),
	}

	page := matched
	if q.Limit > 0 {
		limit := q.Limit
		if s.MaxLimit > 0 && limit > s.MaxLimit {
			limit = s.MaxLimit
		}
		if q.Page > 1 {
			result.Page = q.Page
		}
		// Compare before multiplying so huge pages cannot overflow.
		start := len(matched)
		if result.Page-1 <= len(matched)/limit {
			start = min((result.Page-1)*limit, len(matched))
		}
		end := start + min(limit, len(matched)-start)
		page = matched[start:end]
		result.Limit = limit
		result.HasNext = end < len(matched)
	}

	if err := markLiked(ctx, s.Favorites, sessionID, page); err != nil {
		return models.ListingResult{}, err
	}
	for i := range page {
		if err := media.ResolveService(s.Media, &page[i]); err != nil {
			return models.ListingResult{}, err
		}
	}
	result.Services = page
	return result, nil
}

func markLiked(ctx context.Context, favs repositories.FavoritesRepository, sessionID string, services []models.Service) error {
	if favs == nil || sessionID == "" || len(services) == 0 {
		return nil
	}
	ids, err := favs.List(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	liked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	for i := range services {
		_, services[i].Liked = liked[services[i].ID]
	}
	return nil
}
