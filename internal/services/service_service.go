package services

import (
	"context"

	"engmarket/internal/catalog"
	"engmarket/internal/media"
	"engmarket/internal/models"
	"engmarket/internal/repositories"
)

const defaultRelatedCount = 3

type ServiceService struct {
	Catalog      *catalog.Catalog
	Favorites    repositories.FavoritesRepository
	Media        media.Resolver
	RelatedCount int
}

// GetServiceByID returns the service with its category and related
// services. Unknown ids yield models.ErrServiceNotFound.
func (s *ServiceService) GetServiceByID(ctx context.Context, sessionID, id string) (models.ServiceDetails, error) {
	service, err := s.Catalog.ServiceByID(id)
	if err != nil {
		return models.ServiceDetails{}, err
	}

	details := models.ServiceDetails{Service: service}
	if cat, err := s.Catalog.CategoryByID(service.Category); err == nil {
		details.Category = &cat
	}

	n := s.RelatedCount
	if n <= 0 {
		n = defaultRelatedCount
	}
	details.Related = catalog.Related(s.Catalog.Services(), service, n)

	one := []models.Service{details.Service}
	if err := markLiked(ctx, s.Favorites, sessionID, one); err != nil {
		return models.ServiceDetails{}, err
	}
	details.Service = one[0]
	if err := markLiked(ctx, s.Favorites, sessionID, details.Related); err != nil {
		return models.ServiceDetails{}, err
	}

	if err := media.ResolveService(s.Media, &details.Service); err != nil {
		return models.ServiceDetails{}, err
	}
	for i := range details.Related {
		if err := media.ResolveService(s.Media, &details.Related[i]); err != nil {
			return models.ServiceDetails{}, err
		}
	}
	return details, nil
}

func (s *ServiceService) GetProviderByID(ctx context.Context, sessionID, id string) (models.ProviderDetails, error) {
	provider, err := s.Catalog.ProviderByID(id)
	if err != nil {
		return models.ProviderDetails{}, err
	}
	services := s.Catalog.ServicesByProvider(id)
	if services == nil {
		services = []models.Service{}
	}
	if err := markLiked(ctx, s.Favorites, sessionID, services); err != nil {
		return models.ProviderDetails{}, err
	}
	if err := media.ResolveProvider(s.Media, &provider); err != nil {
		return models.ProviderDetails{}, err
	}
	for i := range services {
		if err := media.ResolveService(s.Media, &services[i]); err != nil {
			return models.ProviderDetails{}, err
		}
	}
	return models.ProviderDetails{Provider: provider, Services: services}, nil
}
