package services

import (
	"context"

	"engmarket/internal/catalog"
	"engmarket/internal/media"
	"engmarket/internal/models"
	"engmarket/internal/repositories"
)

type ServiceFavoriteService struct {
	Catalog             *catalog.Catalog
	ServiceFavoriteRepo repositories.FavoritesRepository
	Media               media.Resolver
}

// Toggle flips the favorite state of a known service.
func (s *ServiceFavoriteService) Toggle(ctx context.Context, sessionID, serviceID string) (models.ServiceFavorite, error) {
	if !s.Catalog.HasService(serviceID) {
		return models.ServiceFavorite{}, models.ErrServiceNotFound
	}
	liked, err := s.ServiceFavoriteRepo.Toggle(ctx, sessionID, serviceID)
	if err != nil {
		return models.ServiceFavorite{}, err
	}
	return models.ServiceFavorite{ServiceID: serviceID, Liked: liked}, nil
}

func (s *ServiceFavoriteService) IsFavorite(ctx context.Context, sessionID, serviceID string) (models.ServiceFavorite, error) {
	if !s.Catalog.HasService(serviceID) {
		return models.ServiceFavorite{}, models.ErrServiceNotFound
	}
	liked, err := s.ServiceFavoriteRepo.Contains(ctx, sessionID, serviceID)
	if err != nil {
		return models.ServiceFavorite{}, err
	}
	return models.ServiceFavorite{ServiceID: serviceID, Liked: liked}, nil
}

// GetFavorites resolves the session's favorites against the catalog, in
// the order they were added. Ids the catalog no longer knows are skipped.
func (s *ServiceFavoriteService) GetFavorites(ctx context.Context, sessionID string) (models.FavoritesResponse, error) {
	ids, err := s.ServiceFavoriteRepo.List(ctx, sessionID)
	if err != nil {
		return models.FavoritesResponse{}, err
	}

	resp := models.FavoritesResponse{ServiceIDs: []string{}, Services: []models.Service{}}
	for _, id := range ids {
		service, err := s.Catalog.ServiceByID(id)
		if err != nil {
			continue
		}
		service.Liked = true
		if err := media.ResolveService(s.Media, &service); err != nil {
			return models.FavoritesResponse{}, err
		}
		resp.ServiceIDs = append(resp.ServiceIDs, id)
		resp.Services = append(resp.Services, service)
	}
	return resp, nil
}

func (s *ServiceFavoriteService) Clear(ctx context.Context, sessionID string) error {
	return s.ServiceFavoriteRepo.Clear(ctx, sessionID)
}
