package services

import (
	"context"

	"engmarket/internal/catalog"
	"engmarket/internal/models"
)

type CategoryService struct {
	Catalog *catalog.Catalog
}

func (s *CategoryService) GetCategoryByID(_ context.Context, id string) (models.Category, error) {
	return s.Catalog.CategoryByID(id)
}

func (s *CategoryService) GetAllCategories(_ context.Context) ([]models.Category, error) {
	return s.Catalog.Categories(), nil
}
