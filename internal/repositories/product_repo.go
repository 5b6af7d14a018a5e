package repositories

import (
	"context"

	"feira/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByOwner(ctx context.Context, userID string) ([]models.Product, error)
	// GetByCategories returns every product whose category is one of categories.
	GetByCategories(ctx context.Context, categories ...models.Category) ([]models.Product, error)
	// SearchByName returns every product whose name contains term, ignoring case.
	// An empty term matches all products.
	SearchByName(ctx context.Context, term string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
