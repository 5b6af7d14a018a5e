package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"feira/internal/apperror"
	"feira/internal/models"

	"github.com/google/uuid"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetByOwner returns the products of userID, oldest first.
func (r *InMemoryProductRepository) GetByOwner(_ context.Context, userID string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.UserID == userID }), nil
}

// GetByCategories returns the products of any of the given categories, oldest first.
func (r *InMemoryProductRepository) GetByCategories(_ context.Context, categories ...models.Category) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		for _, c := range categories {
			if p.Category == c {
				return true
			}
		}
		return false
	}), nil
}

// SearchByName returns the products whose name contains term, ignoring case.
func (r *InMemoryProductRepository) SearchByName(_ context.Context, term string) ([]models.Product, error) {
	term = strings.ToLower(term)
	return r.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term)
	}), nil
}

func (r *InMemoryProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0)
	for _, p := range r.products {
		if keep(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].CreatedAt.Before(productList[j].CreatedAt)
	})
	return productList
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperror.NotFound("product", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *InMemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *InMemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return apperror.NotFound("product", product.ID)
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperror.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}
