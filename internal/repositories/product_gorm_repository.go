package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feira/internal/apperror"
	"feira/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetByOwner retrieves every product owned by userID, oldest first.
func (r *GORMProductRepository) GetByOwner(ctx context.Context, userID string) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products of user %s: %w", userID, err)
	}
	return products, nil
}

// GetByCategories retrieves the products of any of the given categories, oldest first.
func (r *GORMProductRepository) GetByCategories(ctx context.Context, categories ...models.Category) ([]models.Product, error) {
	products := []models.Product{}
	if len(categories) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("category IN ?", categories).Order("created_at").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}
	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchByName retrieves the products whose name contains term as a literal,
// case-insensitive substring.
func (r *GORMProductRepository) SearchByName(ctx context.Context, term string) ([]models.Product, error) {
	products := []models.Product{}
	pattern := "%" + strings.ToLower(likeEscaper.Replace(term)) + "%"
	if err := r.db.WithContext(ctx).Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).Order("created_at").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products by name: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes every column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Select("*").Omit("id", "created_at").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product", id)
	}
	return nil
}
