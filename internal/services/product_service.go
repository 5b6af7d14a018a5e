package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"feira/internal/apperror"
	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/storage"

	"github.com/shopspring/decimal"
)

var (
	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.RequireFromString("5000.00")
)

// ProductInput carries the product create/edit form. Price stays a string
// until validated so malformed numbers become field errors.
type ProductInput struct {
	Name     string                `form:"name" validate:"required,max=50"`
	Price    string                `form:"price" validate:"required"`
	Category string                `form:"category" validate:"required,category"`
	Image    *multipart.FileHeader `form:"-" validate:"-"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo    repositories.ProductRepository
	cleaner assetCleaner
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, assets storage.AssetStore, events EventPublisher) *ProductService {
	return &ProductService{
		repo:    repo,
		cleaner: assetCleaner{assets: assets, events: events},
	}
}

// ListProducts retrieves the products owned by the current user.
func (s *ProductService) ListProducts(ctx context.Context, current *models.User) ([]models.Product, error) {
	return s.repo.GetByOwner(ctx, current.ID)
}

// CreateProduct validates the form, stores the mandatory image and creates a
// product owned by the current user.
func (s *ProductService) CreateProduct(ctx context.Context, current *models.User, input ProductInput) (*models.Product, error) {
	price, err := validateProduct(&input, true)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:     input.Name,
		Price:    price,
		Category: models.Category(input.Category),
		UserID:   current.ID,
	}
	name, err := s.cleaner.assets.Store(ctx, storage.ProductImages, input.Image)
	if err != nil {
		return nil, err
	}
	product.Image = name

	if err := s.repo.Create(ctx, product); err != nil {
		s.cleaner.discard(ctx, storage.ProductImages, name, current.ID)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// ShowProduct retrieves any product by ID. Viewing is not restricted to the owner.
func (s *ProductService) ShowProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// EditProduct retrieves a product for editing by its owner.
func (s *ProductService) EditProduct(ctx context.Context, current *models.User, id string) (*models.Product, error) {
	return s.ownedProduct(ctx, current, id)
}

// UpdateProduct overwrites name, price and category. The image is optional
// when the product already has one; a new image replaces the old file.
func (s *ProductService) UpdateProduct(ctx context.Context, current *models.User, id string, input ProductInput) (*models.Product, error) {
	existing, err := s.ownedProduct(ctx, current, id)
	if err != nil {
		return nil, err
	}

	price, err := validateProduct(&input, !existing.HasImage())
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = input.Name
	updated.Price = price
	updated.Category = models.Category(input.Category)

	oldImage := existing.Image
	if input.Image != nil {
		name, err := s.cleaner.assets.Store(ctx, storage.ProductImages, input.Image)
		if err != nil {
			return nil, err
		}
		updated.Image = name
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if updated.Image != oldImage {
			s.cleaner.discard(ctx, storage.ProductImages, updated.Image, current.ID)
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	if updated.Image != oldImage {
		s.cleaner.discard(ctx, storage.ProductImages, oldImage, current.ID)
	}
	return &updated, nil
}

// DeleteProduct removes the product's image file, then the product row.
func (s *ProductService) DeleteProduct(ctx context.Context, current *models.User, id string) error {
	product, err := s.ownedProduct(ctx, current, id)
	if err != nil {
		return err
	}

	s.cleaner.discard(ctx, storage.ProductImages, product.Image, current.ID)
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

func (s *ProductService) ownedProduct(ctx context.Context, current *models.User, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(current.ID) {
		return nil, apperror.Forbidden("you do not own this product")
	}
	return product, nil
}

// validateProduct checks every rule and returns the parsed price.
func validateProduct(input *ProductInput, imageRequired bool) (decimal.Decimal, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Price = strings.TrimSpace(input.Price)
	input.Category = strings.TrimSpace(input.Category)

	fields := validateStruct(*input)

	var price decimal.Decimal
	if _, bad := fields["price"]; !bad {
		parsed, err := decimal.NewFromString(input.Price)
		switch {
		case err != nil:
			fields["price"] = "must be a number"
		case parsed.LessThan(minPrice):
			fields["price"] = "must be at least 0.01"
		case parsed.GreaterThan(maxPrice):
			fields["price"] = "may not be greater than 5000.00"
		default:
			price = parsed.Round(2)
		}
	}

	checkImage(fields, input.Image, imageRequired)
	if len(fields) > 0 {
		return decimal.Decimal{}, validationError(fields)
	}
	return price, nil
}
