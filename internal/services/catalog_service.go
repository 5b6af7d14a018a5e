package services

import (
	"context"
	"strings"

	"feira/internal/models"
	"feira/internal/repositories"
)

// featuredCategories are listed together on the home page; Legumes get a
// list of their own.
var featuredCategories = []models.Category{
	models.CategoryFrutas,
	models.CategoryHortalicas,
	models.CategoryVerduras,
}

// HomeView is the public landing page.
type HomeView struct {
	Produtos []models.Product `json:"produtos"`
	Legumes  []models.Product `json:"legumes"`
	Imagens  map[string]any   `json:"imagens"`
}

// SearchInput carries the product search form. An empty term lists everything.
type SearchInput struct {
	Termo string `form:"termo" query:"termo" validate:"max=100"`
}

// SearchView is the result of a product search.
type SearchView struct {
	Produtos []models.Product `json:"produtos"`
	Termo    string           `json:"termo"`
}

// CatalogService serves the public, cross-user product listings.
type CatalogService struct {
	repo     repositories.ProductRepository
	showcase map[string]any
}

// NewCatalogService creates a CatalogService. showcase is the already loaded
// home-page image mapping; nil means empty.
func NewCatalogService(repo repositories.ProductRepository, showcase map[string]any) *CatalogService {
	if showcase == nil {
		showcase = map[string]any{}
	}
	return &CatalogService{
		repo:     repo,
		showcase: showcase,
	}
}

// Home lists the featured categories, the Legumes and the showcase mapping.
func (s *CatalogService) Home(ctx context.Context) (*HomeView, error) {
	featured, err := s.repo.GetByCategories(ctx, featuredCategories...)
	if err != nil {
		return nil, err
	}
	legumes, err := s.repo.GetByCategories(ctx, models.CategoryLegumes)
	if err != nil {
		return nil, err
	}
	return &HomeView{
		Produtos: nonNil(featured),
		Legumes:  nonNil(legumes),
		Imagens:  s.showcase,
	}, nil
}

// Search finds products of every user whose name contains the term.
func (s *CatalogService) Search(ctx context.Context, input SearchInput) (*SearchView, error) {
	input.Termo = strings.TrimSpace(input.Termo)
	if fields := validateStruct(input); len(fields) > 0 {
		return nil, validationError(fields)
	}

	products, err := s.repo.SearchByName(ctx, input.Termo)
	if err != nil {
		return nil, err
	}
	return &SearchView{Produtos: nonNil(products), Termo: input.Termo}, nil
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
