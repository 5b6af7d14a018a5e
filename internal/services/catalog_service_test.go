package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"feira/internal/apperror"
	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) *repositories.InMemoryProductRepository {
	t.Helper()
	repo := repositories.NewInMemoryProductRepository()
	for _, p := range []models.Product{
		{Name: "Manga", Category: models.CategoryFrutas},
		{Name: "Cheiro-verde", Category: models.CategoryHortalicas},
		{Name: "Rúcula", Category: models.CategoryVerduras},
		{Name: "Cenoura", Category: models.CategoryLegumes},
		{Name: "Queijo", Category: models.CategoryOutros},
	} {
		p.Price = decimal.RequireFromString("5")
		p.UserID = "owner-1"
		require.NoError(t, repo.Create(context.Background(), &p))
	}
	return repo
}

func productNames(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestCatalogService_Home(t *testing.T) {
	catalog := services.NewCatalogService(seedCatalog(t), map[string]any{"banner": "feira.png"})

	view, err := catalog.Home(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Manga", "Cheiro-verde", "Rúcula"}, productNames(view.Produtos))
	assert.Equal(t, []string{"Cenoura"}, productNames(view.Legumes))
	assert.Equal(t, "feira.png", view.Imagens["banner"])
}

func TestCatalogService_HomeWithoutProducts(t *testing.T) {
	catalog := services.NewCatalogService(repositories.NewInMemoryProductRepository(), nil)

	view, err := catalog.Home(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, view.Produtos)
	assert.NotNil(t, view.Legumes)
	assert.NotNil(t, view.Imagens)
	assert.Empty(t, view.Produtos)
}

func TestCatalogService_Search(t *testing.T) {
	catalog := services.NewCatalogService(seedCatalog(t), nil)

	view, err := catalog.Search(context.Background(), services.SearchInput{Termo: "  cen "})
	require.NoError(t, err)
	assert.Equal(t, "cen", view.Termo)
	assert.Equal(t, []string{"Cenoura"}, productNames(view.Produtos))

	view, err = catalog.Search(context.Background(), services.SearchInput{})
	require.NoError(t, err)
	assert.Len(t, view.Produtos, 5)

	view, err = catalog.Search(context.Background(), services.SearchInput{Termo: "abacaxi"})
	require.NoError(t, err)
	assert.NotNil(t, view.Produtos)
	assert.Empty(t, view.Produtos)
}

func TestCatalogService_SearchTermLimit(t *testing.T) {
	catalog := services.NewCatalogService(seedCatalog(t), nil)

	_, err := catalog.Search(context.Background(), services.SearchInput{Termo: strings.Repeat("ç", 100)})
	assert.NoError(t, err)

	_, err = catalog.Search(context.Background(), services.SearchInput{Termo: strings.Repeat("a", 101)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, apperror.FieldsOf(err), "termo")
}
