package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"feira/internal/apperror"
	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/services"
	"feira/internal/storage"
	"feira/internal/testutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func tomateInput(t *testing.T) services.ProductInput {
	return services.ProductInput{
		Name:     "Tomate",
		Price:    "3.50",
		Category: "Legumes",
		Image:    testutils.FileHeader(t, "tomate.jpg", testutils.MinimalJPEG()),
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Ana Silva", "ana@example.com")

	product, err := f.product.CreateProduct(context.Background(), owner, tomateInput(t))
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, owner.ID, product.UserID)
	assert.Equal(t, models.CategoryLegumes, product.Category)
	assert.True(t, decimal.RequireFromString("3.5").Equal(product.Price))
	assert.True(t, strings.HasSuffix(product.Image, "_tomate.jpg"))
	assert.True(t, f.fileExists(t, storage.ProductImages, product.Image))

	listed, err := f.product.ListProducts(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, product.ID, listed[0].ID)
}

func TestProductService_CreateProductRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*services.ProductInput)
		field string
	}{
		{"price too low", func(in *services.ProductInput) { in.Price = "0.00" }, "price"},
		{"price too high", func(in *services.ProductInput) { in.Price = "5000.01" }, "price"},
		{"price not a number", func(in *services.ProductInput) { in.Price = "três" }, "price"},
		{"unknown category", func(in *services.ProductInput) { in.Category = "Carnes" }, "category"},
		{"category outside the set", func(in *services.ProductInput) { in.Category = "Tubérculos" }, "category"},
		{"missing name", func(in *services.ProductInput) { in.Name = "" }, "name"},
		{"long name", func(in *services.ProductInput) { in.Name = strings.Repeat("x", 51) }, "name"},
		{"missing image", func(in *services.ProductInput) { in.Image = nil }, "image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			owner := f.register(t, "Ana Silva", "ana@example.com")
			input := tomateInput(t)
			tc.edit(&input)

			_, err := f.product.CreateProduct(context.Background(), owner, input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Contains(t, apperror.FieldsOf(err), tc.field)

			listed, err := f.product.ListProducts(context.Background(), owner)
			require.NoError(t, err)
			assert.Empty(t, listed)
		})
	}
}

func TestProductService_AcceptsEveryCategory(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Ana Silva", "ana@example.com")

	for _, category := range []string{"Frutas", "Verduras", "Hortaliças", "Legumes", "Outros"} {
		input := tomateInput(t)
		input.Category = category
		product, err := f.product.CreateProduct(context.Background(), owner, input)
		require.NoError(t, err, category)
		assert.Equal(t, models.Category(category), product.Category)
	}
}

func TestProductService_PriceBoundsAreInclusive(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Ana Silva", "ana@example.com")

	for _, price := range []string{"0.01", "5000.00", "5000"} {
		input := tomateInput(t)
		input.Price = price
		_, err := f.product.CreateProduct(context.Background(), owner, input)
		assert.NoError(t, err, price)
	}
}

func TestProductService_OwnershipIsEnforcedExceptForShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana Silva", "ana@example.com")
	other := f.register(t, "Bruno Costa", "bruno@example.com")

	product, err := f.product.CreateProduct(ctx, owner, tomateInput(t))
	require.NoError(t, err)

	shown, err := f.product.ShowProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, shown.ID)

	_, err = f.product.EditProduct(ctx, other, product.ID)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	_, err = f.product.UpdateProduct(ctx, other, product.ID, tomateInput(t))
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	err = f.product.DeleteProduct(ctx, other, product.ID)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	// nothing changed for the owner
	edited, err := f.product.EditProduct(ctx, owner, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Image, edited.Image)
	assert.True(t, f.fileExists(t, storage.ProductImages, product.Image))
}

func TestProductService_MissingProduct(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Ana Silva", "ana@example.com")

	_, err := f.product.ShowProduct(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = f.product.EditProduct(context.Background(), owner, "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = f.product.UpdateProduct(context.Background(), owner, "missing", tomateInput(t))
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestProductService_UpdateReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana Silva", "ana@example.com")

	product, err := f.product.CreateProduct(ctx, owner, tomateInput(t))
	require.NoError(t, err)
	fileA := product.Image

	updated, err := f.product.UpdateProduct(ctx, owner, product.ID, services.ProductInput{
		Name:     "Tomate Cereja",
		Price:    "7.25",
		Category: "Frutas",
		Image:    testutils.FileHeader(t, "cereja.webp", testutils.MinimalWEBP()),
	})
	require.NoError(t, err)
	fileB := updated.Image

	assert.NotEqual(t, fileA, fileB)
	assert.False(t, f.fileExists(t, storage.ProductImages, fileA))
	assert.True(t, f.fileExists(t, storage.ProductImages, fileB))

	stored, err := f.product.ShowProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, fileB, stored.Image)
	assert.Equal(t, "Tomate Cereja", stored.Name)
	assert.Equal(t, models.CategoryFrutas, stored.Category)
	assert.True(t, decimal.RequireFromString("7.25").Equal(stored.Price))
	assert.Equal(t, owner.ID, stored.UserID)
}

func TestProductService_UpdateWithoutImageKeepsOldOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana Silva", "ana@example.com")

	product, err := f.product.CreateProduct(ctx, owner, tomateInput(t))
	require.NoError(t, err)

	updated, err := f.product.UpdateProduct(ctx, owner, product.ID, services.ProductInput{
		Name:     "Tomate Italiano",
		Price:    "4",
		Category: "Legumes",
	})
	require.NoError(t, err)
	assert.Equal(t, product.Image, updated.Image)
	assert.True(t, f.fileExists(t, storage.ProductImages, product.Image))
}

func TestProductService_UpdateRequiresImageWhenNoneStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana Silva", "ana@example.com")

	legacy := &models.Product{Name: "Couve", Price: decimal.RequireFromString("2"), Category: models.CategoryVerduras, UserID: owner.ID}
	require.NoError(t, f.products.Create(ctx, legacy))

	_, err := f.product.UpdateProduct(ctx, owner, legacy.ID, services.ProductInput{Name: "Couve", Price: "2.5", Category: "Verduras"})
	require.Error(t, err)
	assert.Equal(t, "is required", apperror.FieldsOf(err)["image"])
}

func TestProductService_SameSecondSameFilenameReplacementKeepsFile(t *testing.T) {
	users := repositories.NewInMemoryUserRepository()
	products := repositories.NewInMemoryProductRepository()
	store := storage.NewLocalStore(filepath.Join(t.TempDir(), "imagens")).WithClock(func() time.Time { return time.Unix(1700000000, 0) })
	productService := services.NewProductService(products, store, nil)
	owner := &models.User{ID: "owner-1", Name: "Ana"}
	require.NoError(t, users.Create(context.Background(), owner))

	product, err := productService.CreateProduct(context.Background(), owner, tomateInput(t))
	require.NoError(t, err)
	updated, err := productService.UpdateProduct(context.Background(), owner, product.ID, tomateInput(t))
	require.NoError(t, err)

	assert.Equal(t, product.Image, updated.Image)
	ok, err := store.Exists(context.Background(), storage.ProductImages, updated.Image)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProductService_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana Silva", "ana@example.com")

	product, err := f.product.CreateProduct(ctx, owner, tomateInput(t))
	require.NoError(t, err)

	require.NoError(t, f.product.DeleteProduct(ctx, owner, product.ID))
	assert.False(t, f.fileExists(t, storage.ProductImages, product.Image))
	_, err = f.product.ShowProduct(ctx, product.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	err = f.product.DeleteProduct(ctx, owner, product.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestProductService_DeleteSurvivesFileFailure(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	mockStore := new(MockAssetStore)
	publisher := new(MockPublisher)
	productService := services.NewProductService(repo, mockStore, publisher)
	owner := &models.User{ID: "owner-1"}

	product := &models.Product{Name: "Batata", Price: decimal.RequireFromString("1"), Category: models.CategoryLegumes, Image: "1_batata.png", UserID: owner.ID}
	require.NoError(t, repo.Create(context.Background(), product))

	mockStore.On("Delete", mock.Anything, storage.ProductImages, "1_batata.png").Return(errors.New("permission denied")).Once()
	publisher.On("PublishAssetEvent", mock.MatchedBy(func(e models.AssetEvent) bool {
		return e.Type == models.AssetOrphaned && e.Name == "1_batata.png" && e.Folder == "product_images"
	})).Return(nil).Once()

	require.NoError(t, productService.DeleteProduct(context.Background(), owner, product.ID))
	_, err := repo.GetByID(context.Background(), product.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	mockStore.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_CreatePropagatesStorageWriteError(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	mockStore := new(MockAssetStore)
	productService := services.NewProductService(repo, mockStore, nil)
	owner := &models.User{ID: "owner-1"}

	mockStore.On("Store", mock.Anything, storage.ProductImages, mock.Anything).Return("", apperror.StorageWrite(errors.New("disk full"))).Once()

	_, err := productService.CreateProduct(context.Background(), owner, tomateInput(t))
	assert.True(t, errors.Is(err, apperror.ErrStorageWrite))

	listed, err := repo.GetByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
	mockStore.AssertExpectations(t)
}
