package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"feira/internal/apperror"
	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/services"
	"feira/internal/storage"
	"feira/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileService_ViewProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ana Silva", "ana@example.com")

	view, err := f.profile.ViewProfile(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, view.User.ID)
	assert.NotNil(t, view.Products)
	assert.Empty(t, view.Products)
	assert.Empty(t, view.AvatarURL)

	_, err = f.product.CreateProduct(ctx, user, tomateInput(t))
	require.NoError(t, err)
	other := f.register(t, "Bruno Costa", "bruno@example.com")
	_, err = f.product.CreateProduct(ctx, other, tomateInput(t))
	require.NoError(t, err)

	view, err = f.profile.ViewProfile(ctx, user)
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, user.ID, view.Products[0].UserID)
}

func TestProfileService_UpdateProfileReplacesAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.RegisterUser(ctx, services.RegisterInput{
		Name:                 "Ana Silva",
		Email:                "ana@example.com",
		Password:             "senha1234",
		PasswordConfirmation: "senha1234",
		Image:                testutils.FileHeader(t, "a.png", testutils.MinimalPNG()),
	})
	require.NoError(t, err)
	oldAvatar := user.Avatar
	require.True(t, f.fileExists(t, storage.ProfileImages, oldAvatar))

	updated, err := f.profile.UpdateProfile(ctx, user, services.ProfileInput{
		Name:  "Ana Souza",
		Image: testutils.FileHeader(t, "b.jpg", testutils.MinimalJPEG()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", updated.Name)
	assert.NotEqual(t, oldAvatar, updated.Avatar)
	assert.False(t, f.fileExists(t, storage.ProfileImages, oldAvatar))
	assert.True(t, f.fileExists(t, storage.ProfileImages, updated.Avatar))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Avatar, stored.Avatar)
	assert.Equal(t, "Ana Souza", stored.Name)

	view, err := f.profile.ViewProfile(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "/imagens/profile_images/"+updated.Avatar, view.AvatarURL)
}

func TestProfileService_UpdateProfileWithoutImageKeepsAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.RegisterUser(ctx, services.RegisterInput{
		Name:                 "Ana Silva",
		Email:                "ana@example.com",
		Password:             "senha1234",
		PasswordConfirmation: "senha1234",
		Image:                testutils.FileHeader(t, "a.png", testutils.MinimalPNG()),
	})
	require.NoError(t, err)

	updated, err := f.profile.UpdateProfile(ctx, user, services.ProfileInput{Name: "Ana Souza"})
	require.NoError(t, err)
	assert.Equal(t, user.Avatar, updated.Avatar)
	assert.True(t, f.fileExists(t, storage.ProfileImages, user.Avatar))
}

func TestProfileService_UpdateProfileSameStoredNameKeepsFile(t *testing.T) {
	users := repositories.NewInMemoryUserRepository()
	products := repositories.NewInMemoryProductRepository()
	store := storage.NewLocalStore(filepath.Join(t.TempDir(), "imagens")).WithClock(func() time.Time { return time.Unix(1700000000, 0) })
	profile := services.NewProfileService(users, products, store, nil)
	ctx := context.Background()

	name, err := store.Store(ctx, storage.ProfileImages, testutils.FileHeader(t, "a.png", testutils.MinimalPNG()))
	require.NoError(t, err)
	user := &models.User{Name: "Ana", Email: "ana@example.com", Avatar: name}
	require.NoError(t, users.Create(ctx, user))

	updated, err := profile.UpdateProfile(ctx, user, services.ProfileInput{
		Name:  "Ana",
		Image: testutils.FileHeader(t, "a.png", testutils.MinimalPNG()),
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Avatar)

	ok, err := store.Exists(ctx, storage.ProfileImages, name)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProfileService_UpdateProfileRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "Ana Silva", "ana@example.com")

	cases := []struct {
		name  string
		input services.ProfileInput
		field string
	}{
		{"digits in name", services.ProfileInput{Name: "Ana 2"}, "name"},
		{"empty name", services.ProfileInput{Name: "  "}, "name"},
		{"gif avatar", services.ProfileInput{Name: "Ana", Image: testutils.FileHeader(t, "a.gif", testutils.MinimalGIF())}, "image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.profile.UpdateProfile(context.Background(), user, tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Contains(t, apperror.FieldsOf(err), tc.field)
		})
	}

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", stored.Name)
}

func TestProfileService_UpdateFailureDiscardsNewAvatar(t *testing.T) {
	userRepo := new(MockUserRepository)
	mockStore := new(MockAssetStore)
	profile := services.NewProfileService(userRepo, repositories.NewInMemoryProductRepository(), mockStore, nil)
	user := &models.User{ID: "user-1", Name: "Ana", Avatar: "1_old.png"}

	mockStore.On("Store", mock.Anything, storage.ProfileImages, mock.Anything).Return("2_new.png", nil).Once()
	userRepo.On("Update", mock.Anything, mock.Anything).Return(errors.New("database is locked")).Once()
	mockStore.On("Delete", mock.Anything, storage.ProfileImages, "2_new.png").Return(nil).Once()

	_, err := profile.UpdateProfile(context.Background(), user, services.ProfileInput{
		Name:  "Ana",
		Image: testutils.FileHeader(t, "new.png", testutils.MinimalPNG()),
	})
	require.Error(t, err)
	assert.Equal(t, "1_old.png", user.Avatar)
	userRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "Delete", mock.Anything, storage.ProfileImages, "1_old.png")
}
