package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/storage"
)

// ProfileInput carries the profile edit form.
type ProfileInput struct {
	Name  string                `form:"name" validate:"required,max=100,alphaspace"`
	Image *multipart.FileHeader `form:"-" validate:"-"`
}

// ProfileView is the authenticated user's own page.
type ProfileView struct {
	User      *models.User     `json:"user"`
	AvatarURL string           `json:"avatar_url,omitempty"`
	Products  []models.Product `json:"products"`
}

// ProfileService reads and edits the current user's profile.
type ProfileService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	cleaner     assetCleaner
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, assets storage.AssetStore, events EventPublisher) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		productRepo: productRepo,
		cleaner:     assetCleaner{assets: assets, events: events},
	}
}

// ViewProfile returns the user with the products they own, never nil.
func (s *ProfileService) ViewProfile(ctx context.Context, current *models.User) (*ProfileView, error) {
	products, err := s.productRepo.GetByOwner(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return &ProfileView{
		User:      current,
		AvatarURL: storage.PublicPath(storage.ProfileImages, current.Avatar),
		Products:  products,
	}, nil
}

// UpdateProfile sets the display name and, when an image is supplied,
// replaces the avatar. The previous avatar file is removed once the new
// reference is persisted.
func (s *ProfileService) UpdateProfile(ctx context.Context, current *models.User, input ProfileInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)

	fields := validateStruct(input)
	checkImage(fields, input.Image, false)
	if len(fields) > 0 {
		return nil, validationError(fields)
	}

	updated := *current
	updated.Name = input.Name
	oldAvatar := current.Avatar

	if input.Image != nil {
		name, err := s.cleaner.assets.Store(ctx, storage.ProfileImages, input.Image)
		if err != nil {
			return nil, err
		}
		updated.Avatar = name
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		if updated.Avatar != oldAvatar {
			s.cleaner.discard(ctx, storage.ProfileImages, updated.Avatar, current.ID)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if updated.Avatar != oldAvatar {
		s.cleaner.discard(ctx, storage.ProfileImages, oldAvatar, current.ID)
	}
	return &updated, nil
}
