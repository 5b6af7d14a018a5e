package services

import (
	"context"
	"fmt"
	"log"

	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/storage"
)

// AccountService deletes an account together with everything it owns.
type AccountService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	cleaner     assetCleaner
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, assets storage.AssetStore, events EventPublisher) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		productRepo: productRepo,
		cleaner:     assetCleaner{assets: assets, events: events},
	}
}

// DeleteAccount removes each owned product (image first, then row), the
// avatar and finally the user row, and returns the user's display name.
// Steps already completed are not rolled back when a later step fails.
func (s *AccountService) DeleteAccount(ctx context.Context, current *models.User) (string, error) {
	products, err := s.productRepo.GetByOwner(ctx, current.ID)
	if err != nil {
		return "", err
	}

	for _, p := range products {
		s.cleaner.discard(ctx, storage.ProductImages, p.Image, current.ID)
		if err := s.productRepo.Delete(ctx, p.ID); err != nil {
			log.Printf("Account deletion of %s stopped at product %s: %v", current.ID, p.ID, err)
			return "", fmt.Errorf("failed to delete product %s: %w", p.ID, err)
		}
	}

	s.cleaner.discard(ctx, storage.ProfileImages, current.Avatar, current.ID)
	if err := s.userRepo.Delete(ctx, current.ID); err != nil {
		log.Printf("Account deletion of %s stopped at the user row: %v", current.ID, err)
		return "", fmt.Errorf("failed to delete user %s: %w", current.ID, err)
	}

	s.cleaner.publish(models.AssetEvent{Type: models.AccountDeleted, UserID: current.ID})
	log.Printf("Deleted account %s with %d products", current.ID, len(products))
	return current.Name, nil
}
