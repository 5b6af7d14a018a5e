package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"feira/internal/models"
	"feira/internal/storage"
)

// EventPublisher publishes asset lifecycle events. A nil publisher disables
// events entirely.
type EventPublisher interface {
	PublishAssetEvent(event models.AssetEvent) error
}

// assetCleaner deletes files whose reference was replaced or removed. Every
// deletion is best-effort: failures are logged and announced as orphans, never
// returned to the caller.
type assetCleaner struct {
	assets storage.AssetStore
	events EventPublisher
}

func (c assetCleaner) discard(ctx context.Context, folder storage.Folder, name, userID string) {
	if name == "" {
		return
	}
	if err := c.assets.Delete(ctx, folder, name); err != nil {
		log.Printf("Warning: failed to delete %s/%s: %v", folder, name, err)
		c.publish(models.AssetEvent{
			Type:   models.AssetOrphaned,
			Folder: string(folder),
			Name:   name,
			UserID: userID,
			Reason: err.Error(),
		})
	}
}

func (c assetCleaner) publish(event models.AssetEvent) {
	if c.events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := c.events.PublishAssetEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event.Type, err)
	}
}

// CleanupService retries the deletion of files reported as orphaned.
type CleanupService struct {
	assets  storage.AssetStore
	timeout time.Duration
}

// NewCleanupService creates a new CleanupService.
func NewCleanupService(assets storage.AssetStore) *CleanupService {
	return &CleanupService{
		assets:  assets,
		timeout: 30 * time.Second,
	}
}

// HandleAssetEvent processes one event from the asset queue.
func (s *CleanupService) HandleAssetEvent(event models.AssetEvent) error {
	switch event.Type {
	case models.AssetOrphaned:
		folder := storage.Folder(event.Folder)
		if folder != storage.ProfileImages && folder != storage.ProductImages {
			log.Printf("Ignoring orphan in unknown folder %q", event.Folder)
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.assets.Delete(ctx, folder, event.Name); err != nil {
			return fmt.Errorf("retry delete of %s/%s: %w", folder, event.Name, err)
		}
		log.Printf("Removed orphaned file %s/%s", folder, event.Name)
		return nil
	case models.AccountDeleted:
		log.Printf("Account %s deleted", event.UserID)
		return nil
	default:
		log.Printf("Ignoring unknown asset event type %q", event.Type)
		return nil
	}
}
