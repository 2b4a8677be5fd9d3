package aperture

import (
	"context"
	"fmt"
	"strings"

	"aperturama/internal/database/sqlc"
)

// CollectionView is a collection together with the ids of its media.
type CollectionView struct {
	Collection *sqlc.Collection
	MediaIDs   []int64
}

// CreateCollection creates a collection owned by the authenticated requester.
// A blank name becomes DefaultCollectionName.
func (s *Service) CreateCollection(ctx context.Context, req Requester, name string) (*sqlc.Collection, error) {
	if !req.IsAuthenticated() {
		return nil, ErrNotAuthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCollectionName
	}
	c, err := s.store.CreateCollection(ctx, req.UserID(), name)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	s.logger.Info("collection created", "collection_id", c.ID, "owner", c.OwnerUserID)
	return c, nil
}

// GetCollection returns a collection readable by req with its media ids.
func (s *Service) GetCollection(ctx context.Context, req Requester, collectionID int64) (*CollectionView, error) {
	if err := s.authorize(ctx, req, CollectionTarget(collectionID), CapabilityRead); err != nil {
		return nil, err
	}
	c, err := s.store.FindCollectionByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("finding collection: %w", err)
	}
	if c == nil {
		return nil, ErrNotAuthorized
	}
	ids, err := s.store.ListCollectionMedia(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("listing collection media: %w", err)
	}
	return &CollectionView{Collection: c, MediaIDs: ids}, nil
}

// ListCollections returns the collections owned by the authenticated requester.
func (s *Service) ListCollections(ctx context.Context, req Requester) ([]*sqlc.Collection, error) {
	if !req.IsAuthenticated() {
		return nil, ErrNotAuthorized
	}
	cs, err := s.store.ListCollectionsByOwner(ctx, req.UserID())
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return cs, nil
}

func (s *Service) RenameCollection(ctx context.Context, req Requester, collectionID int64, name string) error {
	if err := s.authorize(ctx, req, CollectionTarget(collectionID), CapabilityOwn); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCollectionName
	}
	if err := s.store.RenameCollection(ctx, collectionID, name); err != nil {
		return fmt.Errorf("renaming collection: %w", err)
	}
	return nil
}

// DeleteCollection removes a collection, its memberships and its grants.
// The media it contained are untouched.
func (s *Service) DeleteCollection(ctx context.Context, req Requester, collectionID int64) error {
	if err := s.authorize(ctx, req, CollectionTarget(collectionID), CapabilityOwn); err != nil {
		return err
	}
	if err := s.store.DeleteCollection(ctx, collectionID); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	s.logger.Info("collection deleted", "collection_id", collectionID)
	return nil
}

// AddToCollection adds a media item to a collection. The requester must own
// both. Adding an item that is already a member is a no-op; added reports
// whether a membership was created.
func (s *Service) AddToCollection(ctx context.Context, req Requester, collectionID, mediaID int64) (added bool, err error) {
	if err := s.authorize(ctx, req, CollectionTarget(collectionID), CapabilityOwn); err != nil {
		return false, err
	}
	if err := s.authorize(ctx, req, MediaTarget(mediaID), CapabilityOwn); err != nil {
		return false, err
	}
	added, err = s.store.AddCollectionMedia(ctx, collectionID, mediaID)
	if err != nil {
		return false, fmt.Errorf("adding media to collection: %w", err)
	}
	if !added {
		s.logger.Debug("media already in collection", "collection_id", collectionID, "media_id", mediaID)
	}
	return added, nil
}

// RemoveFromCollection removes a media item from a collection owned by req.
// Removing a non-member is a no-op.
func (s *Service) RemoveFromCollection(ctx context.Context, req Requester, collectionID, mediaID int64) error {
	if err := s.authorize(ctx, req, CollectionTarget(collectionID), CapabilityOwn); err != nil {
		return err
	}
	if err := s.store.RemoveCollectionMedia(ctx, collectionID, mediaID); err != nil {
		return fmt.Errorf("removing media from collection: %w", err)
	}
	return nil
}
