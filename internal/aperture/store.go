package aperture

import (
	"context"

	"aperturama/internal/database/sqlc"
)

// Store provides metadata storage for users, media, collections and grants.
// Finders return (nil, nil) when the row does not exist.
type Store interface {
	// User operations

	CreateUser(ctx context.Context, email string) (*sqlc.User, error)
	FindUserByID(ctx context.Context, id int64) (*sqlc.User, error)
	FindUserByEmail(ctx context.Context, email string) (*sqlc.User, error)

	// Media operations

	// CreateMedia inserts a media row and sets m.ID. This is the commit
	// point of an ingest: once it returns, the item is visible.
	CreateMedia(ctx context.Context, m *sqlc.Media) error
	FindMediaByID(ctx context.Context, id int64) (*sqlc.Media, error)
	ListMediaByOwner(ctx context.Context, ownerID int64) ([]*sqlc.Media, error)
	ListAllMedia(ctx context.Context) ([]*sqlc.Media, error)
	// HasMediaHash reports whether the owner already has media with this hash.
	HasMediaHash(ctx context.Context, ownerID int64, hash string) (bool, error)
	// DeleteMedia removes the row along with its memberships and grants.
	// Deleting a missing row is not an error.
	DeleteMedia(ctx context.Context, id int64) error

	// Collection operations

	CreateCollection(ctx context.Context, ownerID int64, name string) (*sqlc.Collection, error)
	FindCollectionByID(ctx context.Context, id int64) (*sqlc.Collection, error)
	ListCollectionsByOwner(ctx context.Context, ownerID int64) ([]*sqlc.Collection, error)
	RenameCollection(ctx context.Context, id int64, name string) error
	DeleteCollection(ctx context.Context, id int64) error

	// Membership operations

	// AddCollectionMedia reports whether a new membership was created.
	AddCollectionMedia(ctx context.Context, collectionID, mediaID int64) (bool, error)
	RemoveCollectionMedia(ctx context.Context, collectionID, mediaID int64) error
	ListCollectionMedia(ctx context.Context, collectionID int64) ([]int64, error)
	ListCollectionsContainingMedia(ctx context.Context, mediaID int64) ([]int64, error)

	// Grant operations

	// CreateUserGrant returns the existing grant and ErrDuplicateGrant when
	// the user already holds one on the target.
	CreateUserGrant(ctx context.Context, target Target, userID int64) (*Grant, error)
	// CreateLinkGrant returns ErrLinkCodeTaken when the code is in use.
	// passwordHash may be empty for a link without a password.
	CreateLinkGrant(ctx context.Context, target Target, code, passwordHash string) (*Grant, error)
	FindUserGrant(ctx context.Context, target Target, userID int64) (*Grant, error)
	FindLinkGrant(ctx context.Context, target Target, code string) (*Grant, error)
	ListGrantsForTarget(ctx context.Context, target Target) ([]*Grant, error)
	DeleteUserGrant(ctx context.Context, target Target, userID int64) error
	DeleteLinkGrant(ctx context.Context, target Target, code string) error
	// DeleteGrantsForTarget returns the number of grants removed.
	DeleteGrantsForTarget(ctx context.Context, target Target) (int64, error)

	// Close closes the underlying connection.
	Close() error
}
