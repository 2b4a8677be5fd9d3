package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"aperturama/internal/aperture"
	"aperturama/internal/database/migrations"
	"aperturama/internal/database/sqlc"
)

// SQLiteDatabase implements aperture.Store using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	clock   aperture.Clock
	path    string
}

// NewSQLiteDatabase opens a SQLite database.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string, clock aperture.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock aperture.Clock) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
	}
}

// OpenConnection opens a SQLite connection with foreign keys enforced and a
// busy timeout so that concurrent requests wait for locks instead of failing.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// User operations

func (s *SQLiteDatabase) CreateUser(ctx context.Context, email string) (*sqlc.User, error) {
	u, err := s.queries.InsertUser(ctx, sqlc.InsertUserParams{
		Email:     email,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return nil, fmt.Errorf("%w: %s", aperture.ErrUserExists, email)
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteDatabase) FindUserByID(ctx context.Context, id int64) (*sqlc.User, error) {
	u, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return &u, nil
}

func (s *SQLiteDatabase) FindUserByEmail(ctx context.Context, email string) (*sqlc.User, error) {
	u, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &u, nil
}

// Media operations

func (s *SQLiteDatabase) CreateMedia(ctx context.Context, m *sqlc.Media) error {
	created, err := s.queries.InsertMedia(ctx, sqlc.InsertMediaParams{
		OwnerUserID: m.OwnerUserID,
		Hash:        m.Hash,
		Filename:    m.Filename,
		CapturedAt:  m.CapturedAt,
		UploadedAt:  m.UploadedAt,
	})
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return fmt.Errorf("%w: %d", aperture.ErrUnknownUser, m.OwnerUserID)
		}
		return fmt.Errorf("inserting media: %w", err)
	}
	m.ID = created.ID
	return nil
}

func (s *SQLiteDatabase) FindMediaByID(ctx context.Context, id int64) (*sqlc.Media, error) {
	m, err := s.queries.GetMediaByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding media by id: %w", err)
	}
	return &m, nil
}

func (s *SQLiteDatabase) ListMediaByOwner(ctx context.Context, ownerID int64) ([]*sqlc.Media, error) {
	media, err := s.queries.ListMediaByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing media by owner: %w", err)
	}
	return pointers(media), nil
}

func (s *SQLiteDatabase) ListAllMedia(ctx context.Context) ([]*sqlc.Media, error) {
	media, err := s.queries.ListAllMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	return pointers(media), nil
}

func (s *SQLiteDatabase) HasMediaHash(ctx context.Context, ownerID int64, hash string) (bool, error) {
	n, err := s.queries.CountMediaByOwnerAndHash(ctx, sqlc.CountMediaByOwnerAndHashParams{
		OwnerUserID: ownerID,
		Hash:        hash,
	})
	if err != nil {
		return false, fmt.Errorf("counting media by hash: %w", err)
	}
	return n > 0, nil
}

// DeleteMedia removes the media row. Memberships and grants follow through
// ON DELETE CASCADE.
func (s *SQLiteDatabase) DeleteMedia(ctx context.Context, id int64) error {
	if err := s.queries.DeleteMediaByID(ctx, id); err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	return nil
}

// Collection operations

func (s *SQLiteDatabase) CreateCollection(ctx context.Context, ownerID int64, name string) (*sqlc.Collection, error) {
	c, err := s.queries.InsertCollection(ctx, sqlc.InsertCollectionParams{
		OwnerUserID: ownerID,
		Name:        name,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return nil, fmt.Errorf("%w: %d", aperture.ErrUnknownUser, ownerID)
		}
		return nil, fmt.Errorf("inserting collection: %w", err)
	}
	return &c, nil
}

func (s *SQLiteDatabase) FindCollectionByID(ctx context.Context, id int64) (*sqlc.Collection, error) {
	c, err := s.queries.GetCollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding collection by id: %w", err)
	}
	return &c, nil
}

func (s *SQLiteDatabase) ListCollectionsByOwner(ctx context.Context, ownerID int64) ([]*sqlc.Collection, error) {
	cs, err := s.queries.ListCollectionsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing collections by owner: %w", err)
	}
	return pointers(cs), nil
}

func (s *SQLiteDatabase) RenameCollection(ctx context.Context, id int64, name string) error {
	err := s.queries.UpdateCollectionName(ctx, sqlc.UpdateCollectionNameParams{Name: name, ID: id})
	if err != nil {
		return fmt.Errorf("renaming collection: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteCollection(ctx context.Context, id int64) error {
	if err := s.queries.DeleteCollectionByID(ctx, id); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Membership operations

func (s *SQLiteDatabase) AddCollectionMedia(ctx context.Context, collectionID, mediaID int64) (bool, error) {
	n, err := s.queries.InsertCollectionMedia(ctx, sqlc.InsertCollectionMediaParams{
		CollectionID: collectionID,
		MediaID:      mediaID,
	})
	if err != nil {
		return false, fmt.Errorf("inserting collection membership: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDatabase) RemoveCollectionMedia(ctx context.Context, collectionID, mediaID int64) error {
	err := s.queries.DeleteCollectionMedia(ctx, sqlc.DeleteCollectionMediaParams{
		CollectionID: collectionID,
		MediaID:      mediaID,
	})
	if err != nil {
		return fmt.Errorf("deleting collection membership: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListCollectionMedia(ctx context.Context, collectionID int64) ([]int64, error) {
	ids, err := s.queries.ListMediaIDsByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("listing collection media: %w", err)
	}
	return ids, nil
}

func (s *SQLiteDatabase) ListCollectionsContainingMedia(ctx context.Context, mediaID int64) ([]int64, error) {
	ids, err := s.queries.ListCollectionIDsByMedia(ctx, mediaID)
	if err != nil {
		return nil, fmt.Errorf("listing collections containing media: %w", err)
	}
	return ids, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// MigrateUp applies pending migrations.
func (s *SQLiteDatabase) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// isConstraint reports whether err is a SQLite constraint violation of the
// given extended kind.
func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}

func pointers[T any](rows []T) []*T {
	result := make([]*T, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result
}

var _ aperture.Store = (*SQLiteDatabase)(nil)
