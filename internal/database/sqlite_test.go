package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"aperturama/internal/aperture"
	"aperturama/internal/database/sqlc"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:", fixedClock{time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func mustUser(t *testing.T, db *SQLiteDatabase, email string) *sqlc.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), email)
	if err != nil {
		t.Fatalf("CreateUser(%q) error = %v", email, err)
	}
	return u
}

func mustMedia(t *testing.T, db *SQLiteDatabase, owner int64, hash string) *sqlc.Media {
	t.Helper()
	m := &sqlc.Media{
		OwnerUserID: owner,
		Hash:        hash,
		Filename:    "photo.jpg",
		UploadedAt:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	if err := db.CreateMedia(context.Background(), m); err != nil {
		t.Fatalf("CreateMedia() error = %v", err)
	}
	return m
}

func mustCollection(t *testing.T, db *SQLiteDatabase, owner int64) *sqlc.Collection {
	t.Helper()
	c, err := db.CreateCollection(context.Background(), owner, "Trip")
	if err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}
	return c
}

func TestSQLiteDatabase_Users(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil when user not found", func(t *testing.T) {
		db := newTestDB(t)

		u, err := db.FindUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("FindUserByEmail() error = %v", err)
		}
		if u != nil {
			t.Errorf("FindUserByEmail() = %v, want nil", u)
		}
		u, err = db.FindUserByID(ctx, 42)
		if err != nil {
			t.Fatalf("FindUserByID() error = %v", err)
		}
		if u != nil {
			t.Errorf("FindUserByID() = %v, want nil", u)
		}
	})

	t.Run("creates and finds user", func(t *testing.T) {
		db := newTestDB(t)
		created := mustUser(t, db, "a@example.com")

		found, err := db.FindUserByEmail(ctx, "a@example.com")
		if err != nil {
			t.Fatalf("FindUserByEmail() error = %v", err)
		}
		if found == nil || found.ID != created.ID {
			t.Errorf("FindUserByEmail() = %v, want id %d", found, created.ID)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		db := newTestDB(t)
		mustUser(t, db, "a@example.com")

		_, err := db.CreateUser(ctx, "a@example.com")
		if !errors.Is(err, aperture.ErrUserExists) {
			t.Errorf("CreateUser() error = %v, want ErrUserExists", err)
		}
	})
}

func TestSQLiteDatabase_Media(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns increasing ids", func(t *testing.T) {
		db := newTestDB(t)
		u := mustUser(t, db, "a@example.com")

		m1 := mustMedia(t, db, u.ID, "h1")
		m2 := mustMedia(t, db, u.ID, "h1")
		if m1.ID == 0 || m2.ID <= m1.ID {
			t.Errorf("ids = %d, %d; want increasing non-zero", m1.ID, m2.ID)
		}
	})

	t.Run("capture time round trips", func(t *testing.T) {
		db := newTestDB(t)
		u := mustUser(t, db, "a@example.com")
		captured := time.Date(2023, 7, 4, 18, 0, 0, 0, time.UTC)

		m := &sqlc.Media{
			OwnerUserID: u.ID,
			Hash:        "h",
			Filename:    "a.jpg",
			CapturedAt:  sql.NullTime{Time: captured, Valid: true},
			UploadedAt:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		}
		if err := db.CreateMedia(ctx, m); err != nil {
			t.Fatalf("CreateMedia() error = %v", err)
		}
		found, err := db.FindMediaByID(ctx, m.ID)
		if err != nil {
			t.Fatalf("FindMediaByID() error = %v", err)
		}
		if !found.CapturedAt.Valid || !found.CapturedAt.Time.Equal(captured) {
			t.Errorf("CapturedAt = %v, want %v", found.CapturedAt, captured)
		}
	})

	t.Run("unknown owner", func(t *testing.T) {
		db := newTestDB(t)
		m := &sqlc.Media{OwnerUserID: 99, Hash: "h", Filename: "a.jpg", UploadedAt: time.Now()}

		err := db.CreateMedia(ctx, m)
		if !errors.Is(err, aperture.ErrUnknownUser) {
			t.Errorf("CreateMedia() error = %v, want ErrUnknownUser", err)
		}
	})

	t.Run("has hash is scoped by owner", func(t *testing.T) {
		db := newTestDB(t)
		a := mustUser(t, db, "a@example.com")
		b := mustUser(t, db, "b@example.com")
		mustMedia(t, db, a.ID, "h1")

		tests := []struct {
			owner int64
			hash  string
			want  bool
		}{
			{a.ID, "h1", true},
			{a.ID, "h2", false},
			{b.ID, "h1", false},
		}
		for _, tt := range tests {
			got, err := db.HasMediaHash(ctx, tt.owner, tt.hash)
			if err != nil {
				t.Fatalf("HasMediaHash() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasMediaHash(%d, %q) = %v, want %v", tt.owner, tt.hash, got, tt.want)
			}
		}
	})

	t.Run("delete cascades and is idempotent", func(t *testing.T) {
		db := newTestDB(t)
		a := mustUser(t, db, "a@example.com")
		b := mustUser(t, db, "b@example.com")
		m := mustMedia(t, db, a.ID, "h1")
		c := mustCollection(t, db, a.ID)

		if _, err := db.AddCollectionMedia(ctx, c.ID, m.ID); err != nil {
			t.Fatalf("AddCollectionMedia() error = %v", err)
		}
		if _, err := db.CreateUserGrant(ctx, aperture.MediaTarget(m.ID), b.ID); err != nil {
			t.Fatalf("CreateUserGrant() error = %v", err)
		}

		if err := db.DeleteMedia(ctx, m.ID); err != nil {
			t.Fatalf("DeleteMedia() error = %v", err)
		}
		if err := db.DeleteMedia(ctx, m.ID); err != nil {
			t.Errorf("second DeleteMedia() error = %v", err)
		}

		ids, err := db.ListCollectionMedia(ctx, c.ID)
		if err != nil {
			t.Fatalf("ListCollectionMedia() error = %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("ListCollectionMedia() = %v, want empty", ids)
		}
		grants, err := db.ListGrantsForTarget(ctx, aperture.MediaTarget(m.ID))
		if err != nil {
			t.Fatalf("ListGrantsForTarget() error = %v", err)
		}
		if len(grants) != 0 {
			t.Errorf("ListGrantsForTarget() = %d grants, want 0", len(grants))
		}
	})
}

func TestSQLiteDatabase_Collections(t *testing.T) {
	ctx := context.Background()

	t.Run("membership add is idempotent", func(t *testing.T) {
		db := newTestDB(t)
		u := mustUser(t, db, "a@example.com")
		m := mustMedia(t, db, u.ID, "h1")
		c := mustCollection(t, db, u.ID)

		added, err := db.AddCollectionMedia(ctx, c.ID, m.ID)
		if err != nil || !added {
			t.Fatalf("AddCollectionMedia() = %v, %v; want true, nil", added, err)
		}
		added, err = db.AddCollectionMedia(ctx, c.ID, m.ID)
		if err != nil || added {
			t.Errorf("second AddCollectionMedia() = %v, %v; want false, nil", added, err)
		}

		containing, err := db.ListCollectionsContainingMedia(ctx, m.ID)
		if err != nil {
			t.Fatalf("ListCollectionsContainingMedia() error = %v", err)
		}
		if len(containing) != 1 || containing[0] != c.ID {
			t.Errorf("ListCollectionsContainingMedia() = %v, want [%d]", containing, c.ID)
		}
	})

	t.Run("remove of non member succeeds", func(t *testing.T) {
		db := newTestDB(t)
		u := mustUser(t, db, "a@example.com")
		c := mustCollection(t, db, u.ID)

		if err := db.RemoveCollectionMedia(ctx, c.ID, 99); err != nil {
			t.Errorf("RemoveCollectionMedia() error = %v", err)
		}
	})

	t.Run("rename and delete", func(t *testing.T) {
		db := newTestDB(t)
		u := mustUser(t, db, "a@example.com")
		c := mustCollection(t, db, u.ID)

		if err := db.RenameCollection(ctx, c.ID, "Holiday"); err != nil {
			t.Fatalf("RenameCollection() error = %v", err)
		}
		found, err := db.FindCollectionByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("FindCollectionByID() error = %v", err)
		}
		if found.Name != "Holiday" {
			t.Errorf("Name = %q, want %q", found.Name, "Holiday")
		}

		if err := db.DeleteCollection(ctx, c.ID); err != nil {
			t.Fatalf("DeleteCollection() error = %v", err)
		}
		found, err = db.FindCollectionByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("FindCollectionByID() error = %v", err)
		}
		if found != nil {
			t.Errorf("FindCollectionByID() after delete = %v, want nil", found)
		}
	})
}

func TestSQLiteDatabase_Grants(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*SQLiteDatabase, []aperture.Target, *sqlc.User) {
		t.Helper()
		db := newTestDB(t)
		a := mustUser(t, db, "a@example.com")
		b := mustUser(t, db, "b@example.com")
		m := mustMedia(t, db, a.ID, "h1")
		c := mustCollection(t, db, a.ID)
		return db, []aperture.Target{aperture.MediaTarget(m.ID), aperture.CollectionTarget(c.ID)}, b
	}

	t.Run("duplicate user grant", func(t *testing.T) {
		db, targets, b := setup(t)
		for _, target := range targets {
			first, err := db.CreateUserGrant(ctx, target, b.ID)
			if err != nil {
				t.Fatalf("CreateUserGrant(%s) error = %v", target, err)
			}
			second, err := db.CreateUserGrant(ctx, target, b.ID)
			if !errors.Is(err, aperture.ErrDuplicateGrant) {
				t.Errorf("second CreateUserGrant(%s) error = %v, want ErrDuplicateGrant", target, err)
			}
			if second == nil || second.ID != first.ID {
				t.Errorf("second CreateUserGrant(%s) = %v, want existing grant %d", target, second, first.ID)
			}

			grants, err := db.ListGrantsForTarget(ctx, target)
			if err != nil {
				t.Fatalf("ListGrantsForTarget() error = %v", err)
			}
			if len(grants) != 1 {
				t.Errorf("ListGrantsForTarget(%s) = %d grants, want 1", target, len(grants))
			}
		}
	})

	t.Run("concurrent duplicate user grants leave one row", func(t *testing.T) {
		db, targets, b := setup(t)
		target := targets[1]

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := db.CreateUserGrant(ctx, target, b.ID)
				if errors.Is(err, aperture.ErrDuplicateGrant) {
					err = nil
				}
				errs[i] = err
			}()
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				t.Errorf("CreateUserGrant() error = %v", err)
			}
		}

		grants, err := db.ListGrantsForTarget(ctx, target)
		if err != nil {
			t.Fatalf("ListGrantsForTarget() error = %v", err)
		}
		if len(grants) != 1 {
			t.Errorf("ListGrantsForTarget() = %d grants, want 1", len(grants))
		}
	})

	t.Run("link grants", func(t *testing.T) {
		db, targets, _ := setup(t)
		for _, target := range targets {
			code := "code-" + target.Kind.String()
			g, err := db.CreateLinkGrant(ctx, target, code, "hash")
			if err != nil {
				t.Fatalf("CreateLinkGrant(%s) error = %v", target, err)
			}
			if !g.IsLinkGrant() || g.IsUserGrant() || !g.HasPassword() || g.Target != target {
				t.Errorf("CreateLinkGrant(%s) = %+v", target, g)
			}

			found, err := db.FindLinkGrant(ctx, target, code)
			if err != nil {
				t.Fatalf("FindLinkGrant() error = %v", err)
			}
			if found == nil || found.ID != g.ID {
				t.Errorf("FindLinkGrant() = %v, want grant %d", found, g.ID)
			}

			_, err = db.CreateLinkGrant(ctx, target, code, "")
			if !errors.Is(err, aperture.ErrLinkCodeTaken) {
				t.Errorf("CreateLinkGrant() with taken code error = %v, want ErrLinkCodeTaken", err)
			}

			if err := db.DeleteLinkGrant(ctx, target, code); err != nil {
				t.Fatalf("DeleteLinkGrant() error = %v", err)
			}
			if err := db.DeleteLinkGrant(ctx, target, code); err != nil {
				t.Errorf("second DeleteLinkGrant() error = %v", err)
			}
			found, err = db.FindLinkGrant(ctx, target, code)
			if err != nil {
				t.Fatalf("FindLinkGrant() error = %v", err)
			}
			if found != nil {
				t.Errorf("FindLinkGrant() after delete = %v, want nil", found)
			}
		}
	})

	t.Run("link grant without password", func(t *testing.T) {
		db, targets, _ := setup(t)
		g, err := db.CreateLinkGrant(ctx, targets[0], "open", "")
		if err != nil {
			t.Fatalf("CreateLinkGrant() error = %v", err)
		}
		if g.HasPassword() {
			t.Error("HasPassword() = true, want false")
		}
	})

	t.Run("empty link code is invalid", func(t *testing.T) {
		db, targets, _ := setup(t)
		_, err := db.CreateLinkGrant(ctx, targets[0], "", "")
		if !errors.Is(err, aperture.ErrInvalidGrant) {
			t.Errorf("CreateLinkGrant() error = %v, want ErrInvalidGrant", err)
		}
	})

	t.Run("delete user grant and delete all", func(t *testing.T) {
		db, targets, b := setup(t)
		target := targets[0]
		if _, err := db.CreateUserGrant(ctx, target, b.ID); err != nil {
			t.Fatalf("CreateUserGrant() error = %v", err)
		}
		if err := db.DeleteUserGrant(ctx, target, b.ID); err != nil {
			t.Fatalf("DeleteUserGrant() error = %v", err)
		}
		g, err := db.FindUserGrant(ctx, target, b.ID)
		if err != nil {
			t.Fatalf("FindUserGrant() error = %v", err)
		}
		if g != nil {
			t.Errorf("FindUserGrant() after delete = %v, want nil", g)
		}

		if _, err := db.CreateUserGrant(ctx, target, b.ID); err != nil {
			t.Fatalf("CreateUserGrant() error = %v", err)
		}
		if _, err := db.CreateLinkGrant(ctx, target, "x", ""); err != nil {
			t.Fatalf("CreateLinkGrant() error = %v", err)
		}
		n, err := db.DeleteGrantsForTarget(ctx, target)
		if err != nil {
			t.Fatalf("DeleteGrantsForTarget() error = %v", err)
		}
		if n != 2 {
			t.Errorf("DeleteGrantsForTarget() = %d, want 2", n)
		}
	})

	t.Run("grants are scoped by target kind", func(t *testing.T) {
		db, targets, b := setup(t)
		if _, err := db.CreateUserGrant(ctx, targets[1], b.ID); err != nil {
			t.Fatalf("CreateUserGrant() error = %v", err)
		}
		// Media and collection ids can coincide; a collection grant must
		// not be visible as a media grant.
		other := aperture.MediaTarget(targets[1].ID)
		g, err := db.FindUserGrant(ctx, other, b.ID)
		if err != nil {
			t.Fatalf("FindUserGrant() error = %v", err)
		}
		if g != nil {
			t.Errorf("FindUserGrant(%s) = %v, want nil", other, g)
		}
	})
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	db := newTestDB(t)
	mustUser(t, db, "a@example.com")

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := db.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	backup, err := NewSQLiteDatabase(dest, fixedClock{})
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer backup.Close()

	u, err := backup.FindUserByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("FindUserByEmail() error = %v", err)
	}
	if u == nil {
		t.Error("backup is missing user")
	}
}

func TestSQLiteDatabase_CheckMigrations(t *testing.T) {
	t.Run("schema applied directly has no version", func(t *testing.T) {
		db := newTestDB(t)
		if err := db.CheckMigrations(); err == nil {
			t.Error("CheckMigrations() = nil, want error")
		}
	})

	t.Run("migrated database is current", func(t *testing.T) {
		db, err := NewSQLiteDatabase(":memory:", fixedClock{})
		if err != nil {
			t.Fatalf("NewSQLiteDatabase() error = %v", err)
		}
		defer db.Close()
		if err := db.MigrateUp(); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}
		if err := db.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() error = %v", err)
		}
	})
}
