package aperture_test

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"io"
	"testing"

	"aperturama/internal/aperture"
	"aperturama/internal/testutil"
)

func TestService_MediaReads(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	alice := env.User(t, "alice@example.com")
	bob := env.User(t, "bob@example.com")
	owner := aperture.AuthenticatedUser(alice)
	data := testutil.JPEG(t, 50, 40)

	id, err := env.Service.Ingest(ctx, alice, bytes.NewReader(data), "pic.jpeg")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	t.Run("owner reads original and thumbnail", func(t *testing.T) {
		m, rc, err := env.Service.OpenOriginal(ctx, owner, id)
		if err != nil {
			t.Fatalf("OpenOriginal() error = %v", err)
		}
		got, _ := io.ReadAll(rc)
		rc.Close()
		if m.Filename != "pic.jpeg" || !bytes.Equal(got, data) {
			t.Errorf("OpenOriginal() = %q with %d bytes", m.Filename, len(got))
		}

		rc, err = env.Service.OpenThumbnail(ctx, owner, id)
		if err != nil {
			t.Fatalf("OpenThumbnail() error = %v", err)
		}
		defer rc.Close()
		cfg, err := jpeg.DecodeConfig(rc)
		if err != nil {
			t.Fatalf("thumbnail is not a JPEG: %v", err)
		}
		if cfg.Width != 256 || cfg.Height != 256 {
			t.Errorf("thumbnail is %dx%d, want 256x256", cfg.Width, cfg.Height)
		}
	})

	t.Run("others are denied", func(t *testing.T) {
		if _, err := env.Service.GetMedia(ctx, aperture.AuthenticatedUser(bob), id); !errors.Is(err, aperture.ErrNotAuthorized) {
			t.Errorf("GetMedia() error = %v, want ErrNotAuthorized", err)
		}
		if _, err := env.Service.OpenThumbnail(ctx, aperture.AnonymousLink("guess", ""), id); !errors.Is(err, aperture.ErrNotAuthorized) {
			t.Errorf("OpenThumbnail() error = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("missing artifact is incomplete media", func(t *testing.T) {
		env.Vault.Remove(aperture.ThumbnailName(id))

		_, err := env.Service.OpenThumbnail(ctx, owner, id)
		if !errors.Is(err, aperture.ErrIncompleteMedia) {
			t.Fatalf("OpenThumbnail() error = %v, want ErrIncompleteMedia", err)
		}
		var ime *aperture.IncompleteMediaError
		if !errors.As(err, &ime) || ime.MediaID != id {
			t.Errorf("error = %#v, want IncompleteMediaError for media %d", err, id)
		}
		if errors.Is(err, aperture.ErrNotAuthorized) {
			t.Error("incomplete media reported as not authorized")
		}
	})
}

func TestService_DeleteMedia(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	alice := env.User(t, "alice@example.com")
	bob := env.User(t, "bob@example.com")
	owner := aperture.AuthenticatedUser(alice)
	id := env.Photo(t, alice, "doomed.png")
	coll := env.Collection(t, alice, "Album")
	if _, err := env.Service.AddToCollection(ctx, owner, coll, id); err != nil {
		t.Fatalf("AddToCollection() error = %v", err)
	}

	if err := env.Service.DeleteMedia(ctx, aperture.AuthenticatedUser(bob), id); !errors.Is(err, aperture.ErrNotOwner) {
		t.Fatalf("DeleteMedia() by non-owner error = %v, want ErrNotOwner", err)
	}
	if err := env.Service.DeleteMedia(ctx, owner, id); err != nil {
		t.Fatalf("DeleteMedia() error = %v", err)
	}
	if err := env.Service.DeleteMedia(ctx, owner, id); err != nil {
		t.Errorf("repeated DeleteMedia() error = %v", err)
	}
	if err := env.Service.DeleteMedia(ctx, aperture.AnonymousLink("no-such-code", ""), id); !errors.Is(err, aperture.ErrNotOwner) {
		t.Errorf("DeleteMedia() by link holder error = %v, want ErrNotOwner", err)
	}

	if env.Vault.Len() != 0 {
		t.Errorf("%d artifacts remain", env.Vault.Len())
	}
	if m, _ := env.Store.FindMediaByID(ctx, id); m != nil {
		t.Error("media row remains")
	}
	view, err := env.Service.GetCollection(ctx, owner, coll)
	if err != nil {
		t.Fatalf("GetCollection() error = %v", err)
	}
	if len(view.MediaIDs) != 0 {
		t.Errorf("collection still lists %v", view.MediaIDs)
	}
}

func TestService_ListMedia(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	alice := env.User(t, "alice@example.com")
	bob := env.User(t, "bob@example.com")
	env.Photo(t, alice, "1.jpg")
	env.Photo(t, alice, "2.jpg")
	env.Photo(t, bob, "3.jpg")

	tests := []struct {
		name    string
		req     aperture.Requester
		want    int
		wantErr error
	}{
		{name: "alice", req: aperture.AuthenticatedUser(alice), want: 2},
		{name: "bob", req: aperture.AuthenticatedUser(bob), want: 1},
		{name: "anonymous", req: aperture.AnonymousLink("x", ""), wantErr: aperture.ErrNotAuthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media, err := env.Service.ListMedia(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ListMedia() error = %v, want %v", err, tt.wantErr)
			}
			if len(media) != tt.want {
				t.Errorf("ListMedia() returned %d items, want %d", len(media), tt.want)
			}
		})
	}
}
