package testutil

import (
	"io"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"aperturama/internal/aperture"
	"aperturama/internal/config"
	"aperturama/internal/database"
	"aperturama/internal/photo"
)

// Env is a fully wired service over in-memory backends.
type Env struct {
	Clock   *StubClock
	Store   *database.SQLiteDatabase
	Staging aperture.StagingArea
	Vault   *TestVault
	Logger  *RecordingLogger
	Service *aperture.Service
}

// EnvOption customises NewEnv.
type EnvOption func(*envOptions)

type envOptions struct {
	thumbnailer aperture.Thumbnailer
	extractor   aperture.MetadataExtractor
	stagingSize int64
}

// WithThumbnailer replaces the real thumbnailer.
func WithThumbnailer(th aperture.Thumbnailer) EnvOption {
	return func(o *envOptions) { o.thumbnailer = th }
}

// WithStagingSize caps the staging area.
func WithStagingSize(n int64) EnvOption {
	return func(o *envOptions) { o.stagingSize = n }
}

// NewEnv builds an Env. Link passwords use the minimum bcrypt cost.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	o := envOptions{
		thumbnailer: photo.NewThumbnailer(config.ThumbnailConfig{}),
		extractor:   photo.ExifExtractor{},
		stagingSize: DefaultStagingMaxSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	env := &Env{
		Clock:  FixedClock(),
		Vault:  NewTestVault(),
		Logger: NewRecordingLogger(),
	}
	env.Store = NewTestDatabase(t, env.Clock)
	env.Staging = NewTestStagingAreaWithSize(env.Clock, o.stagingSize)
	env.Service = aperture.NewService(
		env.Store,
		env.Staging,
		env.Vault,
		o.thumbnailer,
		o.extractor,
		aperture.LinkPolicy{CodeBytes: aperture.DefaultLinkCodeBytes, BcryptCost: bcrypt.MinCost},
		env.Logger,
		env.Clock,
	)
	return env
}

// User registers a user and returns its id.
func (e *Env) User(t *testing.T, email string) int64 {
	t.Helper()
	u, err := e.Service.RegisterUser(t.Context(), email)
	if err != nil {
		t.Fatalf("RegisterUser(%q) error = %v", email, err)
	}
	return u.ID
}

// Photo ingests a small JPEG owned by ownerID and returns the media id.
func (e *Env) Photo(t *testing.T, ownerID int64, filename string) int64 {
	t.Helper()
	id, err := e.Service.Ingest(t.Context(), ownerID, bytesReader(JPEG(t, 32, 24)), filename)
	if err != nil {
		t.Fatalf("Ingest(%q) error = %v", filename, err)
	}
	return id
}

// Collection creates a collection owned by ownerID and returns its id.
func (e *Env) Collection(t *testing.T, ownerID int64, name string) int64 {
	t.Helper()
	c, err := e.Service.CreateCollection(t.Context(), aperture.AuthenticatedUser(ownerID), name)
	if err != nil {
		t.Fatalf("CreateCollection(%q) error = %v", name, err)
	}
	return c.ID
}

// Advance moves the clock forward.
func (e *Env) Advance(d time.Duration) {
	e.Clock.Advance(d)
}

// ThumbnailerFunc adapts a function to aperture.Thumbnailer.
type ThumbnailerFunc func(r io.Reader) ([]byte, error)

func (f ThumbnailerFunc) Thumbnail(r io.Reader) ([]byte, error) { return f(r) }
