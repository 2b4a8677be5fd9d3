package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"aperturama/internal/aperture"
	"aperturama/internal/config"
	"aperturama/internal/database"
	"aperturama/internal/encryption"
	"aperturama/internal/photo"
	"aperturama/internal/staging"
	"aperturama/internal/vault"
)

// App is the application layer between the CLI and aperture.Service.
// It constructs all dependencies from config, exposes operations that accept
// raw paths, and releases the database and log file on Close.
type App struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	vault     aperture.Vault
	staging   aperture.StagingArea
	encryptor aperture.Encryptor
	service   *aperture.Service
	clock     aperture.Clock
	logger    *slog.Logger
	op        *Operation
	logFile   *os.File
}

// Option customizes NewApp.
type Option func(*options)

type options struct {
	passphrase PassphraseFunc
	stderr     io.Writer
	clock      aperture.Clock
	idgen      aperture.IDGenerator
}

// WithPassphrase sets how the private key passphrase is obtained when an
// encrypted vault is first read. The default is ReadPassphrase.
func WithPassphrase(fn PassphraseFunc) Option {
	return func(o *options) { o.passphrase = fn }
}

// WithStderr mirrors log lines to w in addition to the log file. nil writes
// to the log file only.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithClock replaces the wall clock.
func WithClock(c aperture.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDGenerator replaces the staging key generator.
func WithIDGenerator(g aperture.IDGenerator) Option {
	return func(o *options) { o.idgen = g }
}

// NewApp creates a fully wired App from the given config.
// operation names the CLI command being run (e.g. "Ingest", "ShareLink").
// The database must already be migrated. The caller must call Close.
func NewApp(ctx context.Context, cfg *config.Config, operation string, opts ...Option) (*App, error) {
	o := options{
		passphrase: ReadPassphrase,
		stderr:     os.Stderr,
		clock:      aperture.RealClock{},
		idgen:      aperture.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logDir := cfg.LogDir
	if logDir == "" {
		logDir = filepath.Join(cfg.BaseDir, "log")
	}
	op := NewOperation(operation, o.clock.Now())
	logger, logFile, err := newLogger(logDir, op.ID, level, o.stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &App{cfg: cfg, clock: o.clock, logger: logger, op: op, logFile: logFile}
	if err := a.wire(ctx, o); err != nil {
		a.Close()
		return nil, err
	}

	logger.Debug("operation started", "op", operation)
	return a, nil
}

func (a *App) wire(ctx context.Context, o options) error {
	cfg := a.cfg
	if len(cfg.Vaults) == 0 {
		return fmt.Errorf("no vaults configured")
	}
	v, err := vault.NewVaultFromConfig(ctx, cfg.Vaults[0])
	if err != nil {
		return fmt.Errorf("creating vault: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc != nil {
		if !enc.IsConfigured() {
			return fmt.Errorf("encryption keys not found: run `aperturama config keys init`")
		}
		unlock := func() (aperture.DecryptionContext, error) {
			passphrase, err := o.passphrase("Passphrase: ")
			if err != nil {
				return nil, err
			}
			return enc.Unlock(passphrase)
		}
		v = vault.NewEncryptedVault(v, enc, unlock, cfg.Staging.StagingDir)
	}
	if err := v.ValidateSetup(ctx); err != nil {
		return fmt.Errorf("validating vault: %w", err)
	}
	a.vault = v
	a.encryptor = enc

	sa, err := staging.NewStagingAreaFromConfig(cfg.Staging, o.clock, o.idgen)
	if err != nil {
		return fmt.Errorf("creating staging area: %w", err)
	}
	a.staging = sa

	db, err := database.NewDatabaseFromConfig(cfg.Database, o.clock, false)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.db = db

	a.service = aperture.NewService(
		db,
		sa,
		v,
		photo.NewThumbnailer(cfg.Thumbnail),
		photo.ExifExtractor{},
		aperture.LinkPolicy{CodeBytes: cfg.Links.CodeBytes, BcryptCost: cfg.Links.BcryptCost},
		&slogAdapter{l: a.logger},
		o.clock,
	)
	return nil
}

// Service returns the wired service for operations that take no paths.
func (a *App) Service() *aperture.Service {
	return a.service
}

// Fail records err as the outcome of the operation and returns it.
func (a *App) Fail(err error) error {
	return a.op.Fail(err)
}

// BackupDatabase writes a consistent snapshot of the database to dest.
func (a *App) BackupDatabase(dest string) error {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if err := a.db.BackupTo(abs); err != nil {
		return a.Fail(err)
	}
	a.logger.Info("database backed up", "path", abs)
	return nil
}

// Close logs the outcome of the operation and closes all resources.
func (a *App) Close() error {
	var firstErr error

	if a.service != nil {
		a.logger.Info("operation finished", "op", a.op.Name, "status", a.op.Status, "elapsed", a.op.Elapsed(a.clock.Now()))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// MigrateDatabase opens the configured database and applies pending migrations.
func MigrateDatabase(cfg *config.Config) error {
	db, err := database.NewDatabaseFromConfig(cfg.Database, aperture.RealClock{}, true)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return db.Close()
}

// InitKeys generates the encryption key pair, protecting the private key
// with a passphrase obtained from read.
func InitKeys(cfg *config.Config, read PassphraseFunc) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc == nil {
		return fmt.Errorf("encryption is disabled: set [encryption] type in the config")
	}
	passphrase, err := NewPassphrase(read)
	if err != nil {
		return err
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("generating keys: %w", err)
	}
	return nil
}
