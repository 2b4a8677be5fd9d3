package aperture

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultLinkCodeBytes is the entropy of a generated share-link code.
const DefaultLinkCodeBytes = 32

// DefaultCollectionName is used when a collection is created without a name.
const DefaultCollectionName = "Untitled"

// LinkPolicy controls how share links are minted and protected.
type LinkPolicy struct {
	// CodeBytes is the number of random bytes in a generated code.
	CodeBytes int
	// BcryptCost is the cost used to hash link passwords.
	BcryptCost int
}

// DefaultLinkPolicy returns the production link policy.
func DefaultLinkPolicy() LinkPolicy {
	return LinkPolicy{CodeBytes: DefaultLinkCodeBytes, BcryptCost: bcrypt.DefaultCost}
}

// Service coordinates the store, staging area and vault. Every read or
// mutation of a media item or collection passes through ResolveAccess.
type Service struct {
	store       Store
	stagingArea StagingArea
	vault       Vault
	thumbnailer Thumbnailer
	extractor   MetadataExtractor
	links       LinkPolicy
	logger      Logger
	clock       Clock
	verifier    *LinkVerifier
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, stagingArea StagingArea, vault Vault, thumbnailer Thumbnailer, extractor MetadataExtractor, links LinkPolicy, logger Logger, clock Clock) *Service {
	if links.CodeBytes <= 0 {
		links.CodeBytes = DefaultLinkCodeBytes
	}
	if links.BcryptCost == 0 {
		links.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:       store,
		stagingArea: stagingArea,
		vault:       vault,
		thumbnailer: thumbnailer,
		extractor:   extractor,
		links:       links,
		logger:      logger,
		clock:       clock,
		verifier:    NewLinkVerifier(links.BcryptCost),
	}
}
