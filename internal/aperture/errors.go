package aperture

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthorized is returned when no access rule matched.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotOwner is returned when an owner-only operation is attempted by
	// someone other than the owner.
	ErrNotOwner = errors.New("not owner")

	// ErrDuplicateGrant is returned by Store.CreateUserGrant when the
	// recipient already holds a grant on the target. The service folds it
	// into success.
	ErrDuplicateGrant = errors.New("duplicate grant")

	// ErrLinkCodeTaken is returned when a link code is already in use.
	ErrLinkCodeTaken = errors.New("link code already in use")

	// ErrInvalidGrant is returned when a grant would be neither a user grant
	// nor a link grant, or both.
	ErrInvalidGrant = errors.New("invalid grant")

	// ErrUnknownUser is returned when a grant recipient or media owner does
	// not exist.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrIngestFailure marks a failed ingest that left no partial state.
	// Retrying is safe.
	ErrIngestFailure = errors.New("ingest failed")

	// ErrIncompleteMedia marks a media row whose original or thumbnail is
	// missing. It is a server-side fault, not "not found".
	ErrIncompleteMedia = errors.New("incomplete media")

	// ErrArtifactNotFound is returned by vaults when an artifact is absent.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// Ingest pipeline stages, used in errors and logs.
const (
	StageValidate  = "validate"
	StageBuffer    = "buffer"
	StagePersist   = "persist"
	StageThumbnail = "thumbnail"
	StageCommit    = "commit"
)

// IngestError reports a failure before the metadata commit point, or a
// later failure whose cleanup succeeded. No media row remains.
type IngestError struct {
	Stage string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest failed at %s: %v", e.Stage, e.Err)
}

func (e *IngestError) Unwrap() []error { return []error{ErrIngestFailure, e.Err} }

// IncompleteMediaError reports a media row whose artifacts are missing.
type IncompleteMediaError struct {
	MediaID int64
	Op      string
	Err     error
}

func (e *IncompleteMediaError) Error() string {
	return fmt.Sprintf("media %d is incomplete (%s): %v", e.MediaID, e.Op, e.Err)
}

func (e *IncompleteMediaError) Unwrap() []error { return []error{ErrIncompleteMedia, e.Err} }
