package aperture

import (
	"database/sql"
	"fmt"
	"time"
)

// TargetKind identifies which relation a Target refers to.
type TargetKind int

const (
	TargetMedia TargetKind = iota + 1
	TargetCollection
)

func (k TargetKind) String() string {
	switch k {
	case TargetMedia:
		return "media"
	case TargetCollection:
		return "collection"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is the unit an ownership or grant check applies to: a media item or
// a collection. Resolver and store consume it generically; only the store
// knows that the two kinds live in separate tables.
type Target struct {
	Kind TargetKind
	ID   int64
}

// MediaTarget returns the Target for a media item.
func MediaTarget(id int64) Target { return Target{Kind: TargetMedia, ID: id} }

// CollectionTarget returns the Target for a collection.
func CollectionTarget(id int64) Target { return Target{Kind: TargetCollection, ID: id} }

func (t Target) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.ID)
}

// LinkCredential is what an anonymous holder of a share link presents.
// An empty Password means no password was presented.
type LinkCredential struct {
	Code     string
	Password string
}

// Requester is the already-resolved identity behind a request: either an
// authenticated user or an anonymous principal carrying a link credential.
// It is always passed explicitly; nothing in this package reads a "current user".
type Requester struct {
	userID int64
	link   *LinkCredential
}

// AuthenticatedUser returns a Requester for the user with the given id.
func AuthenticatedUser(userID int64) Requester {
	return Requester{userID: userID}
}

// AnonymousLink returns an anonymous Requester presenting a link code and an
// optional password.
func AnonymousLink(code, password string) Requester {
	return Requester{link: &LinkCredential{Code: code, Password: password}}
}

// IsAuthenticated reports whether the requester is a signed-in user.
func (r Requester) IsAuthenticated() bool { return r.userID > 0 }

// UserID returns the authenticated user id, or 0 for anonymous requesters.
func (r Requester) UserID() int64 { return r.userID }

// Link returns the presented link credential, or nil.
func (r Requester) Link() *LinkCredential { return r.link }

// String never includes the link code or password.
func (r Requester) String() string {
	switch {
	case r.IsAuthenticated():
		return fmt.Sprintf("user:%d", r.userID)
	case r.link != nil:
		return "link"
	default:
		return "anonymous"
	}
}

// Capability is the kind of access being checked.
type Capability int

const (
	// CapabilityRead covers viewing metadata, content and thumbnails.
	CapabilityRead Capability = iota + 1
	// CapabilityOwn covers owner-only mutation: rename, delete, grant
	// management and membership edits.
	CapabilityOwn
)

func (c Capability) String() string {
	switch c {
	case CapabilityRead:
		return "read"
	case CapabilityOwn:
		return "own"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// DenyReason explains a denial.
type DenyReason int

const (
	ReasonNone DenyReason = iota
	// ReasonNotAuthorized: no access rule matched. Returned identically
	// whether the target is absent, unshared, or the credential is wrong.
	ReasonNotAuthorized
	// ReasonNotOwner: an Own check by someone other than the owner.
	ReasonNotOwner
	// ReasonBadLinkCredential: a link code matched but the password did not.
	// Audit only; callers receive ReasonNotAuthorized.
	ReasonBadLinkCredential
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotAuthorized:
		return "not_authorized"
	case ReasonNotOwner:
		return "not_owner"
	case ReasonBadLinkCredential:
		return "bad_link_credential"
	default:
		return fmt.Sprintf("DenyReason(%d)", int(r))
	}
}

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow returns an allowing Decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denying Decision with the given reason.
func Deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Err converts a denial into its sentinel error. It returns nil for Allow.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonNotOwner {
		return ErrNotOwner
	}
	return ErrNotAuthorized
}

// public folds audit-only reasons into what callers are allowed to see.
func (d Decision) public() Decision {
	if !d.Allowed && d.Reason == ReasonBadLinkCredential {
		return Deny(ReasonNotAuthorized)
	}
	return d
}

// Grant authorizes either one user or one link to read a Target.
// Exactly one of RecipientUserID and LinkCode is valid.
type Grant struct {
	ID              int64
	Target          Target
	RecipientUserID sql.NullInt64
	LinkCode        sql.NullString
	PasswordHash    sql.NullString
	CreatedAt       time.Time
}

// IsUserGrant reports whether the grant names a recipient user.
func (g *Grant) IsUserGrant() bool { return g.RecipientUserID.Valid }

// IsLinkGrant reports whether the grant is a share link.
func (g *Grant) IsLinkGrant() bool { return g.LinkCode.Valid }

// HasPassword reports whether a link grant is password protected.
func (g *Grant) HasPassword() bool { return g.PasswordHash.Valid }
