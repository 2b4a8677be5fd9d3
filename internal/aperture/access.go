package aperture

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// collectionFanout bounds concurrent collection checks for one media read.
const collectionFanout = 4

// Denial causes written to the audit log. Callers only ever see the public
// DenyReason.
const (
	causeAnonymous       = "anonymous"
	causeMissingTarget   = "missing_target"
	causeNotOwner        = "not_owner"
	causeNoGrant         = "no_grant"
	causeUnknownLinkCode = "unknown_link_code"
	causeBadPassword     = "bad_link_credential"
	causeNoCollection    = "no_collection_grant"
)

// ResolveAccess decides whether req may exercise capability on target.
//
// Own is allowed only for the authenticated owner. Read on a collection is
// allowed for the owner, a user grant recipient, or the holder of a valid
// link. Read on a media item additionally succeeds when any collection
// containing it is readable by the same rules, one level deep.
//
// Absence is folded into a denial. The returned error is non-nil only when
// the store fails. ResolveAccess performs no writes.
func (s *Service) ResolveAccess(ctx context.Context, req Requester, target Target, capability Capability) (Decision, error) {
	var (
		d     Decision
		cause string
		err   error
	)
	switch capability {
	case CapabilityOwn:
		d, cause, err = s.resolveOwn(ctx, req, target)
	case CapabilityRead:
		d, cause, err = s.resolveRead(ctx, req, target)
	default:
		return Decision{}, fmt.Errorf("unknown capability: %s", capability)
	}
	if err != nil {
		return Decision{}, fmt.Errorf("resolving %s access to %s: %w", capability, target, err)
	}

	if !d.Allowed {
		s.logger.Debug("access denied",
			"requester", req.String(),
			"target", target.String(),
			"capability", capability.String(),
			"reason", d.Reason.String(),
			"cause", cause,
		)
	}
	return d.public(), nil
}

// authorize resolves access and converts a denial into its sentinel error.
func (s *Service) authorize(ctx context.Context, req Requester, target Target, capability Capability) error {
	d, err := s.ResolveAccess(ctx, req, target, capability)
	if err != nil {
		return err
	}
	return d.Err()
}

func (s *Service) resolveOwn(ctx context.Context, req Requester, target Target) (Decision, string, error) {
	if !req.IsAuthenticated() {
		return Deny(ReasonNotOwner), causeAnonymous, nil
	}
	owner, found, err := s.targetOwner(ctx, target)
	if err != nil {
		return Decision{}, "", err
	}
	if !found {
		return Deny(ReasonNotOwner), causeMissingTarget, nil
	}
	if owner != req.UserID() {
		return Deny(ReasonNotOwner), causeNotOwner, nil
	}
	return Allow(), "", nil
}

func (s *Service) resolveRead(ctx context.Context, req Requester, target Target) (Decision, string, error) {
	owner, found, err := s.targetOwner(ctx, target)
	if err != nil {
		return Decision{}, "", err
	}
	if !found {
		s.padLink(req)
		return Deny(ReasonNotAuthorized), causeMissingTarget, nil
	}

	d, cause, err := s.readDirect(ctx, req, target, owner)
	if err != nil {
		return Decision{}, "", err
	}
	if d.Allowed || d.Reason == ReasonBadLinkCredential || target.Kind != TargetMedia {
		if cause == causeUnknownLinkCode {
			s.padLink(req)
		}
		return d, cause, nil
	}

	d, cause, err = s.readViaCollections(ctx, req, target.ID)
	if err != nil {
		return Decision{}, "", err
	}
	if cause == causeUnknownLinkCode {
		s.padLink(req)
	}
	return d, cause, nil
}

// readDirect applies the owner, user grant and link grant rules to a single
// target whose owner is already known.
func (s *Service) readDirect(ctx context.Context, req Requester, target Target, owner int64) (Decision, string, error) {
	if req.IsAuthenticated() {
		if req.UserID() == owner {
			return Allow(), "", nil
		}
		g, err := s.store.FindUserGrant(ctx, target, req.UserID())
		if err != nil {
			return Decision{}, "", fmt.Errorf("finding user grant: %w", err)
		}
		if g != nil {
			return Allow(), "", nil
		}
		return Deny(ReasonNotAuthorized), causeNoGrant, nil
	}

	link := req.Link()
	if link == nil || link.Code == "" {
		return Deny(ReasonNotAuthorized), causeAnonymous, nil
	}
	g, err := s.store.FindLinkGrant(ctx, target, link.Code)
	if err != nil {
		return Decision{}, "", fmt.Errorf("finding link grant: %w", err)
	}
	if g == nil {
		return Deny(ReasonNotAuthorized), causeUnknownLinkCode, nil
	}
	if !s.verifier.VerifyLink(link.Code, link.Password, g) {
		return Deny(ReasonBadLinkCredential), causeBadPassword, nil
	}
	return Allow(), "", nil
}

// readViaCollections allows reading a media item when any collection that
// contains it is directly readable. Collections never inherit further.
func (s *Service) readViaCollections(ctx context.Context, req Requester, mediaID int64) (Decision, string, error) {
	ids, err := s.store.ListCollectionsContainingMedia(ctx, mediaID)
	if err != nil {
		return Decision{}, "", fmt.Errorf("listing collections containing media: %w", err)
	}
	if len(ids) == 0 {
		return Deny(ReasonNotAuthorized), s.directCause(req), nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(collectionFanout)

	var (
		mu       sync.Mutex
		allowed  bool
		badCred  bool
		knownKey bool
	)
	for _, id := range ids {
		g.Go(func() error {
			c, err := s.store.FindCollectionByID(gctx, id)
			if err != nil {
				return fmt.Errorf("finding collection %d: %w", id, err)
			}
			if c == nil {
				// removed since the membership listing
				return nil
			}
			d, cause, err := s.readDirect(gctx, req, CollectionTarget(id), c.OwnerUserID)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case d.Allowed:
				allowed = true
				cancel()
			case d.Reason == ReasonBadLinkCredential:
				badCred = true
			case cause != causeUnknownLinkCode:
				knownKey = true
			}
			return nil
		})
	}
	err = g.Wait()

	// Another collection may have failed after access was already granted;
	// the grant stands.
	if allowed {
		return Allow(), "", nil
	}
	if err != nil {
		return Decision{}, "", err
	}
	if badCred {
		return Deny(ReasonBadLinkCredential), causeBadPassword, nil
	}
	if req.Link() != nil && !knownKey {
		return Deny(ReasonNotAuthorized), causeUnknownLinkCode, nil
	}
	return Deny(ReasonNotAuthorized), causeNoCollection, nil
}

func (s *Service) directCause(req Requester) string {
	switch {
	case req.IsAuthenticated():
		return causeNoGrant
	case req.Link() != nil && req.Link().Code != "":
		return causeUnknownLinkCode
	default:
		return causeAnonymous
	}
}

// padLink spends one password comparison for a link requester whose code
// matched nothing, so that response time does not reveal which codes exist.
func (s *Service) padLink(req Requester) {
	if link := req.Link(); link != nil && link.Code != "" {
		s.verifier.VerifyLink(link.Code, link.Password, nil)
	}
}

// targetOwner returns the owner of target and whether it exists.
func (s *Service) targetOwner(ctx context.Context, target Target) (int64, bool, error) {
	switch target.Kind {
	case TargetMedia:
		m, err := s.store.FindMediaByID(ctx, target.ID)
		if err != nil {
			return 0, false, fmt.Errorf("finding media: %w", err)
		}
		if m == nil {
			return 0, false, nil
		}
		return m.OwnerUserID, true, nil
	case TargetCollection:
		c, err := s.store.FindCollectionByID(ctx, target.ID)
		if err != nil {
			return 0, false, fmt.Errorf("finding collection: %w", err)
		}
		if c == nil {
			return 0, false, nil
		}
		return c.OwnerUserID, true, nil
	default:
		return 0, false, fmt.Errorf("unknown target kind: %s", target.Kind)
	}
}
