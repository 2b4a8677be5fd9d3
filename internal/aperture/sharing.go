package aperture

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ShareWithUser grants the user registered under email read access to
// target. Sharing twice with the same user succeeds and leaves one grant.
func (s *Service) ShareWithUser(ctx context.Context, req Requester, target Target, email string) (*Grant, error) {
	if err := s.authorize(ctx, req, target, CapabilityOwn); err != nil {
		return nil, err
	}
	recipient, err := s.store.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("finding recipient: %w", err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, email)
	}

	g, err := s.store.CreateUserGrant(ctx, target, recipient.ID)
	switch {
	case errors.Is(err, ErrDuplicateGrant):
		s.logger.Debug("user grant already exists", "target", target.String(), "recipient", recipient.ID)
		return g, nil
	case err != nil:
		return nil, fmt.Errorf("creating user grant: %w", err)
	}

	s.logger.Info("shared with user", "target", target.String(), "recipient", recipient.ID)
	return g, nil
}

// UnshareUser revokes the user grant held by the user registered under
// email. Revoking a grant that does not exist succeeds.
func (s *Service) UnshareUser(ctx context.Context, req Requester, target Target, email string) error {
	if err := s.authorize(ctx, req, target, CapabilityOwn); err != nil {
		return err
	}
	recipient, err := s.store.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("finding recipient: %w", err)
	}
	if recipient == nil {
		return nil
	}
	if err := s.store.DeleteUserGrant(ctx, target, recipient.ID); err != nil {
		return fmt.Errorf("deleting user grant: %w", err)
	}
	return nil
}

// ShareLink creates a link grant on target. An empty code is replaced with a
// freshly generated one. A non-empty password protects the link and is
// stored hashed.
func (s *Service) ShareLink(ctx context.Context, req Requester, target Target, code, password string) (*Grant, error) {
	if err := s.authorize(ctx, req, target, CapabilityOwn); err != nil {
		return nil, err
	}
	if code == "" {
		var err error
		if code, err = NewLinkCode(s.links.CodeBytes); err != nil {
			return nil, err
		}
	}
	hash, err := HashLinkPassword(password, s.links.BcryptCost)
	if err != nil {
		return nil, err
	}

	g, err := s.store.CreateLinkGrant(ctx, target, code, hash)
	if err != nil {
		return nil, fmt.Errorf("creating link grant: %w", err)
	}

	s.logger.Info("shared by link", "target", target.String(), "grant_id", g.ID, "password", g.HasPassword())
	return g, nil
}

// UnshareLink revokes the link grant with the given code.
func (s *Service) UnshareLink(ctx context.Context, req Requester, target Target, code string) error {
	if err := s.authorize(ctx, req, target, CapabilityOwn); err != nil {
		return err
	}
	if err := s.store.DeleteLinkGrant(ctx, target, code); err != nil {
		return fmt.Errorf("deleting link grant: %w", err)
	}
	return nil
}

// UnshareAll revokes every grant on target and returns how many were removed.
func (s *Service) UnshareAll(ctx context.Context, req Requester, target Target) (int64, error) {
	if err := s.authorize(ctx, req, target, CapabilityOwn); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteGrantsForTarget(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("deleting grants: %w", err)
	}
	s.logger.Info("unshared", "target", target.String(), "grants", n)
	return n, nil
}

// ListGrants returns the grants on a target owned by req.
func (s *Service) ListGrants(ctx context.Context, req Requester, target Target) ([]*Grant, error) {
	if err := s.authorize(ctx, req, target, CapabilityOwn); err != nil {
		return nil, err
	}
	grants, err := s.store.ListGrantsForTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}
	return grants, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
