package aperture

import (
	"context"
	"fmt"
	"strings"

	"aperturama/internal/database/sqlc"
)

// RegisterUser creates a user with the given email.
// It fails with ErrUserExists when the email is taken.
func (s *Service) RegisterUser(ctx context.Context, email string) (*sqlc.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	u, err := s.store.CreateUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// FindUserByEmail returns the user registered under email, or nil.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*sqlc.User, error) {
	u, err := s.store.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return u, nil
}
