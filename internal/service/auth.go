// Package service contains the business logic for the Volta API.
// Services validate inputs, enforce ownership and run every operation inside
// one repo.Transactor unit of work. No SQL lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/ident"
	"github.com/voltatrips/volta/backend/internal/repo"
)

// AuthService registers users, checks credentials and resolves session identities.
type AuthService struct {
	tx     repo.Transactor
	ids    ident.Generator
	hasher PasswordHasher

	// dummyDigest is verified against when the email is unknown so that both
	// login failure paths cost one hash comparison.
	dummyDigest string
}

// NewAuthService constructs an AuthService. It panics if hasher cannot
// produce the placeholder digest, since Authenticate depends on it.
func NewAuthService(tx repo.Transactor, ids ident.Generator, hasher PasswordHasher) *AuthService {
	dummy, err := hasher.Hash("volta-placeholder-password")
	if err != nil {
		panic(fmt.Sprintf("service.NewAuthService: hash placeholder password: %v", err))
	}
	return &AuthService{tx: tx, ids: ids, hasher: hasher, dummyDigest: dummy}
}

// Register creates a user.
// Returns domain.ErrValidation if email or password is empty and
// domain.ErrConflict if the email is already registered.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return domain.User{}, err
	}

	var created domain.User
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		_, err := r.Users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return domain.ErrConflict
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		digest, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}

		created, err = r.Users.Create(ctx, domain.User{
			ID:             s.ids.NewID(),
			Email:          email,
			PasswordDigest: digest,
		})
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return created, nil
}

// Authenticate checks email and password.
// Unknown email and wrong password both return domain.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return domain.User{}, err
	}

	var user domain.User
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		user, err = r.Users.GetByEmail(ctx, email)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Verify(s.dummyDigest, password)
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}

	if !s.hasher.Verify(user.PasswordDigest, password) {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrUnauthorized)
	}
	return user, nil
}

// CurrentUser resolves a session identity to a user.
// Returns domain.ErrUnauthorized if userID is empty or no longer exists.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, fmt.Errorf("service.AuthService.CurrentUser: %w", domain.ErrUnauthorized)
	}

	var user domain.User
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		user, err = r.Users.GetByID(ctx, userID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.AuthService.CurrentUser: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.CurrentUser: %w", err)
	}
	return user, nil
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	return nil
}
