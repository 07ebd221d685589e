package service

import (
	"context"
	"errors"
	"strings"

	"medreport/internal/auth"
	dom "medreport/internal/domain"
	"medreport/internal/repo"
	"medreport/internal/utils"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidGoogleToken     = errors.New("google authentication failed")
	ErrWeakPassword           = errors.New("password too short")
	ErrMissingCurrentPassword = errors.New("current password required")
	ErrIncorrectPassword      = errors.New("current password incorrect")
	ErrEmailMismatch          = errors.New("google email does not match account email")
	ErrGoogleTaken            = errors.New("google account already linked to another user")
	ErrMissingFields          = errors.New("name, email and password required")
	ErrNotFound               = errors.New("user not found")
)

// AuthService orchestrates signup, login, Google sign-in and linking,
// password lifecycle and profile access.
type AuthService struct {
	repo       repo.UserRepo
	tokens     *auth.TokenManager
	google     auth.GoogleVerifier
	bcryptCost int
}

// NewAuthService returns a new AuthService.
func NewAuthService(r repo.UserRepo, tokens *auth.TokenManager, google auth.GoogleVerifier, bcryptCost int) *AuthService {
	return &AuthService{repo: r, tokens: tokens, google: google, bcryptCost: bcryptCost}
}

// Signup creates a password account. No token is issued; the client logs in
// afterwards.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (dom.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return dom.User{}, ErrMissingFields
	}
	if len(password) < auth.MinPasswordLength {
		return dom.User{}, ErrWeakPassword
	}

	// Pre-check is an optimization; the unique constraint on email is the
	// backstop for the check-then-insert race.
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return dom.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, name, email, &hash, nil)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Login checks email and password; returns a session token if valid.
// A Google-only account (no password set) fails the same way as a wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !u.HasPassword() {
		return "", ErrInvalidCredentials
	}
	if err := auth.CheckPassword(password, *u.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.ID)
}

// GoogleLogin verifies a Google ID token, then logs in the matching account,
// linking the Google id to it, or creates a passwordless account on first
// sign-in. The Google provider has verified ownership of the email, so an
// existing password account with that email is linked without further proof.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (string, error) {
	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		return "", ErrInvalidGoogleToken
	}
	// Emails are stored lowercase; canonicalize the assertion's email so a
	// mixed-case Google address matches the signup row for the same address.
	email := strings.ToLower(strings.TrimSpace(identity.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.repo.SetGoogleID(ctx, u.ID, identity.Sub); err != nil {
			if utils.IsPGUniqueViolation(err) {
				return "", ErrGoogleTaken
			}
			return "", err
		}
	case errors.Is(err, pgx.ErrNoRows):
		u, err = s.repo.Create(ctx, identity.Name, email, nil, &identity.Sub)
		if err != nil {
			if utils.IsPGUniqueViolation(err) {
				return "", ErrGoogleTaken
			}
			return "", err
		}
	default:
		return "", err
	}

	return s.tokens.Issue(u.ID)
}

// ConnectGoogle links a Google account to the authenticated user. The
// assertion's email must equal the account email, and the Google id must not
// already belong to a different account.
func (s *AuthService) ConnectGoogle(ctx context.Context, userID, credential string) error {
	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		return ErrInvalidGoogleToken
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !strings.EqualFold(u.Email, identity.Email) {
		return ErrEmailMismatch
	}

	holder, err := s.repo.GetByGoogleID(ctx, identity.Sub)
	if err == nil && holder.ID != u.ID {
		return ErrGoogleTaken
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err := s.repo.SetGoogleID(ctx, u.ID, identity.Sub); err != nil {
		if utils.IsPGUniqueViolation(err) {
			return ErrGoogleTaken
		}
		return err
	}
	return nil
}

// GetProfile returns the account for userID. The password hash never leaves
// the service.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateName replaces the display name. An empty value leaves the current
// name unchanged.
func (s *AuthService) UpdateName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if name == "" || name == u.Name {
		return nil
	}
	return s.repo.UpdateName(ctx, u.ID, name)
}

// SetOrChangePassword sets a first password on a Google-only account
// (currentPassword not required) or replaces an existing one
// (currentPassword must verify). Returns created=true on the first-password
// path so the caller can respond distinctly.
func (s *AuthService) SetOrChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (created bool, err error) {
	if len(newPassword) < auth.MinPasswordLength {
		return false, ErrWeakPassword
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}

	if u.HasPassword() {
		if currentPassword == "" {
			return false, ErrMissingCurrentPassword
		}
		if err := auth.CheckPassword(currentPassword, *u.PasswordHash); err != nil {
			return false, ErrIncorrectPassword
		}
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return false, err
	}
	if err := s.repo.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return false, err
	}
	return !u.HasPassword(), nil
}
