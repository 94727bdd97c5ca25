package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xgraupera/WanderWise/internal/auth"
	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// resetTokenTTL is how long a password-recovery token stays valid.
const resetTokenTTL = time.Hour

// AuthService implements registration, login, and password recovery.
// It is the identity provider the rest of the core trusts: a verified
// principal's email is the expense record-owner key.
type AuthService struct {
	users  repo.UserRepo
	tokens *auth.TokenManager
	sender Sender
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens *auth.TokenManager, sender Sender) *AuthService {
	return &AuthService{users: users, tokens: tokens, sender: sender}
}

// Register creates a new account. The email is lowercased before storage so
// logins are case-insensitive. Returns domain.ErrValidation when the email is
// malformed, the password is too short, or the email is already registered.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed session token with the
// authenticated user. Unknown emails and wrong passwords both map to
// domain.ErrInvalidCredentials so callers cannot probe which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
		}
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(domain.Principal{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return token, user, nil
}

// RequestPasswordReset stores a one-hour recovery token on the account and
// mails it to the user. An unknown email is silently accepted so the endpoint
// cannot be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}

	if err := s.users.SetResetToken(ctx, user.ID, token, time.Now().UTC().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}

	body := fmt.Sprintf("Use this code to reset your WanderWise password: %s\nIt expires in one hour.", token)
	if err := s.sender.Send(ctx, user.Email, "Password recovery", body); err != nil {
		return fmt.Errorf("service.AuthService.RequestPasswordReset: %w", err)
	}
	return nil
}

// ResetPassword consumes a recovery token and installs the new password.
// Returns domain.ErrValidation when the token is unknown or expired.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	user, err := s.users.GetByResetToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired recovery code", domain.ErrValidation)
		}
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("service.AuthService.ResetPassword: %w", err)
	}
	return nil
}

// randomToken returns 32 hex characters from a CSPRNG.
func randomToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
