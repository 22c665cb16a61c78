package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/authhelp"
	"github.com/safetweet/safetweet/internal/database"
)

const maxEmailLength = 254

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > maxEmailLength {
		return "", invalidf("a valid email address is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", invalidf("a valid email address is required")
	}
	return email, nil
}

func checkPassword(password string) error {
	if err := authhelp.ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Register creates the account and its empty profile together.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	if err := checkPassword(password); err != nil {
		return User{}, err
	}

	hash, err := authhelp.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created database.User
	now := s.now()
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		u, err := q.CreateUser(ctx, database.CreateUserParams{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := q.EnsureProfile(ctx, database.EnsureProfileParams{
			UserID:    u.ID,
			Email:     u.Email,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		created = u
		return nil
	})
	if err != nil {
		return User{}, err
	}

	return toUser(created), nil
}

// Authenticate checks the password only. Callers must ask for the second
// factor when the returned user has it enabled.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !authhelp.CheckPasswordHash(u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return toUser(u), nil
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return User{}, err
	}
	return toUser(u), nil
}

func (s *Service) FindUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return toUser(u), nil
}

func (s *Service) loadUser(ctx context.Context, userID uuid.UUID) (database.User, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.User{}, ErrUserNotFound
		}
		return database.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

func (s *Service) VerifyTwoFactor(ctx context.Context, userID uuid.UUID, code string) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.TotpEnabled {
		return ErrInvalidCredentials
	}
	secret, err := s.totpSecret(u)
	if err != nil {
		return err
	}
	if !authhelp.ValidateTOTP(strings.TrimSpace(code), secret) {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) totpSecret(u database.User) (string, error) {
	secret, err := authhelp.OpenSecret(u.TotpSecret.String, s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to read 2FA secret for user %s: %w", u.ID, err)
	}
	return secret, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !authhelp.CheckPasswordHash(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, s.store, u.ID, next)
}

// ResetPassword sets a new password without the old one. Used by the admin CLI.
func (s *Service) ResetPassword(ctx context.Context, email, password string) error {
	u, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, s.store, u.ID, password)
}

func (s *Service) setPassword(ctx context.Context, q database.Querier, userID uuid.UUID, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	hash, err := authhelp.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := q.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{
		ID:           userID,
		PasswordHash: hash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// BeginTwoFactorSetup returns a fresh secret and its QR code as a base64 PNG.
// Nothing is stored until EnableTwoFactor confirms a code for that secret.
func (s *Service) BeginTwoFactorSetup(ctx context.Context, userID uuid.UUID) (string, string, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if u.TotpEnabled {
		return "", "", invalidf("two-factor authentication is already enabled")
	}

	key, err := authhelp.GenerateTOTP(u.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}
	qr, err := authhelp.GenerateQRCode(key)
	if err != nil {
		return "", "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return key.Secret(), qr, nil
}

func (s *Service) EnableTwoFactor(ctx context.Context, userID uuid.UUID, secret, code string) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.TotpEnabled {
		return invalidf("two-factor authentication is already enabled")
	}
	if secret == "" || !authhelp.ValidateTOTP(strings.TrimSpace(code), secret) {
		return invalidf("invalid verification code")
	}

	sealed, err := authhelp.SealSecret(secret, s.secretKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt 2FA secret: %w", err)
	}

	_, err = s.store.UpdateUserTOTP(ctx, database.UpdateUserTOTPParams{
		ID:          u.ID,
		TotpSecret:  sql.NullString{String: sealed, Valid: true},
		TotpEnabled: true,
	})
	if err != nil {
		return fmt.Errorf("failed to enable 2FA: %w", err)
	}
	return nil
}

func (s *Service) DisableTwoFactor(ctx context.Context, userID uuid.UUID, code string) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.TotpEnabled {
		return invalidf("two-factor authentication is not enabled")
	}
	secret, err := s.totpSecret(u)
	if err != nil {
		return err
	}
	if !authhelp.ValidateTOTP(strings.TrimSpace(code), secret) {
		return invalidf("invalid verification code")
	}
	return s.clearTwoFactor(ctx, u.ID)
}

// ResetTwoFactor turns 2FA off for an account without a code. Used by the admin CLI.
func (s *Service) ResetTwoFactor(ctx context.Context, email string) error {
	u, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.clearTwoFactor(ctx, u.ID)
}

func (s *Service) clearTwoFactor(ctx context.Context, userID uuid.UUID) error {
	_, err := s.store.UpdateUserTOTP(ctx, database.UpdateUserTOTPParams{
		ID:          userID,
		TotpSecret:  sql.NullString{},
		TotpEnabled: false,
	})
	if err != nil {
		return fmt.Errorf("failed to disable 2FA: %w", err)
	}
	return nil
}
