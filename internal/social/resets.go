package social

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
)

const (
	passwordResetTTL   = time.Hour
	resetTokenByteSize = 32
)

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenByteSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RequestPasswordReset mails a single-use token to the account owner. Unknown
// addresses succeed silently so the endpoint does not reveal which accounts exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	u, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := s.now()
	if _, err := s.store.CreatePasswordReset(ctx, database.CreatePasswordResetParams{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: now.Add(passwordResetTTL),
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, u.Email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password using a token from RequestPasswordReset.
// The token is consumed and any other outstanding tokens for the account are dropped.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidResetToken
	}
	if err := checkPassword(password); err != nil {
		return err
	}

	now := s.now()
	return s.store.ExecTx(ctx, func(q database.Querier) error {
		reset, err := q.GetPasswordResetByTokenHash(ctx, hashResetToken(token))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvalidResetToken
			}
			return fmt.Errorf("failed to load reset token: %w", err)
		}
		if reset.UsedAt.Valid || !now.Before(reset.ExpiresAt) {
			return ErrInvalidResetToken
		}

		n, err := q.UsePasswordReset(ctx, database.UsePasswordResetParams{
			ID:     reset.ID,
			UsedAt: sql.NullTime{Time: now, Valid: true},
		})
		if err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}
		if n == 0 {
			return ErrInvalidResetToken
		}

		if err := s.setPassword(ctx, q, reset.UserID, password); err != nil {
			return err
		}
		if err := q.DeleteUnusedPasswordResets(ctx, reset.UserID); err != nil {
			return fmt.Errorf("failed to clear reset tokens: %w", err)
		}
		return nil
	})
}
