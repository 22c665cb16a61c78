package social

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/safetweet/safetweet/internal/authhelp"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "  Ana@Example.COM ", testPassword)
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("email = %q, want normalised", u.Email)
	}

	p, err := f.svc.GetProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetProfile() failed: %v", err)
	}
	if p.Name != "User" || p.Bio != "Add a short bio..." || p.Username != "" {
		t.Fatalf("unexpected default profile: %+v", p)
	}

	if _, err := f.svc.Register(ctx, "ana@example.com", testPassword); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name, email, password string
	}{
		{"missing email", "", testPassword},
		{"not an address", "ana", testPassword},
		{"display name", "Ana <ana@example.com>", testPassword},
		{"no tld", "ana@localhost", testPassword},
		{"short password", "ana@example.com", "S1!a"},
		{"no symbol", "ana@example.com", "Secr3tpass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Register() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ana@example.com")

	got, err := f.svc.Authenticate(ctx, "ANA@example.com", testPassword)
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("Authenticate() returned %s, want %s", got.ID, u.ID)
	}

	if _, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password error = %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, "nobody@example.com", testPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email error = %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ana@example.com")

	if err := f.svc.ChangePassword(ctx, u.ID, "wrong", "N3w!password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password error = %v", err)
	}
	if err := f.svc.ChangePassword(ctx, u.ID, testPassword, "weak"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("weak new password error = %v", err)
	}
	if err := f.svc.ChangePassword(ctx, u.ID, testPassword, "N3w!password"); err != nil {
		t.Fatalf("ChangePassword() failed: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, "ana@example.com", "N3w!password"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	if err := f.svc.ResetPassword(ctx, "ana@example.com", "R3set!password"); err != nil {
		t.Fatalf("ResetPassword() failed: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, "ana@example.com", "R3set!password"); err != nil {
		t.Fatalf("reset password rejected: %v", err)
	}
	if err := f.svc.ResetPassword(ctx, "nobody@example.com", "R3set!password"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ResetPassword() for unknown email error = %v", err)
	}
}

func TestTwoFactorLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ana@example.com")

	secret, qr, err := f.svc.BeginTwoFactorSetup(ctx, u.ID)
	if err != nil {
		t.Fatalf("BeginTwoFactorSetup() failed: %v", err)
	}
	if secret == "" || qr == "" {
		t.Fatalf("setup returned empty secret or QR code")
	}

	if err := f.svc.EnableTwoFactor(ctx, u.ID, secret, "000000"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("EnableTwoFactor() with bad code error = %v", err)
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode() failed: %v", err)
	}
	if err := f.svc.EnableTwoFactor(ctx, u.ID, secret, code); err != nil {
		t.Fatalf("EnableTwoFactor() failed: %v", err)
	}

	got, err := f.svc.Authenticate(ctx, "ana@example.com", testPassword)
	if err != nil || !got.TwoFactorEnabled {
		t.Fatalf("Authenticate() = %+v, %v; want 2FA flagged", got, err)
	}
	if err := f.svc.VerifyTwoFactor(ctx, u.ID, code); err != nil {
		t.Fatalf("VerifyTwoFactor() failed: %v", err)
	}
	if err := f.svc.VerifyTwoFactor(ctx, u.ID, "123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("VerifyTwoFactor() with bad code error = %v", err)
	}

	if _, _, err := f.svc.BeginTwoFactorSetup(ctx, u.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second setup error = %v, want ErrInvalidInput", err)
	}

	if err := f.svc.DisableTwoFactor(ctx, u.ID, code); err != nil {
		t.Fatalf("DisableTwoFactor() failed: %v", err)
	}
	if got, _ := f.svc.GetUser(ctx, u.ID); got.TwoFactorEnabled {
		t.Fatalf("2FA still enabled after disable")
	}
}

func TestResetTwoFactor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ana@example.com")

	secret, _, _ := f.svc.BeginTwoFactorSetup(ctx, u.ID)
	code, _ := totp.GenerateCode(secret, time.Now())
	if err := f.svc.EnableTwoFactor(ctx, u.ID, secret, code); err != nil {
		t.Fatalf("EnableTwoFactor() failed: %v", err)
	}

	if err := f.svc.ResetTwoFactor(ctx, "ana@example.com"); err != nil {
		t.Fatalf("ResetTwoFactor() failed: %v", err)
	}
	if got, _ := f.svc.GetUser(ctx, u.ID); got.TwoFactorEnabled {
		t.Fatalf("2FA still enabled after reset")
	}
}

func TestTwoFactorSecretEncryptedAtRest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.SetSecretKey(authhelp.DeriveKey([]byte("0123456789abcdef0123456789abcdef"), "totp"))
	u := f.register(t, "ana@example.com")

	secret, _, err := f.svc.BeginTwoFactorSetup(ctx, u.ID)
	if err != nil {
		t.Fatalf("BeginTwoFactorSetup() failed: %v", err)
	}
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode() failed: %v", err)
	}
	if err := f.svc.EnableTwoFactor(ctx, u.ID, secret, code); err != nil {
		t.Fatalf("EnableTwoFactor() failed: %v", err)
	}

	stored, err := f.store.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if stored.TotpSecret.String == secret || !strings.HasPrefix(stored.TotpSecret.String, "v1:") {
		t.Fatalf("secret stored in plaintext: %q", stored.TotpSecret.String)
	}

	if err := f.svc.VerifyTwoFactor(ctx, u.ID, code); err != nil {
		t.Fatalf("VerifyTwoFactor() failed: %v", err)
	}
}
