// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/safetweet/safetweet/internal/social"
	"github.com/safetweet/safetweet/internal/worker"
	"golang.org/x/term"
)

// PasswordReader prompts for a secret without echoing it.
type PasswordReader func(prompt string) (string, error)

func TerminalPassword(out io.Writer) PasswordReader {
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(bytePassword), nil
	}
}

func HandleResetPassword(ctx context.Context, svc *social.Service, email string, readPassword PasswordReader, out io.Writer) error {
	if email == "" {
		return errors.New("--email is required")
	}
	if _, err := svc.FindUserByEmail(ctx, email); err != nil {
		if errors.Is(err, social.ErrUserNotFound) {
			return fmt.Errorf("user '%s' not found", email)
		}
		return err
	}

	password, err := readPassword(fmt.Sprintf("Enter new password for '%s': ", email))
	if err != nil {
		return err
	}
	confirm, err := readPassword("Repeat the new password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	if err := svc.ResetPassword(ctx, email, password); err != nil {
		if errors.Is(err, social.ErrUserNotFound) {
			return fmt.Errorf("user '%s' not found", email)
		}
		return err
	}

	fmt.Fprintln(out, "Password updated successfully.")
	return nil
}

func HandleReset2FA(ctx context.Context, svc *social.Service, email string, out io.Writer) error {
	if email == "" {
		return errors.New("--email is required")
	}

	fmt.Fprintf(out, "Resetting 2FA for user '%s'...\n", email)

	if err := svc.ResetTwoFactor(ctx, email); err != nil {
		if errors.Is(err, social.ErrUserNotFound) {
			return fmt.Errorf("user '%s' not found", email)
		}
		return fmt.Errorf("failed to reset 2FA: %w", err)
	}

	fmt.Fprintf(out, "2FA successfully disabled for user '%s'\n", email)
	return nil
}

func HandleMaintenance(ctx context.Context, w *worker.Worker, out io.Writer) error {
	report, ran := w.RunMaintenance(ctx)
	if !ran {
		return errors.New("maintenance already running")
	}

	fmt.Fprintf(out, "Like counters repaired: %d\n", report.LikeCountsRepaired)
	fmt.Fprintf(out, "Read notifications deleted: %d\n", report.NotificationsDeleted)
	fmt.Fprintf(out, "Expired password resets deleted: %d\n", report.ResetsDeleted)
	if len(report.Errors) > 0 {
		return errors.Join(report.Errors...)
	}
	return nil
}
