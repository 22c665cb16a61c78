// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/safetweet/safetweet/internal/authhelp"
	"github.com/safetweet/safetweet/internal/cli"
	"github.com/safetweet/safetweet/internal/config"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/social"
	"github.com/safetweet/safetweet/internal/worker"
)

func main() {
	resetPassword := flag.Bool("reset-password", false, "set a new password for --email")
	reset2FA := flag.Bool("reset-2fa", false, "disable two-factor authentication for --email")
	maintenance := flag.Bool("maintenance", false, "run the maintenance jobs once and exit")
	email := flag.String("email", "", "account email")
	flag.Parse()

	if !*resetPassword && !*reset2FA && !*maintenance {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	store := database.NewStore(db)
	svc := social.NewService(store, nil, nil, social.Limits{MaxMediaBytes: cfg.MaxMediaBytes})
	svc.SetSecretKey(authhelp.DeriveKey(cfg.SessionSecret, "totp"))
	ctx := context.Background()

	switch {
	case *resetPassword:
		err = cli.HandleResetPassword(ctx, svc, *email, cli.TerminalPassword(os.Stdout), os.Stdout)
	case *reset2FA:
		err = cli.HandleReset2FA(ctx, svc, *email, os.Stdout)
	case *maintenance:
		err = cli.HandleMaintenance(ctx, worker.NewWorker(store, cfg.NotificationRetention), os.Stdout)
	}
	db.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
