// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safetweet/safetweet/internal/api"
	"github.com/safetweet/safetweet/internal/api/handlers"
	"github.com/safetweet/safetweet/internal/authhelp"
	"github.com/safetweet/safetweet/internal/config"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/linkpreview"
	"github.com/safetweet/safetweet/internal/realtime"
	"github.com/safetweet/safetweet/internal/social"
	"github.com/safetweet/safetweet/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		log.Fatalln(err)
	}
	defer db.Close()

	store := database.NewStore(db)
	hub := realtime.NewHub()

	var previewer social.Previewer
	if cfg.LinkPreviews {
		previewer = linkpreview.NewClient(cfg.LinkPreviewTimeout)
	}

	svc := social.NewService(store, hub, previewer, social.Limits{
		MaxPostLength:      cfg.MaxPostLength,
		MaxCommentLength:   cfg.MaxCommentLength,
		MaxMediaBytes:      cfg.MaxMediaBytes,
		FeedPageSize:       cfg.FeedPageSize,
		FeedCommentPreview: cfg.FeedCommentPreview,
	})
	svc.SetSecretKey(authhelp.DeriveKey(cfg.SessionSecret, "totp"))

	w := worker.NewWorker(store, cfg.NotificationRetention)
	w.Start(cfg.MaintenanceInterval)

	h := handlers.NewHandler(store, svc, hub, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	hub.Close()
	w.Stop()
	svc.Wait()
}
