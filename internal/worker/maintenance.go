package worker

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log"
	"time"
)

type Report struct {
	LikeCountsRepaired   int64
	NotificationsDeleted int64
	ResetsDeleted        int64
	Errors               []error
}

func backoffWithJitter(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	delay := baseDelay * (1 << attempt)
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}
	if delay <= 0 {
		return 0
	}

	var b [8]byte
	_, _ = rand.Read(b[:])
	jitter := time.Duration(binary.LittleEndian.Uint64(b[:]) % uint64(delay))

	return jitter
}

func (w *Worker) runJobs(ctx context.Context) Report {
	log.Println("Worker: Starting maintenance...")
	var report Report

	n, err := w.withRetry(ctx, "like count reconciliation", w.Store.ReconcileLikeCounts)
	if err != nil {
		report.Errors = append(report.Errors, err)
	}
	report.LikeCountsRepaired = n
	if n > 0 {
		log.Printf("Worker: Repaired like counters on %d posts", n)
	}

	if w.Retention > 0 {
		cutoff := w.now().UTC().Add(-w.Retention)
		n, err = w.withRetry(ctx, "notification cleanup", func(ctx context.Context) (int64, error) {
			return w.Store.DeleteReadNotificationsBefore(ctx, cutoff)
		})
		if err != nil {
			report.Errors = append(report.Errors, err)
		}
		report.NotificationsDeleted = n
		if n > 0 {
			log.Printf("Worker: Deleted %d read notifications older than %v", n, w.Retention)
		}
	}

	now := w.now().UTC()
	n, err = w.withRetry(ctx, "password reset cleanup", func(ctx context.Context) (int64, error) {
		return w.Store.DeleteExpiredPasswordResets(ctx, now)
	})
	if err != nil {
		report.Errors = append(report.Errors, err)
	}
	report.ResetsDeleted = n
	if n > 0 {
		log.Printf("Worker: Deleted %d expired password reset tokens", n)
	}

	log.Println("Worker: Maintenance finished")
	return report
}

func (w *Worker) withRetry(ctx context.Context, job string, fn func(context.Context) (int64, error)) (int64, error) {
	for attempt := 0; ; attempt++ {
		isLastRetry := attempt == w.maxRetries

		n, err := func() (n int64, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker Panic in %s (attempt=%d): %v", job, attempt+1, r)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return fn(ctx)
		}()

		if err == nil {
			return n, nil
		}
		if isLastRetry {
			log.Printf("Worker %s FAILED after %d attempts: %v", job, attempt+1, err)
			return 0, fmt.Errorf("%s: %w", job, err)
		}

		delay := backoffWithJitter(attempt, w.baseDelay, w.maxDelay)
		log.Printf("Worker %s error (attempt=%d). Retrying in %s: %v", job, attempt+1, delay, err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, fmt.Errorf("%s: %w", job, ctx.Err())
		}
	}
}
