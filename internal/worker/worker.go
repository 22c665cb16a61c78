package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// Store is the part of the database the maintenance jobs touch.
type Store interface {
	ReconcileLikeCounts(ctx context.Context) (int64, error)
	DeleteReadNotificationsBefore(ctx context.Context, createdAt time.Time) (int64, error)
	DeleteExpiredPasswordResets(ctx context.Context, expiresAt time.Time) (int64, error)
}

type Worker struct {
	Store     Store
	Retention time.Duration
	Ticker    *time.Ticker
	StopChan  chan bool
	mu        sync.Mutex
	running   bool
	active    bool

	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	now        func() time.Time
}

func NewWorker(store Store, retention time.Duration) *Worker {
	return &Worker{
		Store:      store,
		Retention:  retention,
		StopChan:   make(chan bool),
		maxRetries: 5,
		baseDelay:  10 * time.Second,
		maxDelay:   15 * time.Minute,
		now:        time.Now,
	}
}

func (w *Worker) Start(interval time.Duration) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler already active, use Restart to change interval")
		return
	}
	w.active = true
	w.mu.Unlock()

	w.Ticker = time.NewTicker(interval)
	go func() {
		defer func() {
			w.mu.Lock()
			w.active = false
			w.mu.Unlock()
		}()
		for {
			select {
			case <-w.Ticker.C:
				w.RunMaintenance(context.Background())
			case <-w.StopChan:
				w.Ticker.Stop()
				return
			}
		}
	}()
	log.Printf("Background worker started with interval: %v", interval)
}

func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler not active")
		return
	}
	w.mu.Unlock()

	w.StopChan <- true
	log.Println("Background worker stopped")
}

func (w *Worker) Restart(interval time.Duration) {
	w.mu.Lock()
	isActive := w.active
	w.mu.Unlock()

	if isActive {
		w.Stop()
		time.Sleep(100 * time.Millisecond)
	}
	w.Start(interval)
}

func (w *Worker) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// RunMaintenance runs every job once. It returns false without doing
// anything when another run is still in progress.
func (w *Worker) RunMaintenance(ctx context.Context) (Report, bool) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		log.Println("Worker: Maintenance already in progress, skipping...")
		return Report{}, false
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	return w.runJobs(ctx), true
}
