// Package social holds the feed, profile, comment, like and notification
// rules. Handlers call into Service; Service talks to the database through
// Store and announces committed changes through Publisher.
package social

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safetweet/safetweet/internal/database"
	"github.com/safetweet/safetweet/internal/linkpreview"
	"github.com/safetweet/safetweet/internal/realtime"
)

const (
	defaultDisplayName = "User"
	defaultBio         = "Add a short bio..."

	maxPageSize         = 100
	maxSearchResults    = 50
	maxNotificationPage = 200
	previewFetchTimeout = 15 * time.Second
)

type Store interface {
	database.Querier
	ExecTx(ctx context.Context, fn func(database.Querier) error) error
}

// Publisher fans events out to connected clients. *realtime.Hub satisfies it.
type Publisher interface {
	Publish(ev realtime.Event, userIDs ...uuid.UUID)
	Broadcast(ev realtime.Event)
}

type Previewer interface {
	Fetch(ctx context.Context, rawURL string) (linkpreview.Preview, error)
}

type Limits struct {
	MaxPostLength      int
	MaxCommentLength   int
	MaxMediaBytes      int
	FeedPageSize       int
	FeedCommentPreview int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPostLength:      280,
		MaxCommentLength:   500,
		MaxMediaBytes:      10 << 20,
		FeedPageSize:       20,
		FeedCommentPreview: 3,
	}
}

type Service struct {
	store     Store
	publisher Publisher
	previewer Previewer
	limits    Limits
	secretKey []byte
	mailer    Mailer

	now      func() time.Time
	inflight sync.WaitGroup
}

// NewService wires the domain layer. publisher and previewer may be nil:
// events are then dropped and link previews disabled.
func NewService(store Store, publisher Publisher, previewer Previewer, limits Limits) *Service {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	def := DefaultLimits()
	if limits.MaxPostLength <= 0 {
		limits.MaxPostLength = def.MaxPostLength
	}
	if limits.MaxCommentLength <= 0 {
		limits.MaxCommentLength = def.MaxCommentLength
	}
	if limits.MaxMediaBytes <= 0 {
		limits.MaxMediaBytes = def.MaxMediaBytes
	}
	if limits.FeedPageSize <= 0 {
		limits.FeedPageSize = def.FeedPageSize
	}
	if limits.FeedPageSize > maxPageSize {
		limits.FeedPageSize = maxPageSize
	}
	if limits.FeedCommentPreview < 0 {
		limits.FeedCommentPreview = 0
	}

	return &Service{
		store:     store,
		publisher: publisher,
		previewer: previewer,
		limits:    limits,
		mailer:    LogMailer{},
		now: func() time.Time {
			// Postgres keeps microseconds; cursors must round-trip exactly.
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

// SetSecretKey enables encryption of TOTP secrets at rest with a 32-byte key.
func (s *Service) SetSecretKey(key []byte) {
	s.secretKey = key
}

// SetMailer replaces the log-backed mailer used for password reset links.
func (s *Service) SetMailer(m Mailer) {
	if m == nil {
		m = LogMailer{}
	}
	s.mailer = m
}

// Wait blocks until background work started by the service has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

type nopPublisher struct{}

func (nopPublisher) Publish(realtime.Event, ...uuid.UUID) {}
func (nopPublisher) Broadcast(realtime.Event)              {}
