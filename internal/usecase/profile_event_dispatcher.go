package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
)

// JobPathProfileUpdated is the internal job endpoint the queue calls back.
const JobPathProfileUpdated = "/v1/internal/jobs/profile-updated"

const defaultEventPublishTimeout = 10 * time.Second

type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// ProfileEventDispatcher publishes profile events from a bounded worker pool
// so callers never wait on the queue.
type ProfileEventDispatcher struct {
	publisher JobPublisher
	pool      *ants.Pool
	timeout   time.Duration
	logger    *logging.Logger
}

func NewProfileEventDispatcher(publisher JobPublisher, workers int, logger *logging.Logger) (*ProfileEventDispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create event worker pool: %w", err)
	}

	return &ProfileEventDispatcher{
		publisher: publisher,
		pool:      pool,
		timeout:   defaultEventPublishTimeout,
		logger:    logger,
	}, nil
}

func (d *ProfileEventDispatcher) DispatchProfileUpdated(ctx context.Context, event profile.UpdatedEvent) {
	if d == nil || d.publisher == nil {
		return
	}

	// detach from the request so the publish outlives it
	ctx = context.WithoutCancel(ctx)
	dedupID := fmt.Sprintf("%s:%s:%d", profile.EventUpdated, event.UserID, event.OccurredAt.UnixNano())

	if err := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		if err := d.publisher.Enqueue(ctx, JobPathProfileUpdated, event, 0, dedupID); err != nil {
			d.logger.WarnContext(ctx, "publish profile event failed", "user_id", event.UserID, "error", err)
		}
	}); err != nil {
		d.logger.WarnContext(ctx, "profile event dropped", "user_id", event.UserID, "error", err)
	}
}

// Running reports in-flight publishes.
func (d *ProfileEventDispatcher) Running() int {
	if d == nil {
		return 0
	}
	return d.pool.Running()
}

// Close waits up to timeout for queued publishes.
func (d *ProfileEventDispatcher) Close(timeout time.Duration) error {
	if d == nil {
		return nil
	}
	if err := d.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release event worker pool: %w", err)
	}
	return nil
}
