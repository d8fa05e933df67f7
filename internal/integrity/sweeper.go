package integrity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// SweeperConfig controls the concurrency characteristics of the sweeper.
type SweeperConfig struct {
	QueueSize  int
	Workers    int
	JobTimeout time.Duration
}

// Sweeper asynchronously scrubs records that reference deleted videos.
// Read paths hand it the id of a video they discovered missing, and its
// workers run the orphan heal without blocking the request.
type Sweeper struct {
	coordinator *Coordinator
	logger      *slog.Logger
	jobTimeout  time.Duration

	jobs   chan sweepJob
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

type sweepJob struct {
	videoID string
}

var errSweeperClosed = errors.New("orphan sweeper closed")

// NewSweeper constructs a background worker pool that heals orphaned
// references.
func NewSweeper(coordinator *Coordinator, cfg SweeperConfig, logger *slog.Logger) *Sweeper {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sweeper{
		coordinator: coordinator,
		logger:      logger,
		jobTimeout:  cfg.JobTimeout,
		jobs:        make(chan sweepJob, cfg.QueueSize),
	}

	s.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go s.worker()
	}

	return s
}

// Enqueue schedules an orphan sweep for the supplied video id. The mutex
// serializes every send against Shutdown's close so the channel can never
// receive a send after it is closed.
func (s *Sweeper) Enqueue(ctx context.Context, videoID string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSweeperClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.jobs <- sweepJob{videoID: videoID}:
		return nil
	}
}

// Shutdown waits for the worker pool to drain outstanding sweeps.
func (s *Sweeper) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.jobs)
		s.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *Sweeper) worker() {
	defer s.wg.Done()

	for job := range s.jobs {
		s.handleJob(job)
	}
}

func (s *Sweeper) handleJob(job sweepJob) {
	if s.coordinator == nil {
		s.logger.Error("orphan sweeper missing coordinator", "videoId", job.videoID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.logger.Info("sweeping orphaned references", "videoId", job.videoID)
	s.coordinator.HealVideoOrphans(ctx, job.videoID)
}
