// Package worker publishes stored playlists to Spotify in the background.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/ports"
)

const defaultJobTimeout = 2 * time.Minute

// Job is a request to publish one stored playlist.
type Job struct {
	PlaylistID string
	Session    domain.Session
}

// Publisher writes a stored playlist to Spotify and records the outcome.
type Publisher interface {
	PublishPlaylist(ctx context.Context, id string, sess domain.Session) error
}

var _ ports.PublishQueue = (*Pool)(nil)

// Pool manages background workers for publish jobs.
type Pool struct {
	workers    int
	jobs       chan Job
	wg         sync.WaitGroup
	log        *zap.Logger
	jobTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a worker pool with the given worker count and queue size.
func NewPool(workers int, queueSize int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		workers:    workers,
		jobs:       make(chan Job, queueSize),
		log:        logger,
		jobTimeout: defaultJobTimeout,
	}
}

// Start launches the worker goroutines. Jobs inherit ctx's values but not its
// cancellation: Stop drains every queued job, each bounded by the job
// timeout, so a shutdown signal does not strand playlists as pending.
func (p *Pool) Start(ctx context.Context, publisher Publisher) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(ctx, publisher, job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues a job without blocking. It reports false when the queue is
// full or the pool is stopped.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn("worker: pool stopped, dropping job", zap.String("playlist_id", job.PlaylistID))
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warn("worker: queue full, dropping job", zap.String("playlist_id", job.PlaylistID))
		return false
	}
}

// Enqueue queues publishing of a stored playlist.
func (p *Pool) Enqueue(playlistID string, sess domain.Session) bool {
	return p.Submit(Job{PlaylistID: playlistID, Session: sess})
}

func (p *Pool) processJob(ctx context.Context, publisher Publisher, job Job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.jobTimeout)
	defer cancel()

	start := time.Now()
	if err := publisher.PublishPlaylist(ctx, job.PlaylistID, job.Session); err != nil {
		p.log.Warn("worker: publish failed",
			zap.String("playlist_id", job.PlaylistID), zap.Error(err))
		return
	}
	p.log.Info("worker: playlist published",
		zap.String("playlist_id", job.PlaylistID), zap.Duration("elapsed", time.Since(start)))
}
