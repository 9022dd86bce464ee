package notification

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dataimport/internal/config"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// Dispatcher accepts notifications for asynchronous delivery.
type Dispatcher interface {
	Dispatch(n *UserNotify) error
}

// Queue is a bounded in-process mail queue drained by a fixed set of workers.
// Dispatch never blocks; delivery order and completion are not reported back.
type Queue struct {
	jobs     chan *UserNotify
	renderer *Renderer
	sender   Sender
	from     config.MailConfig
	workers  int
	log      *zap.Logger

	mu     sync.RWMutex
	closed bool
	g      *errgroup.Group
	done   chan struct{}
}

func NewQueue(sender Sender, renderer *Renderer, cfg config.MailConfig, log *zap.Logger) *Queue {
	size := cfg.QueueSize
	if size <= 0 {
		size = 100
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		jobs:     make(chan *UserNotify, size),
		renderer: renderer,
		sender:   sender,
		from:     cfg,
		workers:  workers,
		log:      log,
		done:     make(chan struct{}),
	}
}

var _ Dispatcher = (*Queue)(nil)

// Dispatch validates n and enqueues it.
func (q *Queue) Dispatch(n *UserNotify) error {
	if err := n.Validate(); err != nil {
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the workers. ctx is used for every delivery.
func (q *Queue) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		g.Go(func() error {
			for n := range q.jobs {
				q.deliver(gctx, n)
			}
			return nil
		})
	}
	q.g = g
	go func() {
		_ = g.Wait()
		close(q.done)
	}()
}

// Shutdown stops accepting notifications and waits for queued ones to be sent,
// or for ctx to expire.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	if q.g == nil {
		return nil
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) deliver(ctx context.Context, n *UserNotify) {
	env := n.Envelope()
	log := q.log.With(
		zap.String("template", n.Template),
		zap.String("to", strings.Join(env.To, ",")),
	)

	html, err := q.renderer.Render(n.Content())
	if err != nil {
		log.Error("failed to render notification", zap.Error(err))
		return
	}

	err = q.sender.Send(ctx, Message{
		FromAddress: q.from.FromAddress,
		FromName:    q.from.FromName,
		To:          env.To,
		Subject:     env.Subject,
		HTML:        html,
	})
	if err != nil {
		log.Error("failed to send notification", zap.Error(err))
		return
	}
	log.Debug("notification sent")
}
