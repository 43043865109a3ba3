// Package publisher fans audit events out to a store, synchronously by
// default or through a buffered channel when async mode is enabled.
package publisher

import (
	"context"
	"log/slog"
	"sync"

	"chorale/pkg/domain"
	audit "chorale/pkg/platform/audit"
)

// Store is the destination for audit events.
type Store interface {
	Append(ctx context.Context, event audit.Event) error
	ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]audit.Event, error)
}

// Publisher emits audit events. In async mode events are buffered and written
// by a background goroutine; a full buffer drops the event rather than block
// the request path.
type Publisher struct {
	store  Store
	logger *slog.Logger

	ch     chan audit.Event
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables async emission with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.ch = make(chan audit.Event, size)
		}
	}
}

// WithLogger sets the logger used for drop/flush diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ch != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.ch {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("audit append failed", "action", event.Action, "error", err)
		}
	}
}

// Emit records an audit event. Sync mode returns the store error; async mode
// never blocks and drops the event when the buffer is full. Emit must not be
// called after Close.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if p.ch == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case <-p.closed:
		return nil
	default:
	}
	select {
	case p.ch <- event:
		return nil
	default:
		p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
		return nil
	}
}

// List returns events for one organization.
func (p *Publisher) List(ctx context.Context, orgID domain.OrganizationID) ([]audit.Event, error) {
	return p.store.ListByOrganization(ctx, orgID)
}

// Close drains buffered events and stops the background writer.
func (p *Publisher) Close() {
	p.once.Do(func() {
		close(p.closed)
		if p.ch != nil {
			close(p.ch)
			p.wg.Wait()
		}
	})
}
