// Package session keeps per-client navigation state and renders views for it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/services/composer"
	"github.com/de-tools/salespulse/pkg/services/dataset"
	"github.com/de-tools/salespulse/pkg/services/navigation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/de-tools/salespulse/pkg/services/session"

var (
	ErrNotFound    = errors.New("session not found")
	ErrStaleRender = errors.New("session changed while rendering")
)

// Session is a point-in-time copy of one session's state.
type Session struct {
	ID        string
	Selection domain.Selection
	Revision  uint64
}

type Options struct {
	// TTL expires sessions idle for longer than this. Zero keeps them forever.
	TTL               time.Duration
	MaxRenderAttempts int
	Now               func() time.Time
}

type entry struct {
	mu       sync.Mutex
	state    *navigation.State
	lastSeen time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry

	loader   dataset.Loader
	composer *composer.Composer
	opts     Options
}

func NewManager(loader dataset.Loader, c *composer.Composer, opts Options) *Manager {
	if opts.MaxRenderAttempts <= 0 {
		opts.MaxRenderAttempts = 3
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*entry),
		loader:   loader,
		composer: c,
		opts:     opts,
	}
}

func (m *Manager) Create(ctx context.Context) Session {
	id := uuid.NewString()
	e := &entry{state: navigation.New(), lastSeen: m.opts.Now()}

	m.mu.Lock()
	m.sweepLocked()
	m.sessions[id] = e
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Str("session", id).Msg("session created")
	return Session{ID: id, Selection: e.state.Snapshot(), Revision: e.state.Revision()}
}

func (m *Manager) Get(_ context.Context, id string) (Session, error) {
	return m.update(id, func(*navigation.State) error { return nil })
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	zerolog.Ctx(ctx).Debug().Str("session", id).Msg("session deleted")
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.sessions)
}

// The setters resolve the session before parsing, so an unknown id reports
// ErrNotFound whatever the value.
func (m *Manager) SetPrimaryTab(_ context.Context, id, tab string) (Session, error) {
	return m.update(id, func(s *navigation.State) error {
		parsed, err := domain.ParsePrimaryTab(tab)
		if err != nil {
			return err
		}
		return s.SetPrimaryTab(parsed)
	})
}

func (m *Manager) SetSecondaryTab(_ context.Context, id, tab string) (Session, error) {
	return m.update(id, func(s *navigation.State) error {
		parsed, err := domain.ParseSecondaryTab(tab)
		if err != nil {
			return err
		}
		return s.SetSecondaryTab(parsed)
	})
}

func (m *Manager) SetFilter(_ context.Context, id, key, value string) (Session, error) {
	return m.update(id, func(s *navigation.State) error {
		k, err := domain.ParseFilterKey(key)
		if err != nil {
			return err
		}
		return s.SetFilter(k, value)
	})
}

func (m *Manager) ResetFilters(_ context.Context, id string) (Session, error) {
	return m.update(id, func(s *navigation.State) error {
		s.ResetFilters()
		return nil
	})
}

// Render derives the view for the session's current selection. A view is
// only returned if the selection did not change while the dataset was
// loading; otherwise the load is retried with the newer selection.
func (m *Manager) Render(ctx context.Context, id string) (domain.View, Session, error) {
	ctx, span := otel.Tracer(instrumentation).Start(ctx, "session.Render",
		trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	view, snap, err := m.render(ctx, id, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return view, snap, err
}

func (m *Manager) render(ctx context.Context, id string, span trace.Span) (domain.View, Session, error) {
	logger := zerolog.Ctx(ctx)

	for attempt := 1; attempt <= m.opts.MaxRenderAttempts; attempt++ {
		snap, err := m.Get(ctx, id)
		if err != nil {
			return domain.View{}, Session{}, err
		}

		rows, err := m.loader.Load(ctx, snap.Selection)
		if err != nil {
			return domain.View{}, Session{}, fmt.Errorf("render session %s: %w", id, err)
		}
		view := m.composer.Derive(snap.Selection, rows)

		current, err := m.commit(id, snap.Revision)
		if err != nil {
			return domain.View{}, Session{}, err
		}
		if current {
			span.SetAttributes(
				attribute.Int("render.attempts", attempt),
				attribute.Int("render.rows", len(rows)),
				attribute.Int64("session.revision", int64(snap.Revision)),
			)
			return view, snap, nil
		}
		span.AddEvent("stale render discarded", trace.WithAttributes(attribute.Int("attempt", attempt)))
		logger.Debug().
			Str("session", id).
			Int("attempt", attempt).
			Uint64("revision", snap.Revision).
			Msg("discarding stale render")
	}
	return domain.View{}, Session{}, ErrStaleRender
}

// commit marks the state clean if it is still at revision.
func (m *Manager) commit(id string, revision uint64) (bool, error) {
	e, err := m.lookup(id)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Revision() != revision {
		return false, nil
	}
	e.state.MarkClean()
	return true, nil
}

func (m *Manager) update(id string, fn func(*navigation.State) error) (Session, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.state); err != nil {
		return Session{}, err
	}
	e.lastSeen = m.opts.Now()
	return Session{ID: id, Selection: e.state.Snapshot(), Revision: e.state.Revision()}, nil
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *Manager) sweepLocked() {
	if m.opts.TTL <= 0 {
		return
	}
	cutoff := m.opts.Now().Add(-m.opts.TTL)
	for id, e := range m.sessions {
		e.mu.Lock()
		expired := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if expired {
			delete(m.sessions, id)
		}
	}
}
