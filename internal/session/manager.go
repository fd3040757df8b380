package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/concurrency"
	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/garden"
	"github.com/osse101/IdleGarden_Go/internal/logger"
	"github.com/osse101/IdleGarden_Go/internal/metrics"
	"github.com/osse101/IdleGarden_Go/internal/repository"
)

// Options tune a Manager; zero fields take defaults
type Options struct {
	TickInterval     time.Duration
	StartingCurrency int64
	Now              func() time.Time
	NewRand          func() garden.Rand
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewRand == nil {
		o.NewRand = func() garden.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return o
}

// Manager owns every live session of the process
type Manager struct {
	engine *garden.Engine
	repo   repository.GardenRepository
	ledger repository.Ledger
	bus    event.Bus
	opts   Options
	locks  *concurrency.LockManager

	mu       sync.RWMutex
	sessions map[string]*Session
	// parked holds stopped sessions whose final save failed, until a flush
	// persists them or Open revives them
	parked map[string]*Session
}

// NewManager creates a session manager
func NewManager(engine *garden.Engine, repo repository.GardenRepository, ledger repository.Ledger, bus event.Bus, opts Options) *Manager {
	if bus == nil {
		bus = event.Nop{}
	}
	return &Manager{
		engine:   engine,
		repo:     repo,
		ledger:   ledger,
		bus:      bus,
		opts:     opts.withDefaults(),
		locks:    concurrency.NewLockManager(),
		sessions: make(map[string]*Session),
		parked:   make(map[string]*Session),
	}
}

// Open returns the live session of userID, loading the garden when none is live.
// A fresh load runs the offline catch-up and saves before the first tick.
func (m *Manager) Open(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	var s *Session
	err := m.locks.WithLock(userID, func() error {
		if live, ok := m.Get(userID); ok {
			s = live
			return nil
		}

		opened, err := m.load(ctx, userID)
		if err != nil {
			return err
		}
		s = opened

		m.mu.Lock()
		m.sessions[userID] = s
		m.mu.Unlock()
		metrics.ActiveSessions.Inc()
		return nil
	})
	return s, err
}

func (m *Manager) load(ctx context.Context, userID string) (*Session, error) {
	now := m.opts.Now()
	state, savedVersion, err := m.loadState(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	report := m.engine.CatchUp(state, now)

	s := newSession(m, state)
	s.savedVersion = savedVersion
	ctx = s.ctx(ctx)
	log := logger.FromContext(ctx)
	if !report.Skipped {
		log.Info(LogMsgCatchUpApplied,
			"elapsed", report.Elapsed, "applied", report.Applied,
			"currency", report.Currency, "plants", report.PlantsProcessed)
	}
	s.publish(ctx, event.New(event.CatchUp, event.CatchUpPayloadV1{
		UserID:          userID,
		ElapsedMs:       report.Elapsed.Milliseconds(),
		AppliedMs:       report.Applied.Milliseconds(),
		Skipped:         report.Skipped,
		Currency:        report.Currency,
		Items:           report.Items,
		ItemsClamped:    report.ItemsClamped,
		PlantsProcessed: report.PlantsProcessed,
	}))

	s.start()
	if err := s.Save(ctx, event.SaveReasonOpen); err != nil {
		// the session stays dirty; the next flush retries
		log.Warn(LogMsgOpenSaveFailed, "error", err)
	}
	log.Info(LogMsgSessionOpened, logger.AttrKeyUserID, userID)
	return s, nil
}

// loadState prefers a parked garden over the stored one, since the parked
// state is newer than anything the store holds.
func (m *Manager) loadState(ctx context.Context, userID string, now time.Time) (*domain.GardenState, int64, error) {
	m.mu.Lock()
	parked, ok := m.parked[userID]
	delete(m.parked, userID)
	m.mu.Unlock()
	if ok {
		logger.FromContext(parked.ctx(ctx)).Info(LogMsgSessionRevived, logger.AttrKeyUserID, userID)
		return parked.state.Clone(), parked.savedVersion, nil
	}

	state, err := m.repo.LoadGarden(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrGardenNotFound):
		state = domain.NewGardenState(userID, m.opts.StartingCurrency, now)
	case err != nil:
		return nil, 0, err
	}
	if state.UserID == "" {
		state.UserID = userID
	}
	return state, -1, nil
}

// Get returns the live session of userID
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) live() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Close stops the session of userID and saves its final state. When that save
// fails the stopped session is parked: Flush keeps retrying it and a later Open
// resumes from it instead of the older stored garden.
func (m *Manager) Close(ctx context.Context, userID string) error {
	return m.locks.WithLock(userID, func() error {
		m.mu.Lock()
		s, ok := m.sessions[userID]
		delete(m.sessions, userID)
		m.mu.Unlock()
		if !ok {
			return fmt.Errorf("%w: no live session for %s", domain.ErrSessionClosed, userID)
		}
		metrics.ActiveSessions.Dec()

		s.stop()
		log := logger.FromContext(s.ctx(ctx))
		if err := s.Save(ctx, event.SaveReasonClose); err != nil {
			m.mu.Lock()
			m.parked[userID] = s
			m.mu.Unlock()
			log.Warn(LogMsgSessionParked, logger.AttrKeyUserID, userID, "error", err)
			return err
		}
		log.Info(LogMsgSessionClosed, logger.AttrKeyUserID, userID)
		return nil
	})
}

// CloseAll closes every live session, then makes one more attempt at every
// parked one
func (m *Manager) CloseAll(ctx context.Context) error {
	var errs []error
	for _, s := range m.live() {
		if err := m.Close(ctx, s.userID); err != nil && !errors.Is(err, domain.ErrSessionClosed) && !m.isParked(s.userID) {
			errs = append(errs, err)
		}
	}
	if err := m.flushParked(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Parked returns the number of closed gardens still waiting for a successful save
func (m *Manager) Parked() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.parked)
}

func (m *Manager) isParked(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.parked[userID]
	return ok
}

// flushParked retries the final save of every parked session and forgets the
// ones that succeed
func (m *Manager) flushParked(ctx context.Context) error {
	m.mu.RLock()
	users := make([]string, 0, len(m.parked))
	for userID := range m.parked {
		users = append(users, userID)
	}
	m.mu.RUnlock()

	var errs []error
	for _, userID := range users {
		err := m.locks.WithLock(userID, func() error {
			m.mu.RLock()
			s, ok := m.parked[userID]
			m.mu.RUnlock()
			if !ok {
				// revived by Open in the meantime
				return nil
			}
			if err := s.Save(ctx, event.SaveReasonClose); err != nil {
				return err
			}
			m.mu.Lock()
			delete(m.parked, userID)
			m.mu.Unlock()
			logger.FromContext(s.ctx(ctx)).Info(LogMsgSessionClosed, logger.AttrKeyUserID, userID)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush saves every session that changed since the previous flush, and retries
// parked sessions. Failed saves leave the session dirty for the next flush.
func (m *Manager) Flush(ctx context.Context) error {
	var errs []error
	if err := m.flushParked(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, s := range m.live() {
		if !s.dirty.Swap(false) {
			continue
		}
		if err := s.Save(ctx, event.SaveReasonDebounced); err != nil {
			if errors.Is(err, domain.ErrSessionClosed) {
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RotateWeather rolls a new weather for every live garden whose weather expired
func (m *Manager) RotateWeather(ctx context.Context) int {
	rotated := 0
	for _, s := range m.live() {
		if ok, err := s.RotateWeather(ctx); err == nil && ok {
			rotated++
		}
	}
	return rotated
}
