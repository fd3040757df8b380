// Package session owns live gardens: one actor goroutine per open garden
// serializes ticks and user commands, and a manager loads, catches up, flushes
// and closes them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/garden"
	"github.com/osse101/IdleGarden_Go/internal/logger"
	"github.com/osse101/IdleGarden_Go/internal/metrics"
	"github.com/osse101/IdleGarden_Go/internal/repository"
)

type command struct {
	fn     func(*domain.GardenState) error
	result chan error
}

// Session is the single owner of one garden's state while it is open
type Session struct {
	id           string
	userID       string
	engine       *garden.Engine
	repo         repository.GardenRepository
	ledger       repository.Ledger
	bus          event.Bus
	rng          garden.Rand
	now          func() time.Time
	tickInterval time.Duration

	// state is touched only by the loop goroutine until done is closed
	state *domain.GardenState

	cmds     chan command
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	dirty        atomic.Bool
	saveMu       sync.Mutex
	savedVersion int64
}

func newSession(m *Manager, state *domain.GardenState) *Session {
	return &Session{
		id:           uuid.NewString(),
		userID:       state.UserID,
		engine:       m.engine,
		repo:         m.repo,
		ledger:       m.ledger,
		bus:          m.bus,
		rng:          m.opts.NewRand(),
		now:          m.opts.Now,
		tickInterval: m.opts.TickInterval,
		state:        state,
		cmds:         make(chan command),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		savedVersion: -1,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// UserID returns the owner of the garden
func (s *Session) UserID() string {
	return s.userID
}

// Dirty reports whether the state changed since the last flush picked it up
func (s *Session) Dirty() bool {
	return s.dirty.Load()
}

func (s *Session) ctx(ctx context.Context) context.Context {
	return logger.WithSessionID(ctx, s.id)
}

func (s *Session) start() {
	go s.run()
}

func (s *Session) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-s.cmds:
			cmd.result <- s.exec(cmd.fn)
		case <-ticker.C:
			s.tick()
		case <-s.quit:
			return
		}
	}
}

func (s *Session) exec(fn func(*domain.GardenState) error) (err error) {
	before := s.state.Version
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(s.ctx(context.Background())).Error(LogMsgCommandPanicked, "panic", r)
			err = fmt.Errorf("garden command panicked: %v", r)
		}
		if s.state.Version != before {
			s.dirty.Store(true)
		}
	}()
	return fn(s.state)
}

func (s *Session) tick() {
	ctx := s.ctx(context.Background())
	start := time.Now()

	var report garden.TickReport
	err := s.exec(func(state *domain.GardenState) error {
		now := s.now()
		s.engine.PruneExpired(state, now)
		report = s.engine.Tick(state, now, s.rng)
		return nil
	})
	metrics.TickDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return
	}

	for _, m := range report.Mutations {
		s.publish(ctx, event.New(event.Mutated, event.MutatedPayloadV1{
			UserID:   s.userID,
			PlantID:  m.PlantID,
			Mutation: m.Mutation,
			Rarity:   m.Rarity,
			Stacked:  m.Stacked,
		}))
	}
	if report.PassiveIncome > 0 {
		s.publish(ctx, event.New(event.PassiveIncome, event.PassiveIncomePayloadV1{
			UserID: s.userID,
			Amount: report.PassiveIncome,
		}))
	}
}

func (s *Session) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", e.Type, "error", err)
	}
}

// Do runs fn on the session goroutine and returns its error. Ticks and other
// commands never interleave with fn. ctx only bounds the wait for the loop to
// accept fn; once accepted, Do always reports fn's own result so callers never
// mistake an applied change for a failed one.
func (s *Session) Do(ctx context.Context, fn func(*domain.GardenState) error) error {
	select {
	case <-s.quit:
		return domain.ErrSessionClosed
	default:
	}

	cmd := command{fn: fn, result: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.quit:
		return domain.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-cmd.result
}

// Snapshot returns a deep copy of the current state
func (s *Session) Snapshot(ctx context.Context) (*domain.GardenState, error) {
	var snap *domain.GardenState
	err := s.Do(ctx, func(state *domain.GardenState) error {
		snap = state.Clone()
		return nil
	})
	if errors.Is(err, domain.ErrSessionClosed) {
		// The loop has exited or is exiting; after done the state is read-only.
		<-s.done
		return s.state.Clone(), nil
	}
	return snap, err
}

// Save persists a snapshot. A snapshot not newer than the last saved one is dropped,
// so a slow debounced save can never overwrite a newer explicit save.
func (s *Session) Save(ctx context.Context, reason string) error {
	ctx = s.ctx(ctx)
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if snap.Version <= s.savedVersion {
		logger.FromContext(ctx).Debug(LogMsgStaleSaveDropped,
			"version", snap.Version, "saved_version", s.savedVersion, "reason", reason)
		return nil
	}

	start := time.Now()
	err = s.repo.SaveGarden(ctx, s.userID, snap)
	payload := event.SavedPayloadV1{
		UserID:       s.userID,
		StateVersion: snap.Version,
		Reason:       reason,
		Duration:     time.Since(start),
	}
	if err != nil {
		payload.Err = err.Error()
		s.publish(ctx, event.New(event.Saved, payload))
		s.dirty.Store(true)
		logger.FromContext(ctx).Error(LogMsgSaveFailed, "reason", reason, "error", err)
		if !errors.Is(err, domain.ErrPersistenceFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
		}
		return err
	}

	s.savedVersion = snap.Version
	s.publish(ctx, event.New(event.Saved, payload))
	return nil
}

// stop ends the loop and waits for it to exit
func (s *Session) stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
}
