package session

import (
	"context"
	"fmt"

	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/domain"
	"github.com/osse101/IdleGarden_Go/internal/event"
	"github.com/osse101/IdleGarden_Go/internal/garden"
	"github.com/osse101/IdleGarden_Go/internal/logger"
	"github.com/osse101/IdleGarden_Go/internal/metrics"
)

// Summary returns an overview of the garden
func (s *Session) Summary(ctx context.Context) (garden.Summary, error) {
	var out garden.Summary
	err := s.Do(ctx, func(state *domain.GardenState) error {
		out = s.engine.Summarize(state, s.now())
		return nil
	})
	return out, err
}

// Plant buys an asset and places it on (x, y)
func (s *Session) Plant(ctx context.Context, t domain.AssetType, x, y int) (*domain.PlantInstance, error) {
	var planted *domain.PlantInstance
	var cost int64
	err := s.Do(ctx, func(state *domain.GardenState) error {
		p, err := s.engine.Plant(state, t, x, y, s.now())
		if err != nil {
			return err
		}
		if cfg, err := s.engine.Catalog().Config(t); err == nil {
			cost = cfg.BaseCost
		}
		planted = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(s.ctx(ctx), event.New(event.Planted, event.PlantedPayloadV1{
		UserID:    s.userID,
		PlantID:   planted.ID,
		AssetType: t.String(),
		X:         x,
		Y:         y,
		Cost:      cost,
	}))
	return planted, nil
}

// Preview returns what harvesting (x, y) would pay right now
func (s *Session) Preview(ctx context.Context, x, y int) (garden.HarvestPreview, error) {
	var out garden.HarvestPreview
	err := s.Do(ctx, func(state *domain.GardenState) error {
		var err error
		out, err = s.engine.Preview(state, x, y, s.now())
		return err
	})
	return out, err
}

// Harvest collects the plant on (x, y) in the given mode
func (s *Session) Harvest(ctx context.Context, x, y int, mode string) (garden.HarvestResult, error) {
	var result garden.HarvestResult
	err := s.Do(ctx, func(state *domain.GardenState) error {
		var err error
		result, err = s.engine.Harvest(state, x, y, mode, s.now(), s.rng)
		if result.Sprouted != nil {
			result.Sprouted = result.Sprouted.Clone()
		}
		return err
	})
	if err != nil {
		return garden.HarvestResult{}, err
	}
	s.publish(s.ctx(ctx), event.New(event.Harvested, event.HarvestedPayloadV1{
		UserID:    s.userID,
		PlantID:   result.PlantID,
		AssetType: result.Type.String(),
		Mode:      result.Mode,
		Currency:  result.Currency,
		Item:      result.Item,
		Quantity:  result.Quantity,
		Lucky:     result.Lucky,
	}))
	return result, nil
}

// Upgrade raises the level of the plant on (x, y) and returns the price paid
func (s *Session) Upgrade(ctx context.Context, x, y int) (int64, error) {
	var cost int64
	err := s.Do(ctx, func(state *domain.GardenState) error {
		var err error
		cost, err = s.engine.Upgrade(state, x, y)
		return err
	})
	return cost, err
}

// Sell removes the plant on (x, y) for a partial refund
func (s *Session) Sell(ctx context.Context, x, y int) (int64, error) {
	var refund int64
	err := s.Do(ctx, func(state *domain.GardenState) error {
		var err error
		refund, err = s.engine.Sell(state, x, y)
		return err
	})
	return refund, err
}

// Evolve turns the plant on (x, y) into its successor
func (s *Session) Evolve(ctx context.Context, x, y int) (garden.EvolveResult, error) {
	var result garden.EvolveResult
	err := s.Do(ctx, func(state *domain.GardenState) error {
		var err error
		result, err = s.engine.Evolve(state, x, y)
		return err
	})
	if err != nil {
		return garden.EvolveResult{}, err
	}
	s.publish(s.ctx(ctx), event.New(event.Evolved, event.EvolvedPayloadV1{
		UserID:  s.userID,
		PlantID: result.PlantID,
		From:    result.From.String(),
		To:      result.To.String(),
		Cost:    result.Cost,
	}))
	return result, nil
}

// PurchaseModifier buys the next level of a garden modifier
func (s *Session) PurchaseModifier(ctx context.Context, key string) (domain.GardenModifier, int64, error) {
	var mod domain.GardenModifier
	var cost int64
	err := s.Do(ctx, func(state *domain.GardenState) error {
		m, c, err := s.engine.PurchaseModifier(state, key)
		if err != nil {
			return err
		}
		mod, cost = *m, c
		return nil
	})
	return mod, cost, err
}

// SellInventory sells qty harvested items of kind
func (s *Session) SellInventory(ctx context.Context, kind string, qty int) (int64, error) {
	var credited int64
	err := s.Do(ctx, func(state *domain.GardenState) error {
		var err error
		credited, err = s.engine.SellInventory(state, kind, qty)
		return err
	})
	return credited, err
}

// StartTimedEffect starts a weather, seasonal event or server event by kind and key
func (s *Session) StartTimedEffect(ctx context.Context, kind, key string) (domain.TimedEffect, error) {
	var started domain.TimedEffect
	err := s.Do(ctx, func(state *domain.GardenState) error {
		now := s.now()
		var eff *domain.TimedEffect
		var err error
		switch kind {
		case domain.TimedKindWeather:
			eff, err = s.engine.StartWeather(state, key, now)
		case domain.TimedKindSeasonal:
			eff, err = s.engine.StartSeasonal(state, key, now)
		case domain.TimedKindServer:
			eff, err = s.engine.AddServerEvent(state, key, now)
		default:
			return fmt.Errorf("%w: timed effect kind %q", domain.ErrInvalidInput, kind)
		}
		if err != nil {
			return err
		}
		started = *eff
		return nil
	})
	return started, err
}

// RotateWeather replaces an expired or missing weather with a weighted pick
func (s *Session) RotateWeather(ctx context.Context) (bool, error) {
	var rotated bool
	var key string
	err := s.Do(ctx, func(state *domain.GardenState) error {
		now := s.now()
		if state.Weather.IsActive(now) {
			return nil
		}
		w, ok := s.engine.RotateWeather(state, now, s.rng)
		rotated = ok
		if ok {
			key = w.Key
		}
		return nil
	})
	if rotated {
		logger.FromContext(s.ctx(ctx)).Debug(LogMsgWeatherRotated, "weather", key)
	}
	return rotated, err
}

// Deposit moves amount from the external ledger into the garden
func (s *Session) Deposit(ctx context.Context, amount int64) (err error) {
	defer func() { metrics.RecordLedgerTransfer(metrics.DirectionIn, amount, err) }()

	if amount <= 0 {
		return fmt.Errorf("%w: deposit amount must be positive", domain.ErrInvalidInput)
	}
	if err := s.ledger.Debit(ctx, s.userID, amount); err != nil {
		return err
	}

	err = s.Do(ctx, func(state *domain.GardenState) error {
		state.Currency += amount
		state.Touch()
		return nil
	})
	if err != nil {
		s.refundLedger(ctx, amount, err)
		return err
	}
	return s.Save(ctx, event.SaveReasonExplicit)
}

// CashOut moves amount from the garden to the external ledger
func (s *Session) CashOut(ctx context.Context, amount int64) (err error) {
	defer func() { metrics.RecordLedgerTransfer(metrics.DirectionOut, amount, err) }()

	if amount <= 0 {
		return fmt.Errorf("%w: cash-out amount must be positive", domain.ErrInvalidInput)
	}
	err = s.Do(ctx, func(state *domain.GardenState) error {
		if state.Currency < amount {
			return fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientFunds, amount, state.Currency)
		}
		state.Currency -= amount
		state.Touch()
		return nil
	})
	if err != nil {
		return err
	}

	if err = s.ledger.Credit(ctx, s.userID, amount); err != nil {
		logger.FromContext(s.ctx(ctx)).Warn(LogMsgLedgerRefund, "amount", amount, "error", err)
		refundErr := s.Do(context.WithoutCancel(ctx), func(state *domain.GardenState) error {
			state.Currency += amount
			state.Touch()
			return nil
		})
		if refundErr != nil {
			logger.FromContext(s.ctx(ctx)).Error(LogMsgLedgerRefundLost, "amount", amount, "error", refundErr)
		}
		return err
	}
	return s.Save(ctx, event.SaveReasonExplicit)
}

func (s *Session) refundLedger(ctx context.Context, amount int64, cause error) {
	log := logger.FromContext(s.ctx(ctx))
	log.Warn(LogMsgLedgerRefund, "amount", amount, "error", cause)
	if err := s.ledger.Credit(context.WithoutCancel(ctx), s.userID, amount); err != nil {
		log.Error(LogMsgLedgerRefundLost, "amount", amount, "error", err)
	}
}

// Catalog exposes the static tables the session simulates against
func (s *Session) Catalog() *catalog.Catalog {
	return s.engine.Catalog()
}
