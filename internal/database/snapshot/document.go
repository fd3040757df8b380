// Package snapshot defines the persisted garden document and a zstd-compressed
// file store for it.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// DocumentVersion is the current persisted layout
const DocumentVersion = 1

// ErrUnsupportedVersion is returned when a stored document has an unknown layout
var ErrUnsupportedVersion = errors.New("unsupported garden document version")

// Header identifies the owner and layout of a garden document
type Header struct {
	Version      int    `json:"version"`
	UserID       string `json:"user_id"`
	StateVersion int64  `json:"state_version"`
	SavedAtMs    int64  `json:"saved_at_ms"`
}

// GardenDocumentV1 is the lossless persisted form of a GardenState.
// Timestamps are millisecond epoch integers; zero means unset.
type GardenDocumentV1 struct {
	Header Header `json:"header"`

	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Currency     int64           `json:"currency"`
	Inventory    map[string]int  `json:"inventory"`
	Plants       []PlantV1       `json:"plants"`
	Modifiers    []ModifierV1    `json:"modifiers"`
	Weather      *TimedEffectV1  `json:"weather,omitempty"`
	Seasonal     *TimedEffectV1  `json:"seasonal,omitempty"`
	ServerEvents []TimedEffectV1 `json:"server_events,omitempty"`

	LastGrowthUpdateAtMs int64 `json:"last_growth_update_at_ms"`
	CreatedAtMs          int64 `json:"created_at_ms"`
}

// PlantV1 is one occupied plot
type PlantV1 struct {
	ID                   string       `json:"id"`
	Type                 string       `json:"type"`
	Level                int          `json:"level"`
	X                    int          `json:"x"`
	Y                    int          `json:"y"`
	GrowthProgressPct    float64      `json:"growth_progress_pct"`
	GrowthElapsedMs      float64      `json:"growth_elapsed_ms"`
	ReadyToHarvest       bool         `json:"ready_to_harvest"`
	PlantedAtMs          int64        `json:"planted_at_ms"`
	LastTickAtMs         int64        `json:"last_tick_at_ms"`
	Mutations            []MutationV1 `json:"mutations"`
	EvolutionProgressPct float64      `json:"evolution_progress_pct"`
	CanEvolve            bool         `json:"can_evolve"`
}

// MutationV1 is a stacked mutation on a plant
type MutationV1 struct {
	Type                  string  `json:"type"`
	YieldMultiplier       float64 `json:"yield_multiplier"`
	GrowthSpeedMultiplier float64 `json:"growth_speed_multiplier"`
	LuckBonus             float64 `json:"luck_bonus,omitempty"`
	Color                 string  `json:"color"`
	Rarity                string  `json:"rarity"`
	Stacks                int     `json:"stacks"`
}

// ModifierV1 is a purchased garden modifier
type ModifierV1 struct {
	Key            string  `json:"key"`
	Level          int     `json:"level"`
	MaxLevel       int     `json:"max_level"`
	CostBase       int64   `json:"cost_base"`
	Effect         string  `json:"effect"`
	AmountPerLevel float64 `json:"amount_per_level"`
}

// TimedEffectV1 is a weather, seasonal or server event
type TimedEffectV1 struct {
	Key                string  `json:"key"`
	Kind               string  `json:"kind"`
	Active             bool    `json:"active"`
	StartedAtMs        int64   `json:"started_at_ms"`
	EndsAtMs           int64   `json:"ends_at_ms"`
	GrowthSpeed        float64 `json:"growth_speed"`
	Yield              float64 `json:"yield"`
	MutationChance     float64 `json:"mutation_chance"`
	SpecialPlantChance float64 `json:"special_plant_chance,omitempty"`
	Priority           int     `json:"priority,omitempty"`
}

func toMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// FromState converts a garden into its persisted document
func FromState(state *domain.GardenState, savedAt time.Time) GardenDocumentV1 {
	doc := GardenDocumentV1{
		Header: Header{
			Version:      DocumentVersion,
			UserID:       state.UserID,
			StateVersion: state.Version,
			SavedAtMs:    toMs(savedAt),
		},
		Width:                state.Width,
		Height:               state.Height,
		Currency:             state.Currency,
		Inventory:            make(map[string]int, len(state.Inventory)),
		Plants:               []PlantV1{},
		Modifiers:            []ModifierV1{},
		LastGrowthUpdateAtMs: toMs(state.LastGrowthUpdateAt),
		CreatedAtMs:          toMs(state.CreatedAt),
	}
	for k, v := range state.Inventory {
		doc.Inventory[k] = v
	}
	state.EachPlant(func(p *domain.PlantInstance) {
		doc.Plants = append(doc.Plants, plantToV1(p))
	})
	keys := make([]string, 0, len(state.Modifiers))
	for k := range state.Modifiers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := state.Modifiers[k]
		if m == nil {
			continue
		}
		doc.Modifiers = append(doc.Modifiers, ModifierV1{
			Key: m.Key, Level: m.Level, MaxLevel: m.MaxLevel, CostBase: m.CostBase,
			Effect: m.Effect, AmountPerLevel: m.AmountPerLevel,
		})
	}
	doc.Weather = timedToV1(state.Weather)
	doc.Seasonal = timedToV1(state.Seasonal)
	for i := range state.ServerEvents {
		doc.ServerEvents = append(doc.ServerEvents, *timedToV1(&state.ServerEvents[i]))
	}
	return doc
}

func plantToV1(p *domain.PlantInstance) PlantV1 {
	out := PlantV1{
		ID:                   p.ID,
		Type:                 p.Type.String(),
		Level:                p.Level,
		X:                    p.X,
		Y:                    p.Y,
		GrowthProgressPct:    p.GrowthProgressPct,
		GrowthElapsedMs:      p.GrowthElapsedMs,
		ReadyToHarvest:       p.ReadyToHarvest,
		PlantedAtMs:          toMs(p.PlantedAt),
		LastTickAtMs:         toMs(p.LastTickAt),
		Mutations:            make([]MutationV1, 0, len(p.Mutations)),
		EvolutionProgressPct: p.EvolutionProgressPct,
		CanEvolve:            p.CanEvolve,
	}
	for _, m := range p.Mutations {
		out.Mutations = append(out.Mutations, MutationV1(m))
	}
	return out
}

func timedToV1(t *domain.TimedEffect) *TimedEffectV1 {
	if t == nil {
		return nil
	}
	return &TimedEffectV1{
		Key:                t.Key,
		Kind:               t.Kind,
		Active:             t.Active,
		StartedAtMs:        toMs(t.StartedAt),
		EndsAtMs:           toMs(t.EndsAt),
		GrowthSpeed:        t.Effect.GrowthSpeed,
		Yield:              t.Effect.Yield,
		MutationChance:     t.Effect.MutationChance,
		SpecialPlantChance: t.SpecialPlantChance,
		Priority:           t.Priority,
	}
}

func timedFromV1(t *TimedEffectV1) *domain.TimedEffect {
	if t == nil {
		return nil
	}
	return &domain.TimedEffect{
		Key:       t.Key,
		Kind:      t.Kind,
		Active:    t.Active,
		StartedAt: fromMs(t.StartedAtMs),
		EndsAt:    fromMs(t.EndsAtMs),
		Effect: domain.Effect{
			GrowthSpeed:    t.GrowthSpeed,
			Yield:          t.Yield,
			MutationChance: t.MutationChance,
		},
		SpecialPlantChance: t.SpecialPlantChance,
		Priority:           t.Priority,
	}
}

// ToState rebuilds the garden described by the document
func (d GardenDocumentV1) ToState() (*domain.GardenState, error) {
	if d.Header.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Header.Version)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", domain.ErrInvalidInput, d.Width, d.Height)
	}

	state := &domain.GardenState{
		UserID:             d.Header.UserID,
		Inventory:          make(domain.Inventory, len(d.Inventory)),
		Currency:           d.Currency,
		Modifiers:          make(map[string]*domain.GardenModifier, len(d.Modifiers)),
		LastGrowthUpdateAt: fromMs(d.LastGrowthUpdateAtMs),
		CreatedAt:          fromMs(d.CreatedAtMs),
		Version:            d.Header.StateVersion,
	}
	state.Resize(d.Width, d.Height)
	for k, v := range d.Inventory {
		state.Inventory[k] = v
	}

	for _, pv := range d.Plants {
		at, err := domain.ParseAssetType(pv.Type)
		if err != nil {
			return nil, fmt.Errorf("plant %s: %w", pv.ID, err)
		}
		if !state.InBounds(pv.X, pv.Y) {
			return nil, fmt.Errorf("%w: plant %s at (%d,%d) outside grid", domain.ErrInvalidInput, pv.ID, pv.X, pv.Y)
		}
		p := &domain.PlantInstance{
			ID:                   pv.ID,
			Type:                 at,
			Level:                pv.Level,
			GrowthProgressPct:    pv.GrowthProgressPct,
			GrowthElapsedMs:      pv.GrowthElapsedMs,
			ReadyToHarvest:       pv.ReadyToHarvest,
			PlantedAt:            fromMs(pv.PlantedAtMs),
			LastTickAt:           fromMs(pv.LastTickAtMs),
			EvolutionProgressPct: pv.EvolutionProgressPct,
			CanEvolve:            pv.CanEvolve,
		}
		for _, m := range pv.Mutations {
			p.Mutations = append(p.Mutations, domain.MutationInstance(m))
		}
		state.SetPlant(pv.X, pv.Y, p)
	}

	for _, m := range d.Modifiers {
		state.Modifiers[m.Key] = &domain.GardenModifier{
			Key: m.Key, Level: m.Level, MaxLevel: m.MaxLevel, CostBase: m.CostBase,
			Effect: m.Effect, AmountPerLevel: m.AmountPerLevel,
		}
	}
	state.Weather = timedFromV1(d.Weather)
	state.Seasonal = timedFromV1(d.Seasonal)
	for i := range d.ServerEvents {
		state.ServerEvents = append(state.ServerEvents, *timedFromV1(&d.ServerEvents[i]))
	}
	return state, nil
}

// Marshal encodes a garden as a JSON document
func Marshal(state *domain.GardenState, savedAt time.Time) ([]byte, error) {
	b, err := json.Marshal(FromState(state, savedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to encode garden document: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a JSON document into a garden
func Unmarshal(raw []byte) (*domain.GardenState, error) {
	var doc GardenDocumentV1
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode garden document: %w", err)
	}
	return doc.ToState()
}
