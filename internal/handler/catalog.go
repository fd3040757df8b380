package handler

import (
	"net/http"

	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// AssetView is one plantable asset of the catalog
type AssetView struct {
	Type             domain.AssetType `json:"type"`
	DisplayName      string           `json:"display_name"`
	Behavior         string           `json:"behavior"`
	BaseCost         int64            `json:"base_cost"`
	BaseYield        float64          `json:"base_yield"`
	HarvestItem      string           `json:"harvest_item,omitempty"`
	HarvestUnitValue int64            `json:"harvest_unit_value,omitempty"`
	GrowthDurationMs int64            `json:"growth_duration_ms"`
	MaxLevel         int              `json:"max_level"`
	EvolvedOnly      bool             `json:"evolved_only,omitempty"`
}

// CatalogView lists the static tables a garden is simulated against
type CatalogView struct {
	Version   string              `json:"version"`
	Assets    []AssetView         `json:"assets"`
	Modifiers []ModifierOfferView `json:"modifiers"`
	Weathers  []string            `json:"weathers"`
}

// HandleGetCatalog returns the asset, modifier and weather tables
func HandleGetCatalog(c *catalog.Catalog) http.HandlerFunc {
	view := CatalogView{Version: c.Version()}
	for _, a := range c.Assets() {
		view.Assets = append(view.Assets, AssetView{
			Type:             a.Type,
			DisplayName:      a.DisplayName,
			Behavior:         a.Behavior().String(),
			BaseCost:         a.BaseCost,
			BaseYield:        a.BaseYield,
			HarvestItem:      a.HarvestItem,
			HarvestUnitValue: a.HarvestUnitValue,
			GrowthDurationMs: a.GrowthDurationMs,
			MaxLevel:         a.MaxLevel,
			EvolvedOnly:      a.EvolvedOnly,
		})
	}
	for _, key := range c.ModifierKeys() {
		def, err := c.Modifier(key)
		if err != nil {
			continue
		}
		view.Modifiers = append(view.Modifiers, ModifierOfferView{
			Key:      def.Key,
			Effect:   def.Effect,
			MaxLevel: def.MaxLevel,
			NextCost: def.CostBase,
		})
	}
	for _, w := range c.Weathers() {
		view.Weathers = append(view.Weathers, w.Key)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: view})
	}
}
