package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "garden.harvested")
const (
	// EventTypePlanted is published when a plant is bought and placed on a plot
	EventTypePlanted = "garden.planted"

	// EventTypeHarvested is published for every full or half harvest
	EventTypeHarvested = "garden.harvested"

	// EventTypeMutated is published when a tick rolls a mutation onto a plant
	EventTypeMutated = "garden.mutated"

	// EventTypeEvolved is published when a plant evolves into its successor type
	EventTypeEvolved = "garden.evolved"

	// EventTypeCatchUp is published after the offline catch-up pass of a session load
	EventTypeCatchUp = "garden.catchup"

	// EventTypeSaved is published after every persistence attempt
	EventTypeSaved = "garden.saved"

	EventTypePassiveIncome = "garden.passive_income"
)
