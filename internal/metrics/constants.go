package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Garden metric names
const (
	MetricNamePlantsPlanted     = "garden_plants_planted_total"
	MetricNameHarvests          = "garden_harvests_total"
	MetricNameCurrencyEarned    = "garden_currency_earned_total"
	MetricNameItemsHarvested    = "garden_items_harvested_total"
	MetricNameMutations         = "garden_mutations_total"
	MetricNameEvolutions        = "garden_evolutions_total"
	MetricNameCatchUps          = "garden_catchups_total"
	MetricNameCatchUpCurrency   = "garden_catchup_currency_total"
	MetricNameSaves             = "garden_saves_total"
	MetricNameSaveDuration      = "garden_save_duration_seconds"
	MetricNameActiveSessions    = "garden_active_sessions"
	MetricNameTickDuration      = "garden_tick_duration_seconds"
	MetricNamePassiveIncome     = "garden_passive_income_total"
	MetricNameLedgerTransfers   = "garden_ledger_transfers_total"
	MetricNameLedgerTransferSum = "garden_ledger_transfer_amount_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of garden events observed by the metrics collector"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Garden metric help text
const (
	HelpTextPlantsPlanted     = "Plants bought and placed, by asset type"
	HelpTextHarvests          = "Harvests by asset type and mode"
	HelpTextCurrencyEarned    = "Currency credited by live harvests"
	HelpTextItemsHarvested    = "Items credited by live harvests, by item"
	HelpTextMutations         = "Mutations rolled onto plants, by rarity"
	HelpTextEvolutions        = "Plant evolutions, by target asset type"
	HelpTextCatchUps          = "Offline catch-up passes, by outcome"
	HelpTextCatchUpCurrency   = "Currency credited by offline catch-up"
	HelpTextSaves             = "Garden save attempts, by reason and status"
	HelpTextSaveDuration      = "Garden save latency in seconds"
	HelpTextActiveSessions    = "Number of live garden sessions"
	HelpTextTickDuration      = "Duration of one garden tick in seconds"
	HelpTextPassiveIncome     = "Currency credited by passive income assets"
	HelpTextLedgerTransfers   = "Ledger deposits and cash-outs, by direction and status"
	HelpTextLedgerTransferSum = "Currency moved against the ledger, by direction"
)

// ============================================================================
// Labels
// ============================================================================

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelAsset     = "asset"
	LabelMode      = "mode"
	LabelItem      = "item"
	LabelRarity    = "rarity"
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
	LabelDirection = "direction"
)

// Label values
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	DirectionIn    = "deposit"
	DirectionOut   = "cashout"
	PathUnmatched  = "unmatched"
)

// ============================================================================
// Buckets
// ============================================================================

// HTTPLatencyBuckets covers 5ms..10s
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// TickLatencyBuckets covers 10µs..100ms
var TickLatencyBuckets = []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMetricsRecorded      = "Metrics recorded for event"
	LogMsgEventPayloadMismatch = "Event payload has unexpected shape"
)
