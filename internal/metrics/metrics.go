package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Garden Metrics
var (
	PlantsPlanted = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNamePlantsPlanted, Help: HelpTextPlantsPlanted},
		[]string{LabelAsset},
	)

	Harvests = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameHarvests, Help: HelpTextHarvests},
		[]string{LabelAsset, LabelMode},
	)

	CurrencyEarned = promauto.NewCounter(
		prometheus.CounterOpts{Name: MetricNameCurrencyEarned, Help: HelpTextCurrencyEarned},
	)

	ItemsHarvested = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameItemsHarvested, Help: HelpTextItemsHarvested},
		[]string{LabelItem},
	)

	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameMutations, Help: HelpTextMutations},
		[]string{LabelRarity},
	)

	Evolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameEvolutions, Help: HelpTextEvolutions},
		[]string{LabelAsset},
	)

	CatchUps = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameCatchUps, Help: HelpTextCatchUps},
		[]string{LabelOutcome},
	)

	CatchUpCurrency = promauto.NewCounter(
		prometheus.CounterOpts{Name: MetricNameCatchUpCurrency, Help: HelpTextCatchUpCurrency},
	)

	Saves = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameSaves, Help: HelpTextSaves},
		[]string{LabelReason, LabelStatus},
	)

	SaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSaveDuration,
			Help:    HelpTextSaveDuration,
			Buckets: HTTPLatencyBuckets,
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{Name: MetricNameActiveSessions, Help: HelpTextActiveSessions},
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameTickDuration,
			Help:    HelpTextTickDuration,
			Buckets: TickLatencyBuckets,
		},
	)

	PassiveIncome = promauto.NewCounter(
		prometheus.CounterOpts{Name: MetricNamePassiveIncome, Help: HelpTextPassiveIncome},
	)

	LedgerTransfers = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameLedgerTransfers, Help: HelpTextLedgerTransfers},
		[]string{LabelDirection, LabelStatus},
	)

	LedgerTransferAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameLedgerTransferSum, Help: HelpTextLedgerTransferSum},
		[]string{LabelDirection},
	)
)

// RecordLedgerTransfer counts one deposit or cash-out attempt
func RecordLedgerTransfer(direction string, amount int64, err error) {
	if err != nil {
		LedgerTransfers.WithLabelValues(direction, StatusFailure).Inc()
		return
	}
	LedgerTransfers.WithLabelValues(direction, StatusSuccess).Inc()
	LedgerTransferAmount.WithLabelValues(direction).Add(float64(amount))
}
