package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the front-end collectors.
type Metrics struct {
	MessagesProcessed    prometheus.Counter
	CallbacksProcessed   prometheus.Counter
	ErrorsTotal          prometheus.Counter
	PanicsRecovered      prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	ItemsSaved           *prometheus.CounterVec
	Exports              prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MessagesProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_messages_processed_total",
			Help: "Total number of messages processed",
		}),
		CallbacksProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_callbacks_processed_total",
			Help: "Total number of callback queries processed",
		}),
		ErrorsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_errors_total",
			Help: "Total number of errors shown to users",
		}),
		PanicsRecovered: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_panics_recovered_total",
			Help: "Panics recovered while handling updates",
		}),
		UpdateProcessingTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "telegram_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
		ItemsSaved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_bot_items_saved_total",
			Help: "Items created or edited through the bot",
		}, []string{"action"}),
		Exports: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_exports_total",
			Help: "Excel exports sent",
		}),
	}
}
