package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_product_mutations_total",
			Help: "Total number of committed product mutations",
		},
		[]string{"action"},
	)

	EventsBroadcast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_events_broadcast_total",
			Help: "Total number of change events handed to the notification bus",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_websocket_clients",
			Help: "Number of currently connected websocket subscribers",
		},
	)

	CategoryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_category_cache_hits_total",
			Help: "Total number of category lookups served from the LRU cache",
		},
	)

	CategoryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_category_cache_misses_total",
			Help: "Total number of category lookups that fell through to MongoDB",
		},
	)
)
