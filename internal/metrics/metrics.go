package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ListingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_listings_created_total", Help: "Total crop listings created"},
	)
	ListingModerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "market_listing_moderations_total", Help: "Admin approve/reject decisions"},
		[]string{"decision"},
	)
	OrdersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_orders_placed_total", Help: "Total orders placed"},
	)
	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "market_order_transitions_total", Help: "Order status changes by target status"},
		[]string{"status"},
	)
	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "market_messages_sent_total", Help: "Total chat messages stored"},
	)
	StoreConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "market_store_conflicts_total", Help: "Optimistic write conflicts per collection"},
		[]string{"collection"},
	)
)

func Register() {
	prometheus.MustRegister(ListingsCreated, ListingModerations, OrdersPlaced, OrderTransitions, MessagesSent, StoreConflicts)
}
