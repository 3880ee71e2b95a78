// Package metrics define los contadores Prometheus del servicio.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total de webhooks de pago recibidos",
		},
	)

	WebhookEventsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_rejected_total",
			Help: "Total de webhooks rechazados por firma inválida o cuerpo malformado",
		},
	)

	WebhookEventsDuplicateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_duplicate_total",
			Help: "Total de webhooks duplicados (mismo hash de contenido)",
		},
	)

	WebhookProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_duration_seconds",
			Help:    "Duración del procesamiento de un webhook",
			Buckets: prometheus.DefBuckets,
		},
	)

	CheckoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_total",
			Help: "Total de checkouts por resultado",
		},
		[]string{"result"},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Total de transiciones de estado de órdenes aplicadas",
		},
		[]string{"to"},
	)
)

// Register registra todas las métricas en el registry por defecto.
func Register() {
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(WebhookEventsRejectedTotal)
	prometheus.MustRegister(WebhookEventsDuplicateTotal)
	prometheus.MustRegister(WebhookProcessingDuration)
	prometheus.MustRegister(CheckoutTotal)
	prometheus.MustRegister(OrderTransitionsTotal)
}
