package webhook

import "context"

// Notification aviso al boundary externo (email/envíos) tras procesar un evento.
type Notification struct {
	OrderID       string `json:"order_id"`
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
	OrderStatus   string `json:"order_status,omitempty"`
}

// Notifier boundary de notificaciones, fire-and-forget: un fallo aquí jamás
// revierte la actualización financiera ya confirmada ni la respuesta HTTP.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
