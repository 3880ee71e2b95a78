package entity

import "time"

// WebhookEvent evento de la pasarela persistido para dedup y auditoría/replay.
// EventHash es el SHA-256 del cuerpo crudo (unique). Una fila con ProcessedAt no nulo
// significa que el evento ya produjo sus efectos: cualquier reentrega es un no-op.
type WebhookEvent struct {
	ID          string
	EventHash   string
	PaymentID   string
	OrderID     string
	RawPayload  []byte
	ProcessedAt *time.Time
	CreatedAt   time.Time
}
