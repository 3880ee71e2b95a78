package entity

import "time"

// OrderTracking entrada append-only de la línea de tiempo de una orden.
// Exactamente una por transición de estado; nunca se muta.
type OrderTracking struct {
	ID             string
	OrderID        string
	Status         string
	Description    string
	Carrier        string
	TrackingNumber string
	CreatedAt      time.Time
}
