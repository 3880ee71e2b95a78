package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden. delivered y cancelled son terminales.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order una orden de compra. El estado avanza de forma monótona
// (pending → paid → shipped → delivered) salvo la cancelación explícita desde pending/paid.
type Order struct {
	ID              string
	OrderNo         string // número legible para el comprador
	UserID          string
	Status          string
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Carrier         string // transportadora (se fija al despachar)
	TrackingNumber  string
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []*OrderItem
}
