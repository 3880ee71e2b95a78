package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
)

// CheckoutLineRequest una línea del carrito en el body de checkout.
type CheckoutLineRequest struct {
	ProductID   string                    `json:"product_id"`
	Attributes  []entity.VariantAttribute `json:"attributes"`
	ProductName string                    `json:"product_name"`
	ImageURL    string                    `json:"image_url,omitempty"`
	Quantity    int                       `json:"quantity"`
}

// CheckoutRequest body para POST /api/orders.
type CheckoutRequest struct {
	ShippingAddress string                `json:"shipping_address"`
	WarehouseID     string                `json:"warehouse_id,omitempty"` // vacío = bodega por defecto
	Lines           []CheckoutLineRequest `json:"lines"`
}

// ShipOrderRequest body para POST /api/orders/:id/ship.
type ShipOrderRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// CancelOrderRequest body para POST /api/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderItemResponse snapshot de un item de la orden.
type OrderItemResponse struct {
	SKUID       string          `json:"sku_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Quantity    int             `json:"quantity"`
}

// OrderTrackingResponse una entrada de la línea de tiempo.
type OrderTrackingResponse struct {
	Status         string    `json:"status"`
	Description    string    `json:"description"`
	Carrier        string    `json:"carrier,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderResponse representación de una orden hacia afuera.
type OrderResponse struct {
	ID              string                  `json:"id"`
	OrderNo         string                  `json:"order_no"`
	Status          string                  `json:"status"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	ShippingAddress string                  `json:"shipping_address,omitempty"`
	Carrier         string                  `json:"carrier,omitempty"`
	TrackingNumber  string                  `json:"tracking_number,omitempty"`
	PaidAt          *time.Time              `json:"paid_at,omitempty"`
	ShippedAt       *time.Time              `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time              `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	Items           []OrderItemResponse     `json:"items,omitempty"`
	Tracking        []OrderTrackingResponse `json:"tracking,omitempty"`
}

// FromOrder arma la respuesta desde la entidad.
func FromOrder(o *entity.Order, tracking []*entity.OrderTracking) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Carrier:         o.Carrier,
		TrackingNumber:  o.TrackingNumber,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			SKUID:       it.SKUID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ImageURL:    it.ImageURL,
			Price:       it.Price,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
		})
	}
	for _, tr := range tracking {
		resp.Tracking = append(resp.Tracking, OrderTrackingResponse{
			Status:         tr.Status,
			Description:    tr.Description,
			Carrier:        tr.Carrier,
			TrackingNumber: tr.TrackingNumber,
			CreatedAt:      tr.CreatedAt,
		})
	}
	return resp
}
