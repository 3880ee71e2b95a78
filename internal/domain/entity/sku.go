package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantAttribute un atributo de variante con nombre y valor (ej. color=rojo, talla=M).
type VariantAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SKU representa una variante concreta vendible de un producto (producto + combinación de atributos).
// Se desactiva (soft delete) en lugar de borrarse: las órdenes históricas lo referencian.
type SKU struct {
	ID         string
	ProductID  string
	SKUCode    string // legible, derivado de producto + atributos; informativo, no es la PK
	Attributes []VariantAttribute
	Price      decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
