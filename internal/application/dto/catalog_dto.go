package dto

import (
	"github.com/shopspring/decimal"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
)

// CreateSKURequest body para POST /api/skus.
type CreateSKURequest struct {
	ProductID  string                    `json:"product_id"`
	Attributes []entity.VariantAttribute `json:"attributes"`
	Price      decimal.Decimal           `json:"price"`
}

// ResolveSKURequest body para POST /api/skus/resolve.
type ResolveSKURequest struct {
	ProductID  string                    `json:"product_id"`
	Attributes []entity.VariantAttribute `json:"attributes"`
}

// SKUResponse representación de un SKU hacia afuera.
type SKUResponse struct {
	ID         string                    `json:"id"`
	ProductID  string                    `json:"product_id"`
	SKUCode    string                    `json:"sku_code"`
	Attributes []entity.VariantAttribute `json:"attributes"`
	Price      decimal.Decimal           `json:"price"`
	IsActive   bool                      `json:"is_active"`
}

// FromSKU arma la respuesta desde la entidad.
func FromSKU(s *entity.SKU) SKUResponse {
	return SKUResponse{
		ID:         s.ID,
		ProductID:  s.ProductID,
		SKUCode:    s.SKUCode,
		Attributes: s.Attributes,
		Price:      s.Price,
		IsActive:   s.IsActive,
	}
}
