package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
	domainsku "github.com/kryonshao/eshop-sub000/internal/domain/sku"
)

// UseCase resuelve variantes a SKUs concretos y administra SKUs del catálogo.
// La resolución es lookup puro, sin mutación.
type UseCase struct {
	skuRepo repository.SKURepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(skuRepo repository.SKURepository) *UseCase {
	return &UseCase{skuRepo: skuRepo}
}

// Resolve mapea (producto, atributos de variante) a un SKU activo único.
// Coincidencia por superconjunto case-insensitive: todos los atributos suministrados
// deben coincidir; atributos extra del SKU no se exigen. domain.ErrNotFound significa
// "esta configuración no se puede vender", no un agotamiento de stock.
//
// Si una consulta parcial coincide con varios SKUs activos, se prefiere el de conteo
// exacto de atributos y si no, el primero en orden de creación (determinista).
func (uc *UseCase) Resolve(ctx context.Context, productID string, attrs []entity.VariantAttribute) (*entity.SKU, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	candidates, err := uc.skuRepo.ListActiveByProduct(productID)
	if err != nil {
		return nil, err
	}
	var first *entity.SKU
	for _, s := range candidates {
		if !domainsku.Matches(s.Attributes, attrs) {
			continue
		}
		if len(s.Attributes) == len(attrs) {
			return s, nil
		}
		if first == nil {
			first = s
		}
	}
	if first == nil {
		return nil, domain.ErrNotFound
	}
	return first, nil
}

// CreateSKUInput entrada para la creación de SKU por el comerciante.
type CreateSKUInput struct {
	ProductID  string
	Attributes []entity.VariantAttribute
	Price      decimal.Decimal
}

// CreateSKU crea un SKU activo con código derivado de forma determinista.
func (uc *UseCase) CreateSKU(ctx context.Context, input CreateSKUInput) (*entity.SKU, error) {
	if input.ProductID == "" || input.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	for _, a := range input.Attributes {
		if a.Name == "" || a.Value == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	s := &entity.SKU{
		ID:         uuid.New().String(),
		ProductID:  input.ProductID,
		SKUCode:    domainsku.BuildSKUCode(input.ProductID, input.Attributes),
		Attributes: input.Attributes,
		Price:      input.Price,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.skuRepo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// DeactivateSKU desactiva (soft delete) un SKU; nunca se destruye porque las
// órdenes históricas lo referencian.
func (uc *UseCase) DeactivateSKU(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	s, err := uc.skuRepo.GetByID(id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return uc.skuRepo.Deactivate(id)
}

// ListSKUs lista los SKUs de un producto (activos e inactivos) con paginación.
func (uc *UseCase) ListSKUs(ctx context.Context, productID string, limit, offset int) ([]*entity.SKU, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.skuRepo.ListByProduct(productID, limit, offset)
}
