package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kryonshao/eshop-sub000/internal/application/catalog"
	"github.com/kryonshao/eshop-sub000/internal/application/dto"
	"github.com/kryonshao/eshop-sub000/internal/domain"
)

// CatalogHandler maneja el catálogo de variantes: alta, resolución y baja de SKUs (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un SKU
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSKURequest  true  "product_id, attributes, price"
// @Success      201   {object}  dto.SKUResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/skus [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSKURequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.CreateSKU(c.Context(), catalog.CreateSKUInput{
		ProductID:  in.ProductID,
		Attributes: in.Attributes,
		Price:      in.Price,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSKU(s))
}

// Resolve godoc
// @Summary      Resolver atributos de variante a un SKU
// @Description  Matching superset case-insensitive contra los SKUs activos del producto.
//
//	Con varios candidatos gana el de conteo exacto de atributos.
//
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolveSKURequest  true  "product_id, attributes"
// @Success      200   {object}  dto.SKUResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/skus/resolve [post]
func (h *CatalogHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveSKURequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.Resolve(c.Context(), in.ProductID, in.Attributes)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.FromSKU(s))
}

// List godoc
// @Summary      SKUs de un producto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {object}  dto.PageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/skus [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.uc.ListSKUs(c.Context(), c.Query("product_id"), page.Limit, page.Offset)
	if err != nil {
		return h.mapError(c, err)
	}
	items := make([]dto.SKUResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.FromSKU(s))
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// Deactivate godoc
// @Summary      Desactivar un SKU (soft delete)
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del SKU"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/skus/{id} [delete]
func (h *CatalogHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.DeactivateSKU(c.Context(), c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "sku desactivado"})
}

func (h *CatalogHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "variante no encontrada"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la variante ya existe"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
