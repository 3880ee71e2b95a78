package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kryonshao/eshop-sub000/internal/application/dto"
	"github.com/kryonshao/eshop-sub000/internal/application/inventory"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
)

// StockHandler maneja las operaciones de inventario del back-office (protegido).
type StockHandler struct {
	ledger *inventory.LedgerUseCase
	alerts *inventory.AlertsUseCase
	// bodega por defecto resuelta una vez en el arranque
	defaultWarehouseID string
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.LedgerUseCase, alerts *inventory.AlertsUseCase, defaultWarehouseID string) *StockHandler {
	return &StockHandler{ledger: ledger, alerts: alerts, defaultWarehouseID: defaultWarehouseID}
}

func (h *StockHandler) warehouseOrDefault(id string) string {
	if id == "" {
		return h.defaultWarehouseID
	}
	return id
}

// Get godoc
// @Summary      Contadores de stock de un SKU
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku_id        path   string  true   "ID del SKU"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = por defecto)"
// @Success      200  {object}  dto.StockInfoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{sku_id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	skuID := c.Params("sku_id")
	warehouseID := h.warehouseOrDefault(c.Query("warehouse_id"))
	info, err := h.ledger.GetStockInfo(c.Context(), skuID, warehouseID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(stockInfoResponse(info))
}

// Receive godoc
// @Summary      Registrar entrada de mercancía
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "sku_id, quantity, warehouse_id opcional"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receive [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.Receive(c.Context(), inventory.ReceiveInput{
		SKUID:       in.SKUID,
		WarehouseID: h.warehouseOrDefault(in.WarehouseID),
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "entrada registrada"})
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un delta con signo sobre available. En decrementos el contador
//
//	se fija en 0 como mínimo; el movimiento registra el delta efectivo.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "sku_id, delta, reason"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.Adjust(c.Context(), inventory.AdjustInput{
		SKUID:       in.SKUID,
		WarehouseID: h.warehouseOrDefault(in.WarehouseID),
		Delta:       in.Delta,
		Reason:      in.Reason,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}

// Transfer godoc
// @Summary      Traslado entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "sku_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.Transfer(c.Context(), inventory.TransferInput{
		SKUID:           in.SKUID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Reason:          in.Reason,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado aplicado"})
}

// SetThreshold godoc
// @Summary      Fijar umbral de alerta de stock bajo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AlertThresholdRequest  true  "sku_id, threshold"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/threshold [put]
func (h *StockHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.AlertThresholdRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.SetAlertThreshold(c.Context(), in.SKUID, h.warehouseOrDefault(in.WarehouseID), in.Threshold)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "umbral actualizado"})
}

// LowStock godoc
// @Summary      SKUs con stock en o bajo el umbral de alerta
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {object}  dto.PageResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.alerts.LowStock(c.Context(), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return h.mapError(c, err)
	}
	items := make([]dto.StockInfoResponse, 0, len(list))
	for _, s := range list {
		items = append(items, stockInfoResponse(s))
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// Movements godoc
// @Summary      Historial de movimientos de inventario
// @Description  Filtrar por sku_id o warehouse_id (al menos uno), con rango de fechas RFC3339.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku_id        query  string  false  "Filtrar por SKU"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Success      200  {object}  dto.PageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	skuID := c.Query("sku_id")
	warehouseID := c.Query("warehouse_id")
	if skuID == "" && warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku_id o warehouse_id requerido"})
	}
	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	page := pageFromQuery(c)

	var list []*entity.StockMovement
	if skuID != "" {
		list, err = h.alerts.MovementsBySKU(c.Context(), skuID, from, to, page.Limit, page.Offset)
	} else {
		list, err = h.alerts.MovementsByWarehouse(c.Context(), warehouseID, from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return h.mapError(c, err)
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:          m.ID,
			SKUID:       m.SKUID,
			WarehouseID: m.WarehouseID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			ReferenceID: m.ReferenceID,
			Reason:      m.Reason,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

func (h *StockHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrWarehouseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "WAREHOUSE_NOT_FOUND", Message: "bodega no encontrada"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func stockInfoResponse(s *entity.StockInfo) dto.StockInfoResponse {
	return dto.StockInfoResponse{
		SKUID:          s.SKUID,
		WarehouseID:    s.WarehouseID,
		Available:      s.Available,
		Reserved:       s.Reserved,
		Total:          s.Total(),
		AlertThreshold: s.AlertThreshold,
	}
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	return page
}

func dateRangeFromQuery(c *fiber.Ctx) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}
