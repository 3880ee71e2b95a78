package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kryonshao/eshop-sub000/internal/application/dto"
	"github.com/kryonshao/eshop-sub000/internal/application/order"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/metrics"
)

// OrderHandler maneja checkout, consulta y transiciones de órdenes (protegido).
type OrderHandler struct {
	checkout   *order.CheckoutUseCase
	transition *order.TransitionUseCase
	query      *order.QueryUseCase
	// bodega por defecto resuelta una vez en el arranque
	defaultWarehouseID string
}

// NewOrderHandler construye el handler.
func NewOrderHandler(checkout *order.CheckoutUseCase, transition *order.TransitionUseCase, query *order.QueryUseCase, defaultWarehouseID string) *OrderHandler {
	return &OrderHandler{checkout: checkout, transition: transition, query: query, defaultWarehouseID: defaultWarehouseID}
}

// Checkout godoc
// @Summary      Crear orden (checkout)
// @Description  Resuelve cada línea a un SKU, reserva stock todo-o-nada y crea la
//
//	orden en pending. Si alguna línea no alcanza stock, nada queda reservado.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "líneas del carrito"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	warehouseID := in.WarehouseID
	if warehouseID == "" {
		warehouseID = h.defaultWarehouseID
	}
	input := order.CheckoutInput{
		UserID:          userID,
		WarehouseID:     warehouseID,
		ShippingAddress: in.ShippingAddress,
		Lines:           make([]order.CheckoutLine, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, order.CheckoutLine{
			ProductID:   l.ProductID,
			Attributes:  l.Attributes,
			ProductName: l.ProductName,
			ImageURL:    l.ImageURL,
			Quantity:    l.Quantity,
		})
	}

	o, err := h.checkout.Checkout(c.Context(), input)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("error").Inc()
		var lineErr *order.LineError
		if errors.As(err, &lineErr) {
			resp := dto.ErrorResponse{Code: "LINE_ERROR", Message: lineErr.Error()}
			if errors.Is(err, domain.ErrInsufficientStock) {
				resp.Code = "INSUFFICIENT_STOCK"
				return c.Status(fiber.StatusConflict).JSON(resp)
			}
			if errors.Is(err, domain.ErrNotFound) {
				resp.Code = "VARIANT_NOT_FOUND"
				return c.Status(fiber.StatusNotFound).JSON(resp)
			}
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return h.mapError(c, err)
	}
	metrics.CheckoutTotal.WithLabelValues("ok").Inc()
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrder(o, nil))
}

// Get godoc
// @Summary      Detalle de una orden con su línea de tiempo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, tracking, err := h.query.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	// Un comprador solo ve sus propias órdenes; el back-office ve todas.
	if role := GetRole(c); role != RoleAdmin && role != RoleOperator && o.UserID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.JSON(dto.FromOrder(o, tracking))
}

// List godoc
// @Summary      Órdenes del usuario autenticado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	page := pageFromQuery(c)
	list, err := h.query.ListOrders(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return h.mapError(c, err)
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.FromOrder(o, nil))
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// Cancel godoc
// @Summary      Cancelar una orden
// @Description  Legal desde pending o paid. Libera las reservas item por item
//
//	(best-effort): un fallo parcial no revierte la cancelación.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.CancelOrderRequest  false  "motivo"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	// Body opcional
	_ = c.BodyParser(&in)
	// Un comprador solo cancela sus propias órdenes.
	if role := GetRole(c); role != RoleAdmin && role != RoleOperator {
		o, _, err := h.query.GetOrder(c.Context(), c.Params("id"))
		if err != nil {
			return h.mapError(c, err)
		}
		if o.UserID != GetUserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
	}
	return h.applyTransition(c, entity.OrderStatusCancelled, order.TransitionOptions{
		Reason: in.Reason,
		UserID: GetUserID(c),
	})
}

// Ship godoc
// @Summary      Despachar una orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ShipOrderRequest  true  "carrier, tracking_number"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return h.applyTransition(c, entity.OrderStatusShipped, order.TransitionOptions{
		Carrier:        in.Carrier,
		TrackingNumber: in.TrackingNumber,
		UserID:         GetUserID(c),
	})
}

// Deliver godoc
// @Summary      Marcar una orden como entregada
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	return h.applyTransition(c, entity.OrderStatusDelivered, order.TransitionOptions{
		UserID: GetUserID(c),
	})
}

func (h *OrderHandler) applyTransition(c *fiber.Ctx, target string, opts order.TransitionOptions) error {
	result, err := h.transition.Transition(c.Context(), c.Params("id"), target, opts)
	if err != nil {
		return h.mapError(c, err)
	}
	metrics.OrderTransitionsTotal.WithLabelValues(target).Inc()
	return c.JSON(dto.FromOrder(result.Order, nil))
}

func (h *OrderHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición ilegal desde el estado actual"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrWarehouseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "WAREHOUSE_NOT_FOUND", Message: "bodega no encontrada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
