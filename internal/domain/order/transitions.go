package order

import "github.com/kryonshao/eshop-sub000/internal/domain/entity"

// Sucesores permitidos por estado. delivered y cancelled no aparecen como llave: son terminales.
var allowedTransitions = map[string][]string{
	entity.OrderStatusPending: {entity.OrderStatusPaid, entity.OrderStatusCancelled},
	entity.OrderStatusPaid:    {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped: {entity.OrderStatusDelivered},
}

// CanTransition indica si el paso from → to está permitido por el ciclo de vida de la orden.
// Es el guardián real de ordenamiento: un webhook tardío o duplicado que pida una transición
// desde un estado terminal siempre es rechazado aquí.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si un estado no admite más transiciones.
func IsTerminal(status string) bool {
	return len(allowedTransitions[status]) == 0
}

// Plantillas fijas de la línea de tiempo, por estado destino.
// Son los textos que ve el comprador en el storefront.
var trackingDescriptions = map[string]string{
	entity.OrderStatusPending:   "订单已创建，等待支付",
	entity.OrderStatusPaid:      "支付已完成",
	entity.OrderStatusShipped:   "订单已发货",
	entity.OrderStatusDelivered: "订单已送达",
	entity.OrderStatusCancelled: "订单已取消",
}

// TrackingDescription devuelve la descripción legible de la entrada de tracking
// para el estado destino dado.
func TrackingDescription(status string) string {
	return trackingDescriptions[status]
}
