package inventory

import (
	"context"

	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: la lectura de contadores y la escritura
// de contadores + movimiento nunca exponen estado intermedio.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
