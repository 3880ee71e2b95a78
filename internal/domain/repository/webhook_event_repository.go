package repository

import (
	"time"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
)

// WebhookEventRepository define el puerto de persistencia para eventos de la pasarela.
type WebhookEventRepository interface {
	// Create inserta el evento; domain.ErrDuplicate si el hash ya existe
	// (el unique constraint resuelve la carrera de entregas concurrentes).
	Create(event *entity.WebhookEvent) error
	// GetByHash devuelve nil sin error si el hash no está registrado.
	GetByHash(hash string) (*entity.WebhookEvent, error)
	// MarkProcessed fija processed_at: a partir de ahí toda reentrega es no-op.
	MarkProcessed(id string, at time.Time) error
}
