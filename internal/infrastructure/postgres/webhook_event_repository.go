package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

var _ repository.WebhookEventRepository = (*WebhookEventRepo)(nil)

// WebhookEventRepo implementación sobre PostgreSQL (usable con pool o tx).
type WebhookEventRepo struct {
	q Querier
}

// NewWebhookEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWebhookEventRepository(q Querier) *WebhookEventRepo {
	return &WebhookEventRepo{q: q}
}

// Create inserta el evento. domain.ErrDuplicate si el hash ya existe:
// el unique constraint resuelve la carrera entre entregas concurrentes del mismo evento.
func (r *WebhookEventRepo) Create(event *entity.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, event_hash, payment_id, order_id, raw_payload, processed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.EventHash, event.PaymentID, event.OrderID,
		event.RawPayload, event.ProcessedAt, event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create webhook event: %w", err)
	}
	return nil
}

// GetByHash busca un evento por el hash de su cuerpo. Devuelve nil sin error si no existe.
func (r *WebhookEventRepo) GetByHash(hash string) (*entity.WebhookEvent, error) {
	query := `
		SELECT id, event_hash, payment_id, order_id, raw_payload, processed_at, created_at
		FROM webhook_events WHERE event_hash = $1`
	var e entity.WebhookEvent
	err := r.q.QueryRow(context.Background(), query, hash).Scan(
		&e.ID, &e.EventHash, &e.PaymentID, &e.OrderID, &e.RawPayload, &e.ProcessedAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook event: %w", err)
	}
	return &e, nil
}

// MarkProcessed fija processed_at: desde ese momento toda reentrega es un no-op.
func (r *WebhookEventRepo) MarkProcessed(id string, at time.Time) error {
	query := `UPDATE webhook_events SET processed_at = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, at)
	if err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
