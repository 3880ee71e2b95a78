package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

var _ repository.SKURepository = (*SKURepo)(nil)

// SKURepo implementación de SKURepository sobre PostgreSQL (usable con pool o tx).
// Los atributos de variante se guardan como JSONB.
type SKURepo struct {
	q Querier
}

// NewSKURepository construye el adaptador. Pasar pool o tx (Querier).
func NewSKURepository(q Querier) *SKURepo {
	return &SKURepo{q: q}
}

// Create inserta un SKU. domain.ErrDuplicate si el código ya existe para el producto.
func (r *SKURepo) Create(sku *entity.SKU) error {
	query := `
		INSERT INTO skus (id, product_id, sku_code, attributes, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		sku.ID, sku.ProductID, sku.SKUCode, sku.Attributes, sku.Price,
		sku.IsActive, sku.CreatedAt, sku.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sku: %w", err)
	}
	return nil
}

// GetByID obtiene un SKU por ID. Devuelve nil sin error si no existe.
func (r *SKURepo) GetByID(id string) (*entity.SKU, error) {
	query := `
		SELECT id, product_id, sku_code, attributes, price, is_active, created_at, updated_at
		FROM skus WHERE id = $1`
	s, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku: %w", err)
	}
	return s, nil
}

// ListActiveByProduct SKUs activos del producto en orden de creación.
func (r *SKURepo) ListActiveByProduct(productID string) ([]*entity.SKU, error) {
	query := `
		SELECT id, product_id, sku_code, attributes, price, is_active, created_at, updated_at
		FROM skus WHERE product_id = $1 AND is_active = true
		ORDER BY created_at ASC`
	return r.list(query, productID)
}

// ListByProduct lista todos los SKUs del producto (activos o no) con paginación.
func (r *SKURepo) ListByProduct(productID string, limit, offset int) ([]*entity.SKU, error) {
	query := `
		SELECT id, product_id, sku_code, attributes, price, is_active, created_at, updated_at
		FROM skus WHERE product_id = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	return r.list(query, productID, limit, offset)
}

// Deactivate marca el SKU como inactivo (soft delete).
func (r *SKURepo) Deactivate(id string) error {
	query := `UPDATE skus SET is_active = false, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate sku: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SKURepo) scanOne(row pgx.Row) (*entity.SKU, error) {
	var s entity.SKU
	if err := row.Scan(&s.ID, &s.ProductID, &s.SKUCode, &s.Attributes, &s.Price,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SKURepo) list(query string, args ...any) ([]*entity.SKU, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()
	var list []*entity.SKU
	for rows.Next() {
		var s entity.SKU
		if err := rows.Scan(&s.ID, &s.ProductID, &s.SKUCode, &s.Attributes, &s.Price,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
