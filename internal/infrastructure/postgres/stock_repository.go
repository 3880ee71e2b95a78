package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene los contadores de un SKU en una bodega. Sin fila, devuelve contadores en cero.
func (r *StockRepo) Get(skuID, warehouseID string) (*entity.StockInfo, error) {
	query := `
		SELECT sku_id, warehouse_id, available, reserved, alert_threshold, updated_at
		FROM stock WHERE sku_id = $1 AND warehouse_id = $2`
	var s entity.StockInfo
	err := r.q.QueryRow(context.Background(), query, skuID, warehouseID).Scan(
		&s.SKUID, &s.WarehouseID, &s.Available, &s.Reserved, &s.AlertThreshold, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockInfo{SKUID: skuID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene los contadores y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(skuID, warehouseID string) (*entity.StockInfo, error) {
	query := `
		SELECT sku_id, warehouse_id, available, reserved, alert_threshold, updated_at
		FROM stock WHERE sku_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.StockInfo
	err := r.q.QueryRow(context.Background(), query, skuID, warehouseID).Scan(
		&s.SKUID, &s.WarehouseID, &s.Available, &s.Reserved, &s.AlertThreshold, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockInfo{SKUID: skuID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza los contadores (por SKU y bodega).
func (r *StockRepo) Upsert(stock *entity.StockInfo) error {
	query := `
		INSERT INTO stock (sku_id, warehouse_id, available, reserved, alert_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (sku_id, warehouse_id)
		DO UPDATE SET available = EXCLUDED.available, reserved = EXCLUDED.reserved,
			alert_threshold = EXCLUDED.alert_threshold, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.SKUID, stock.WarehouseID, stock.Available, stock.Reserved, stock.AlertThreshold,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// Reserve mueve qty de available a reserved con un único UPDATE condicionado.
// Si available < qty no se afecta ninguna fila y devuelve false: dos checkouts
// compitiendo por la última unidad producen exactamente un éxito.
func (r *StockRepo) Reserve(skuID, warehouseID string, qty int) (bool, error) {
	query := `
		UPDATE stock
		SET available = available - $3, reserved = reserved + $3, updated_at = now()
		WHERE sku_id = $1 AND warehouse_id = $2 AND available >= $3`
	tag, err := r.q.Exec(context.Background(), query, skuID, warehouseID, qty)
	if err != nil {
		return false, fmt.Errorf("reserve stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SumAvailable suma available del SKU en todas las bodegas.
func (r *StockRepo) SumAvailable(skuID string) (int, error) {
	query := `SELECT COALESCE(SUM(available), 0) FROM stock WHERE sku_id = $1`
	var total int
	if err := r.q.QueryRow(context.Background(), query, skuID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum available: %w", err)
	}
	return total, nil
}

// ListBelowThreshold filas con available <= alert_threshold (umbral > 0).
// warehouseID vacío = todas las bodegas.
func (r *StockRepo) ListBelowThreshold(warehouseID string, limit, offset int) ([]*entity.StockInfo, error) {
	query := `
		SELECT sku_id, warehouse_id, available, reserved, alert_threshold, updated_at
		FROM stock WHERE alert_threshold > 0 AND available <= alert_threshold`
	args := []any{}
	pos := 1
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY available ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockInfo
	for rows.Next() {
		var s entity.StockInfo
		if err := rows.Scan(&s.SKUID, &s.WarehouseID, &s.Available, &s.Reserved, &s.AlertThreshold, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
