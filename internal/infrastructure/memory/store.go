// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests de casos de uso: mismas semánticas que el adaptador
// PostgreSQL (guarded update, dedup por hash, rollback) sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kryonshao/eshop-sub000/internal/application/inventory"
	"github.com/kryonshao/eshop-sub000/internal/application/order"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/domain/entity"
	"github.com/kryonshao/eshop-sub000/internal/domain/repository"
)

// Los adaptadores implementan todos los puertos y el Store ambos tx runners.
var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.SKURepository           = (*SKURepo)(nil)
	_ repository.OrderRepository         = (*OrderRepo)(nil)
	_ repository.OrderTrackingRepository = (*TrackingRepo)(nil)
	_ repository.PaymentRepository       = (*PaymentRepo)(nil)
	_ repository.WebhookEventRepository  = (*EventRepo)(nil)
	_ repository.WarehouseRepository     = (*WarehouseRepo)(nil)
	_ inventory.TxRunner                 = (*Store)(nil)
	_ order.TxRunner                     = (*Store)(nil)
)

type stockKey struct {
	skuID       string
	warehouseID string
}

// Store almacén en memoria con semántica transaccional por snapshot.
// Las transacciones se serializan (una a la vez): si fn devuelve error,
// se restaura el estado previo, igual que un ROLLBACK.
type Store struct {
	mu   sync.Mutex // protege el estado
	txMu sync.Mutex // serializa transacciones

	stock      map[stockKey]entity.StockInfo
	movements  []entity.StockMovement
	skus       map[string]entity.SKU
	orders     map[string]entity.Order
	items      map[string][]entity.OrderItem // por orderID
	tracking   []entity.OrderTracking
	payments   map[string]entity.Payment // por gateway_payment_id
	events     map[string]entity.WebhookEvent
	eventsHash map[string]string // event_hash -> event ID
	warehouses map[string]entity.Warehouse
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		stock:      make(map[stockKey]entity.StockInfo),
		skus:       make(map[string]entity.SKU),
		orders:     make(map[string]entity.Order),
		items:      make(map[string][]entity.OrderItem),
		payments:   make(map[string]entity.Payment),
		events:     make(map[string]entity.WebhookEvent),
		eventsHash: make(map[string]string),
		warehouses: make(map[string]entity.Warehouse),
	}
}

// Accesores a los adaptadores por puerto.

func (s *Store) Stock() *StockRepo         { return &StockRepo{s} }
func (s *Store) Movements() *MovementRepo  { return &MovementRepo{s} }
func (s *Store) SKUs() *SKURepo            { return &SKURepo{s} }
func (s *Store) Orders() *OrderRepo        { return &OrderRepo{s} }
func (s *Store) Tracking() *TrackingRepo   { return &TrackingRepo{s} }
func (s *Store) Payments() *PaymentRepo    { return &PaymentRepo{s} }
func (s *Store) Events() *EventRepo        { return &EventRepo{s} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s} }

// ── Transacciones ────────────────────────────────────────────────

type snapshot struct {
	stock      map[stockKey]entity.StockInfo
	movements  []entity.StockMovement
	skus       map[string]entity.SKU
	orders     map[string]entity.Order
	items      map[string][]entity.OrderItem
	tracking   []entity.OrderTracking
	payments   map[string]entity.Payment
	events     map[string]entity.WebhookEvent
	eventsHash map[string]string
	warehouses map[string]entity.Warehouse
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		stock:      make(map[stockKey]entity.StockInfo, len(s.stock)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		skus:       make(map[string]entity.SKU, len(s.skus)),
		orders:     make(map[string]entity.Order, len(s.orders)),
		items:      make(map[string][]entity.OrderItem, len(s.items)),
		tracking:   append([]entity.OrderTracking(nil), s.tracking...),
		payments:   make(map[string]entity.Payment, len(s.payments)),
		events:     make(map[string]entity.WebhookEvent, len(s.events)),
		eventsHash: make(map[string]string, len(s.eventsHash)),
		warehouses: make(map[string]entity.Warehouse, len(s.warehouses)),
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.skus {
		snap.skus[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = append([]entity.OrderItem(nil), v...)
	}
	for k, v := range s.payments {
		snap.payments[k] = v
	}
	for k, v := range s.events {
		snap.events[k] = v
	}
	for k, v := range s.eventsHash {
		snap.eventsHash[k] = v
	}
	for k, v := range s.warehouses {
		snap.warehouses[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = snap.stock
	s.movements = snap.movements
	s.skus = snap.skus
	s.orders = snap.orders
	s.items = snap.items
	s.tracking = snap.tracking
	s.payments = snap.payments
	s.events = snap.events
	s.eventsHash = snap.eventsHash
	s.warehouses = snap.warehouses
}

// Run ejecuta fn de forma transaccional: error => rollback por snapshot.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(s.Stock(), s.Movements()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunOrder igual que Run pero con los repos del ciclo orden-pago.
func (s *Store) RunOrder(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
	trackingRepo repository.OrderTrackingRepository,
	paymentRepo repository.PaymentRepository,
	eventRepo repository.WebhookEventRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(s.Stock(), s.Movements(), s.Orders(), s.Tracking(), s.Payments(), s.Events()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ── StockRepository ──────────────────────────────────────────────

// StockRepo adaptador del puerto de stock sobre el Store.
type StockRepo struct{ s *Store }

func (r *StockRepo) Get(skuID, warehouseID string) (*entity.StockInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.stock[stockKey{skuID, warehouseID}]; ok {
		cp := st
		return &cp, nil
	}
	return &entity.StockInfo{SKUID: skuID, WarehouseID: warehouseID}, nil
}

func (r *StockRepo) GetForUpdate(skuID, warehouseID string) (*entity.StockInfo, error) {
	return r.Get(skuID, warehouseID)
}

func (r *StockRepo) Upsert(stock *entity.StockInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *stock
	cp.UpdatedAt = time.Now()
	r.s.stock[stockKey{stock.SKUID, stock.WarehouseID}] = cp
	return nil
}

func (r *StockRepo) Reserve(skuID, warehouseID string, qty int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := stockKey{skuID, warehouseID}
	st, ok := r.s.stock[key]
	if !ok || st.Available < qty {
		return false, nil
	}
	st.Available -= qty
	st.Reserved += qty
	st.UpdatedAt = time.Now()
	r.s.stock[key] = st
	return true, nil
}

func (r *StockRepo) SumAvailable(skuID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for k, st := range r.s.stock {
		if k.skuID == skuID {
			total += st.Available
		}
	}
	return total, nil
}

func (r *StockRepo) ListBelowThreshold(warehouseID string, limit, offset int) ([]*entity.StockInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.StockInfo
	for k, st := range r.s.stock {
		if warehouseID != "" && k.warehouseID != warehouseID {
			continue
		}
		if st.AlertThreshold > 0 && st.Available <= st.AlertThreshold {
			cp := st
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Available < all[j].Available })
	return paginate(all, limit, offset), nil
}

// ── StockMovementRepository ──────────────────────────────────────

// MovementRepo adaptador del log de movimientos sobre el Store.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *MovementRepo) ListBySKU(skuID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.SKUID == skuID }, from, to, limit, offset)
}

func (r *MovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.WarehouseID == warehouseID }, from, to, limit, offset)
}

func (r *MovementRepo) list(match func(*entity.StockMovement) bool, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if !match(&m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := m
		all = append(all, &cp)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), nil
}

// ── SKURepository ────────────────────────────────────────────────

// SKURepo adaptador del catálogo de SKUs sobre el Store.
type SKURepo struct{ s *Store }

func (r *SKURepo) Create(sku *entity.SKU) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.skus {
		if existing.ProductID == sku.ProductID && existing.SKUCode == sku.SKUCode {
			return domain.ErrDuplicate
		}
	}
	r.s.skus[sku.ID] = *sku
	return nil
}

func (r *SKURepo) GetByID(id string) (*entity.SKU, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sku, ok := r.s.skus[id]; ok {
		cp := sku
		return &cp, nil
	}
	return nil, nil
}

func (r *SKURepo) ListActiveByProduct(productID string) ([]*entity.SKU, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.SKU
	for id := range r.s.skus {
		sku := r.s.skus[id]
		if sku.ProductID == productID && sku.IsActive {
			cp := sku
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

func (r *SKURepo) ListByProduct(productID string, limit, offset int) ([]*entity.SKU, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.SKU
	for id := range r.s.skus {
		sku := r.s.skus[id]
		if sku.ProductID == productID {
			cp := sku
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, limit, offset), nil
}

func (r *SKURepo) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sku, ok := r.s.skus[id]
	if !ok {
		return domain.ErrNotFound
	}
	sku.IsActive = false
	sku.UpdatedAt = time.Now()
	r.s.skus[id] = sku
	return nil
}

// ── OrderRepository ──────────────────────────────────────────────

// OrderRepo adaptador de órdenes sobre el Store.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *order
	cp.Items = nil
	r.s.orders[order.ID] = cp
	items := make([]entity.OrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		itCp := *it
		itCp.OrderID = order.ID
		items = append(items, itCp)
	}
	r.s.items[order.ID] = items
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := o
	for i := range r.s.items[id] {
		itCp := r.s.items[id][i]
		cp.Items = append(cp.Items, &itCp)
	}
	return &cp, nil
}

func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *OrderRepo) UpdateStatus(order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *order
	cp.Items = nil
	cp.UpdatedAt = time.Now()
	r.s.orders[order.ID] = cp
	return nil
}

func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Order
	for id := range r.s.orders {
		o := r.s.orders[id]
		if o.UserID == userID {
			cp := o
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), nil
}

// ── OrderTrackingRepository ──────────────────────────────────────

// TrackingRepo adaptador de la línea de tiempo sobre el Store.
type TrackingRepo struct{ s *Store }

func (r *TrackingRepo) Create(tracking *entity.OrderTracking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tracking = append(r.s.tracking, *tracking)
	return nil
}

func (r *TrackingRepo) ListByOrder(orderID string) ([]*entity.OrderTracking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.OrderTracking
	for i := range r.s.tracking {
		if r.s.tracking[i].OrderID == orderID {
			cp := r.s.tracking[i]
			all = append(all, &cp)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

// ── PaymentRepository ────────────────────────────────────────────

// PaymentRepo adaptador de pagos sobre el Store.
type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Upsert(payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *payment
	cp.UpdatedAt = time.Now()
	r.s.payments[payment.GatewayPaymentID] = cp
	return nil
}

func (r *PaymentRepo) GetByGatewayID(gatewayPaymentID string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.payments[gatewayPaymentID]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *PaymentRepo) GetByOrderID(orderID string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.OrderID == orderID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

// ── WebhookEventRepository ───────────────────────────────────────

// EventRepo adaptador de eventos de la pasarela sobre el Store.
type EventRepo struct{ s *Store }

func (r *EventRepo) Create(event *entity.WebhookEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.eventsHash[event.EventHash]; ok {
		return domain.ErrDuplicate
	}
	r.s.events[event.ID] = *event
	r.s.eventsHash[event.EventHash] = event.ID
	return nil
}

func (r *EventRepo) GetByHash(hash string) (*entity.WebhookEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.eventsHash[hash]
	if !ok {
		return nil, nil
	}
	e := r.s.events[id]
	cp := e
	return &cp, nil
}

func (r *EventRepo) MarkProcessed(id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	atCp := at
	e.ProcessedAt = &atCp
	r.s.events[id] = e
	return nil
}

// ── WarehouseRepository ──────────────────────────────────────────

// WarehouseRepo adaptador de bodegas sobre el Store.
type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.warehouses {
		if w.Code == warehouse.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		cp := w
		return &cp, nil
	}
	return nil, nil
}

func (r *WarehouseRepo) GetByCode(code string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.warehouses {
		if w.Code == code {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Warehouse
	for id := range r.s.warehouses {
		w := r.s.warehouses[id]
		cp := w
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, limit, offset), nil
}

func paginate[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
