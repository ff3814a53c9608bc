package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `order_id, reference, client_id, wave_id, convoy_id, status, notes,
	currency_code, principal_amount, total_paid, has_debt,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(pool *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

func scanOrder(row rowScanner) (domain.BusinessOrder, error) {
	var (
		o        domain.BusinessOrder
		convoyID *string
	)
	err := row.Scan(
		&o.OrderID,
		&o.Reference,
		&o.ClientID,
		&o.WaveID,
		&convoyID,
		&o.Status,
		&o.Notes,
		&o.CurrencyCode,
		&o.PrincipalAmount,
		&o.TotalPaid,
		&o.HasDebt,
		&o.CreatedAt,
		&o.CreatedBy,
		&o.LastUpdatedAt,
		&o.LastUpdatedBy,
	)
	o.ConvoyID = deref(convoyID)
	return o, err
}

// SaveOrder inserts the header, then the items in one batch.
func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.BusinessOrder) error {
	query := `INSERT INTO business_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	err := r.insert(ctx, "order "+order.Reference, query,
		order.OrderID,
		order.Reference,
		order.ClientID,
		order.WaveID,
		nullable(order.ConvoyID),
		order.Status,
		order.Notes,
		order.CurrencyCode,
		order.PrincipalAmount,
		order.TotalPaid,
		order.HasDebt,
		order.CreatedAt,
		order.CreatedBy,
		order.LastUpdatedAt,
		order.LastUpdatedBy,
	)
	if err != nil {
		return err
	}
	return r.insertItems(ctx, order)
}

// UpdateOrder rewrites the header and replaces the items.
func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, order domain.BusinessOrder) error {
	query := `UPDATE business_orders
		SET client_id = $2, wave_id = $3, convoy_id = $4, status = $5, notes = $6, currency_code = $7,
			principal_amount = $8, total_paid = $9, has_debt = $10, last_updated_at = $11, last_updated_by = $12
		WHERE order_id = $1;`
	err := r.exec(ctx, "order "+order.OrderID, query,
		order.OrderID,
		order.ClientID,
		order.WaveID,
		nullable(order.ConvoyID),
		order.Status,
		order.Notes,
		order.CurrencyCode,
		order.PrincipalAmount,
		order.TotalPaid,
		order.HasDebt,
		order.LastUpdatedAt,
		order.LastUpdatedBy,
	)
	if err != nil {
		return err
	}
	if _, err := r.db(ctx).Exec(ctx, `DELETE FROM business_order_items WHERE order_id = $1;`, order.OrderID); err != nil {
		return fmt.Errorf("failed to clear items of order %s: %w", order.OrderID, err)
	}
	return r.insertItems(ctx, order)
}

func (r *PgxOrderRepository) insertItems(ctx context.Context, order domain.BusinessOrder) error {
	if len(order.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	itemQuery := `INSERT INTO business_order_items (item_id, order_id, position, product_id, description, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for i, item := range order.Items {
		batch.Queue(itemQuery,
			item.ItemID,
			order.OrderID,
			i,
			nullable(item.ProductID),
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.LineTotal,
		)
	}
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert items of order "+order.Reference, err)
	}
	return nil
}

// DeleteOrder removes the order; its items go with it.
func (r *PgxOrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	return r.exec(ctx, "order "+orderID, `DELETE FROM business_orders WHERE order_id = $1;`, orderID)
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.BusinessOrder, error) {
	return r.findOrder(ctx, `SELECT `+orderColumns+` FROM business_orders WHERE order_id = $1`, orderID)
}

func (r *PgxOrderRepository) FindOrderByIDForUpdate(ctx context.Context, orderID string) (*domain.BusinessOrder, error) {
	return r.findOrder(ctx, forUpdate(ctx, `SELECT `+orderColumns+` FROM business_orders WHERE order_id = $1`), orderID)
}

func (r *PgxOrderRepository) findOrder(ctx context.Context, query, orderID string) (*domain.BusinessOrder, error) {
	order, err := scanOrder(r.db(ctx).QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, mapReadError(err, "order "+orderID)
	}
	orders := []domain.BusinessOrder{order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListOrders returns the filtered orders newest first.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.BusinessOrder, error) {
	var (
		conditions []string
		args       []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.ClientID != "" {
		add("client_id = $%d", filter.ClientID)
	}
	if filter.WaveID != "" {
		add("wave_id = $%d", filter.WaveID)
	}
	if filter.ConvoyID != "" {
		add("convoy_id = $%d", filter.ConvoyID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.InDebt != nil {
		add("has_debt = $%d", *filter.InDebt)
	}

	query := `SELECT ` + orderColumns + ` FROM business_orders`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, reference DESC" + limitOffset(&args, filter.Limit, filter.Offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.BusinessOrder, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	rows.Close()

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills the items of orders with a single query.
func (r *PgxOrderRepository) loadItems(ctx context.Context, orders []domain.BusinessOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
		index[o.OrderID] = i
		orders[i].Items = make([]domain.OrderItem, 0)
	}

	rows, err := r.db(ctx).Query(ctx, `SELECT order_id, item_id, product_id, description, quantity, unit_price, line_total
		FROM business_order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position;`, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID   string
			productID *string
			item      domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ItemID, &productID, &item.Description, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return fmt.Errorf("failed to scan order item row: %w", err)
		}
		item.ProductID = deref(productID)
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

// limitOffset renders the LIMIT/OFFSET clause of a list query. A limit of 0 means all rows.
func limitOffset(args *[]any, limit, offset int) string {
	clause := ""
	if limit > 0 {
		*args = append(*args, limit)
		clause += fmt.Sprintf(" LIMIT $%d", len(*args))
	}
	if offset > 0 {
		*args = append(*args, offset)
		clause += fmt.Sprintf(" OFFSET $%d", len(*args))
	}
	return clause + ";"
}
