package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	clientColumns  = `client_id, client_code, name, phone, kind, created_at, created_by, last_updated_at, last_updated_by`
	productColumns = `product_id, sku, name, currency_code, unit_price, created_at, created_by, last_updated_at, last_updated_by`
)

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(pool *pgxpool.Pool) *PgxClientRepository {
	return &PgxClientRepository{BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.ClientRepositoryFacade  = (*PgxClientRepository)(nil)
	_ portsrepo.ProductRepositoryFacade = (*PgxClientRepository)(nil)
)

func scanClient(row rowScanner) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ClientID, &c.ClientCode, &c.Name, &c.Phone, &c.Kind,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ProductID, &p.SKU, &p.Name, &p.CurrencyCode, &p.UnitPrice,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	return p, err
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	return r.insert(ctx, "client "+client.ClientCode, query,
		client.ClientID, client.ClientCode, client.Name, client.Phone, client.Kind,
		client.CreatedAt, client.CreatedBy, client.LastUpdatedAt, client.LastUpdatedBy)
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := scanClient(r.db(ctx).QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE client_id = $1;`, clientID))
	if err != nil {
		return nil, mapReadError(err, "client "+clientID)
	}
	return &client, nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context, kind *domain.ClientKind) ([]domain.Client, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+clientColumns+` FROM clients
		WHERE ($1::text IS NULL OR kind = $1)
		ORDER BY client_code;`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *PgxClientRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	return r.insert(ctx, "product "+product.SKU, query,
		product.ProductID, product.SKU, product.Name, product.CurrencyCode, product.UnitPrice,
		product.CreatedAt, product.CreatedBy, product.LastUpdatedAt, product.LastUpdatedBy)
}

func (r *PgxClientRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := scanProduct(r.db(ctx).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1;`, productID))
	if err != nil {
		return nil, mapReadError(err, "product "+productID)
	}
	return &product, nil
}

// ListProducts lists the catalogue, restricted to one currency unless currency is empty.
func (r *PgxClientRepository) ListProducts(ctx context.Context, currency string) ([]domain.Product, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE ($1 = '' OR currency_code = $1)
		ORDER BY sku;`, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
