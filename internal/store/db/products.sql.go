package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, price, description, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findProductByID = `SELECT ` + productColumns + ` FROM products
WHERE id = $1`

func (q *Queries) FindProductByID(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, findProductByID, id))
}

const findProductByNameIgnoreCase = `SELECT ` + productColumns + ` FROM products
WHERE lower(name) = lower($1)`

func (q *Queries) FindProductByNameIgnoreCase(ctx context.Context, name string) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, findProductByNameIgnoreCase, name))
}

const existsByNameIgnoreCase = `SELECT EXISTS (
    SELECT 1 FROM products WHERE lower(name) = lower($1) AND id <> $2
)`

// ExistsByNameIgnoreCase ignores the row with ExcludeID; 0 excludes nothing.
func (q *Queries) ExistsByNameIgnoreCase(ctx context.Context, arg ExistsByNameIgnoreCaseParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, existsByNameIgnoreCase, arg.Name, arg.ExcludeID).Scan(&exists)
	return exists, err
}

const existsByID = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`

func (q *Queries) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, existsByID, id).Scan(&exists)
	return exists, err
}

const createProduct = `INSERT INTO products (name, price, description)
VALUES ($1, $2, $3)
RETURNING ` + productColumns

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct, arg.Name, arg.Price, arg.Description))
}

// updated_at must move forward even for two updates inside one clock tick.
const updateProduct = `UPDATE products
SET name        = $2,
    price       = $3,
    description = $4,
    updated_at  = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
WHERE id = $1
RETURNING ` + productColumns

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProduct, arg.ID, arg.Name, arg.Price, arg.Description))
}

const deleteProduct = `DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listProducts = `SELECT ` + productColumns + ` FROM products
ORDER BY id
LIMIT $1 OFFSET $2`

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

const countProducts = `SELECT count(*) FROM products`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProducts).Scan(&count)
	return count, err
}

const listAllProducts = `SELECT ` + productColumns + ` FROM products
ORDER BY id`

func (q *Queries) ListAllProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listAllProducts)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// The pattern is expected to be escaped with backslash already.
const searchProductsByName = `SELECT ` + productColumns + ` FROM products
WHERE name ILIKE '%' || $1 || '%' ESCAPE '\'
ORDER BY id`

func (q *Queries) SearchProductsByName(ctx context.Context, pattern string) ([]Product, error) {
	rows, err := q.db.Query(ctx, searchProductsByName, pattern)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}
