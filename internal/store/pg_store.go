package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation     = "23505"
	nameUniqueIndexName = "products_name_lower_uidx"
)

var _ ProductStore = (*PgStore)(nil)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool // nil for a store bound to a transaction
	q  *db.Queries
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

func (p *PgStore) FindByID(ctx context.Context, id int64) (*db.Product, error) {
	product, err := p.q.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

func (p *PgStore) FindByNameIgnoreCase(ctx context.Context, name string) (*db.Product, error) {
	product, err := p.q.FindProductByNameIgnoreCase(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return &product, nil
}

func (p *PgStore) ExistsByNameIgnoreCase(ctx context.Context, name string, excludeID int64) (bool, error) {
	exists, err := p.q.ExistsByNameIgnoreCase(ctx, db.ExistsByNameIgnoreCaseParams{Name: name, ExcludeID: excludeID})
	if err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return exists, nil
}

func (p *PgStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := p.q.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

func (p *PgStore) Create(ctx context.Context, params db.CreateProductParams) (*db.Product, error) {
	product, err := p.q.CreateProduct(ctx, params)
	if err != nil {
		if isNameConflict(err) {
			return nil, &catalogerrors.DuplicateNameError{Name: params.Name}
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (p *PgStore) Update(ctx context.Context, params db.UpdateProductParams) (*db.Product, error) {
	product, err := p.q.UpdateProduct(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		if isNameConflict(err) {
			return nil, &catalogerrors.DuplicateNameError{Name: params.Name}
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	count, err := p.q.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if count == 0 {
		return catalogerrors.ErrProductNotFound
	}
	return nil
}

// FindPage reads the page and the total count in one transaction so both see the same snapshot.
func (p *PgStore) FindPage(ctx context.Context, offset, limit int32) ([]db.Product, int64, error) {
	var (
		products []db.Product
		total    int64
	)
	err := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		if products, err = qtx.ListProducts(ctx, db.ListProductsParams{Limit: limit, Offset: offset}); err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		if total, err = qtx.CountProducts(ctx); err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (p *PgStore) FindAll(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return products, nil
}

func (p *PgStore) SearchByName(ctx context.Context, fragment string) ([]db.Product, error) {
	products, err := p.q.SearchProductsByName(ctx, escapeLike(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// WithinTx starts a transaction, or joins the current one if p is already bound to a transaction.
func (p *PgStore) WithinTx(ctx context.Context, fn func(tx ProductStore) error) error {
	return p.withTransaction(ctx, func(qtx *db.Queries) error {
		return fn(&PgStore{q: qtx})
	})
}

func (p *PgStore) Ping(ctx context.Context) error {
	if p.db == nil {
		return nil
	}
	return p.db.Ping(ctx)
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(qtx *db.Queries) error) error {
	if p.db == nil {
		return fn(p.q)
	}
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	qtx := p.q.WithTx(tx)

	err = fn(qtx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("failed to rollback transaction: %w (cause: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func isNameConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == nameUniqueIndexName
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE metacharacters in s match literally under ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
