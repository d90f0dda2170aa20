// Package store provides persistence for catalog products.
package store

import (
	"context"

	"github.com/abgdnv/catalog/internal/store/db"
)

// ProductStore is an interface for product storage operations.
// Implementations are safe for concurrent use.
type ProductStore interface {
	// FindByID returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*db.Product, error)

	// FindByNameIgnoreCase matches the whole name, ignoring case.
	// Returns ErrProductNotFound when nothing matches.
	FindByNameIgnoreCase(ctx context.Context, name string) (*db.Product, error)

	// ExistsByNameIgnoreCase reports whether a product other than excludeID
	// has the given name, ignoring case. excludeID 0 excludes nothing.
	ExistsByNameIgnoreCase(ctx context.Context, name string, excludeID int64) (bool, error)

	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Create assigns the id and both timestamps.
	// Returns a *DuplicateNameError if the name is taken.
	Create(ctx context.Context, params db.CreateProductParams) (*db.Product, error)

	// Update overwrites name, price and description and moves UpdatedAt forward.
	// Returns ErrProductNotFound or a *DuplicateNameError.
	Update(ctx context.Context, params db.UpdateProductParams) (*db.Product, error)

	// DeleteByID returns ErrProductNotFound if nothing was deleted.
	DeleteByID(ctx context.Context, id int64) error

	// FindPage returns up to limit products ordered by id, skipping offset,
	// together with the total number of products.
	FindPage(ctx context.Context, offset, limit int32) ([]db.Product, int64, error)

	// FindAll returns every product ordered by id.
	FindAll(ctx context.Context) ([]db.Product, error)

	// SearchByName returns products whose name contains fragment, ignoring case.
	// The fragment is matched literally.
	SearchByName(ctx context.Context, fragment string) ([]db.Product, error)

	// WithinTx runs fn in a single transaction. The store passed to fn must be
	// used for every call that belongs to the transaction. A non-nil error from
	// fn rolls the transaction back and is returned as is.
	WithinTx(ctx context.Context, fn func(tx ProductStore) error) error

	// Ping checks that the backing storage is reachable.
	Ping(ctx context.Context) error
}
