package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract exercises behaviour every ProductStore must share.
// fresh must return an empty store.
func storeContract(t *testing.T, fresh func(t *testing.T) ProductStore) {
	ctx := context.Background()
	desc := "15 inch, 16GB"

	create := func(t *testing.T, s ProductStore, name string) *db.Product {
		t.Helper()
		p, err := s.Create(ctx, db.CreateProductParams{Name: name, Price: decimal.RequireFromString("10.00")})
		require.NoError(t, err)
		return p
	}

	t.Run("Create assigns id and equal timestamps", func(t *testing.T) {
		// given
		s := fresh(t)

		// when
		p, err := s.Create(ctx, db.CreateProductParams{
			Name:        "Notebook Dell",
			Price:       decimal.RequireFromString("2499.99"),
			Description: &desc,
		})

		// then
		require.NoError(t, err)
		assert.Positive(t, p.ID)
		assert.Equal(t, "Notebook Dell", p.Name)
		assert.True(t, decimal.RequireFromString("2499.99").Equal(p.Price))
		require.NotNil(t, p.Description)
		assert.Equal(t, desc, *p.Description)
		assert.False(t, p.CreatedAt.IsZero())
		assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
	})

	t.Run("Create keeps absent description absent", func(t *testing.T) {
		s := fresh(t)
		p := create(t, s, "Mouse")
		found, err := s.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, found.Description)
	})

	t.Run("Create rejects duplicate name ignoring case", func(t *testing.T) {
		// given
		s := fresh(t)
		create(t, s, "Notebook Dell")

		// when
		_, err := s.Create(ctx, db.CreateProductParams{Name: "NOTEBOOK dell", Price: decimal.NewFromInt(1)})

		// then
		var dup *catalogerrors.DuplicateNameError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "NOTEBOOK dell", dup.Name)
	})

	t.Run("Ids are increasing and not reused", func(t *testing.T) {
		s := fresh(t)
		first := create(t, s, "First product")
		require.NoError(t, s.DeleteByID(ctx, first.ID))
		second := create(t, s, "Second product")
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("FindByID not found", func(t *testing.T) {
		s := fresh(t)
		_, err := s.FindByID(ctx, 999)
		assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
	})

	t.Run("FindByNameIgnoreCase", func(t *testing.T) {
		// given
		s := fresh(t)
		created := create(t, s, "Notebook Dell")

		// when
		found, err := s.FindByNameIgnoreCase(ctx, "notebook DELL")
		_, missErr := s.FindByNameIgnoreCase(ctx, "Notebook")

		// then
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.ErrorIs(t, missErr, catalogerrors.ErrProductNotFound)
	})

	t.Run("ExistsByNameIgnoreCase honours excludeID", func(t *testing.T) {
		// given
		s := fresh(t)
		p := create(t, s, "Keyboard")

		testCases := []struct {
			name      string
			lookup    string
			excludeID int64
			expected  bool
		}{
			{name: "same case", lookup: "Keyboard", expected: true},
			{name: "other case", lookup: "KEYBOARD", expected: true},
			{name: "excluded own id", lookup: "keyboard", excludeID: p.ID, expected: false},
			{name: "other id excluded", lookup: "keyboard", excludeID: p.ID + 1, expected: true},
			{name: "absent", lookup: "Keyboards", expected: false},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// when
				exists, err := s.ExistsByNameIgnoreCase(ctx, tc.lookup, tc.excludeID)

				// then
				require.NoError(t, err)
				assert.Equal(t, tc.expected, exists)
			})
		}
	})

	t.Run("ExistsByID", func(t *testing.T) {
		s := fresh(t)
		p := create(t, s, "Monitor")
		exists, err := s.ExistsByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = s.ExistsByID(ctx, p.ID+100)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Update overwrites fields and moves UpdatedAt forward", func(t *testing.T) {
		// given
		s := fresh(t)
		p := create(t, s, "Notebook Dell")

		// when
		first, err := s.Update(ctx, db.UpdateProductParams{ID: p.ID, Name: "Notebook Dell", Price: decimal.RequireFromString("1999.99"), Description: &desc})
		require.NoError(t, err)
		second, err := s.Update(ctx, db.UpdateProductParams{ID: p.ID, Name: "Notebook Dell", Price: decimal.RequireFromString("1999.99")})
		require.NoError(t, err)

		// then
		assert.True(t, decimal.RequireFromString("1999.99").Equal(first.Price))
		require.NotNil(t, first.Description)
		assert.Nil(t, second.Description)
		assert.True(t, first.UpdatedAt.After(p.UpdatedAt))
		assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
		assert.True(t, second.CreatedAt.Equal(p.CreatedAt))
	})

	t.Run("Update errors", func(t *testing.T) {
		s := fresh(t)
		create(t, s, "Taken name")
		p := create(t, s, "Free name")

		_, err := s.Update(ctx, db.UpdateProductParams{ID: p.ID + 100, Name: "Whatever", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)

		_, err = s.Update(ctx, db.UpdateProductParams{ID: p.ID, Name: "TAKEN NAME", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, catalogerrors.ErrDuplicateName)

		// a case-only change of its own name is not a conflict
		updated, err := s.Update(ctx, db.UpdateProductParams{ID: p.ID, Name: "FREE NAME", Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
		assert.Equal(t, "FREE NAME", updated.Name)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		s := fresh(t)
		p := create(t, s, "Headset")
		require.NoError(t, s.DeleteByID(ctx, p.ID))
		_, err := s.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
		assert.ErrorIs(t, s.DeleteByID(ctx, p.ID), catalogerrors.ErrProductNotFound)
	})

	t.Run("FindPage and FindAll are ordered by id", func(t *testing.T) {
		// given
		s := fresh(t)
		var ids []int64
		for i := range 5 {
			ids = append(ids, create(t, s, fmt.Sprintf("Product %d", i)).ID)
		}

		testCases := []struct {
			name     string
			offset   int32
			limit    int32
			expected []int64
		}{
			{name: "first page", offset: 0, limit: 2, expected: ids[0:2]},
			{name: "middle page", offset: 2, limit: 2, expected: ids[2:4]},
			{name: "last partial page", offset: 4, limit: 2, expected: ids[4:5]},
			{name: "beyond the end", offset: 10, limit: 2, expected: []int64{}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// when
				page, total, err := s.FindPage(ctx, tc.offset, tc.limit)

				// then
				require.NoError(t, err)
				assert.Equal(t, int64(5), total)
				assert.Equal(t, tc.expected, productIDs(page))
			})
		}

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, ids, productIDs(all))
	})

	t.Run("SearchByName ignores case and matches metacharacters literally", func(t *testing.T) {
		// given
		s := fresh(t)
		dell := create(t, s, "Notebook Dell")
		mouse := create(t, s, "Mouse Logitech")
		discount := create(t, s, "Cable 100% copper")
		underscore := create(t, s, "snake_case mug")

		testCases := []struct {
			fragment string
			expected []int64
		}{
			{fragment: "DELL", expected: []int64{dell.ID}},
			{fragment: "o", expected: []int64{dell.ID, mouse.ID, discount.ID}},
			{fragment: "%", expected: []int64{discount.ID}},
			{fragment: "_", expected: []int64{underscore.ID}},
			{fragment: "tablet", expected: []int64{}},
		}
		for _, tc := range testCases {
			t.Run(tc.fragment, func(t *testing.T) {
				found, err := s.SearchByName(ctx, tc.fragment)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, productIDs(found))
			})
		}
	})

	t.Run("WithinTx rolls back on error", func(t *testing.T) {
		// given
		s := fresh(t)
		kept := create(t, s, "Kept")
		boom := errors.New("boom")

		// when
		err := s.WithinTx(ctx, func(tx ProductStore) error {
			if _, err := tx.Create(ctx, db.CreateProductParams{Name: "Rolled back", Price: decimal.NewFromInt(1)}); err != nil {
				return err
			}
			if err := tx.DeleteByID(ctx, kept.ID); err != nil {
				return err
			}
			return boom
		})

		// then
		assert.ErrorIs(t, err, boom)
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{kept.ID}, productIDs(all))
	})

	t.Run("WithinTx commits and nests", func(t *testing.T) {
		s := fresh(t)
		err := s.WithinTx(ctx, func(tx ProductStore) error {
			return tx.WithinTx(ctx, func(inner ProductStore) error {
				_, err := inner.Create(ctx, db.CreateProductParams{Name: "Committed", Price: decimal.NewFromInt(1)})
				return err
			})
		})
		require.NoError(t, err)
		_, err = s.FindByNameIgnoreCase(ctx, "committed")
		assert.NoError(t, err)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, fresh(t).Ping(ctx))
	})
}

func productIDs(products []db.Product) []int64 {
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
