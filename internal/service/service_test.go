package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/events"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func newMemoryService() *Service {
	return NewService(store.NewMemoryStore(), messaging.NoopPublisher{}, testLogger)
}

func TestService_WorkedExample(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()

	// create
	created, err := svc.Create(ctx, ProductRequest{Name: "Notebook Dell", Price: price("2499.99")})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Nil(t, created.Description)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// duplicate ignoring case
	_, err = svc.Create(ctx, ProductRequest{Name: "notebook dell", Price: price("10.00")})
	var dup *catalogerrors.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "notebook dell", dup.Name)

	// update price
	updated, err := svc.Update(ctx, created.ID, ProductRequest{Name: "Notebook Dell", Price: price("1999.99")})
	require.NoError(t, err)
	assert.True(t, price("1999.99").Equal(updated.Price))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	// delete
	require.NoError(t, svc.DeleteByID(ctx, created.ID))
	_, err = svc.FindByID(ctx, created.ID)
	var nf *catalogerrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, created.ID, nf.ID)
}

func TestService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name           string
		request        ProductRequest
		expectedFields map[string]string
	}{
		{
			name:           "empty name",
			request:        ProductRequest{Name: "", Price: price("1.00")},
			expectedFields: map[string]string{"Name": "failed on rule: required"},
		},
		{
			name:           "blank name",
			request:        ProductRequest{Name: "    ", Price: price("1.00")},
			expectedFields: map[string]string{"Name": "failed on rule: required"},
		},
		{
			name:           "name too short after trimming",
			request:        ProductRequest{Name: "  ab  ", Price: price("1.00")},
			expectedFields: map[string]string{"Name": "failed on rule: min"},
		},
		{
			name:           "name too long",
			request:        ProductRequest{Name: strings.Repeat("x", 101), Price: price("1.00")},
			expectedFields: map[string]string{"Name": "failed on rule: max"},
		},
		{
			name:           "price missing",
			request:        ProductRequest{Name: "Mouse"},
			expectedFields: map[string]string{"Price": "failed on rule: min"},
		},
		{
			name:           "price below minimum",
			request:        ProductRequest{Name: "Mouse", Price: price("0.009")},
			expectedFields: map[string]string{"Price": "failed on rule: min"},
		},
		{
			name:           "negative price",
			request:        ProductRequest{Name: "Mouse", Price: price("-5")},
			expectedFields: map[string]string{"Price": "failed on rule: min"},
		},
		{
			name:           "description too long",
			request:        ProductRequest{Name: "Mouse", Price: price("1"), Description: strPtr(strings.Repeat("d", 501))},
			expectedFields: map[string]string{"Description": "failed on rule: max"},
		},
		{
			name:    "all fields invalid",
			request: ProductRequest{Name: "ab", Price: price("0"), Description: strPtr(strings.Repeat("d", 501))},
			expectedFields: map[string]string{
				"Name":        "failed on rule: min",
				"Price":       "failed on rule: min",
				"Description": "failed on rule: max",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := new(MockProductStore)
			svc := NewService(repo, messaging.NoopPublisher{}, testLogger)

			// when
			_, err := svc.Create(context.Background(), tc.request)

			// then
			require.ErrorIs(t, err, catalogerrors.ErrInvalidArgument)
			var verr *catalogerrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.expectedFields, verr.Fields)
			repo.AssertNotCalled(t, "WithinTx", mock.Anything)
		})
	}
}

func TestService_Create_Boundaries(t *testing.T) {
	testCases := []struct {
		name    string
		request ProductRequest
	}{
		{name: "three character name", request: ProductRequest{Name: "abc", Price: price("0.01")}},
		{name: "hundred character name", request: ProductRequest{Name: strings.Repeat("n", 100), Price: price("1")}},
		{name: "multibyte name counted in characters", request: ProductRequest{Name: strings.Repeat("é", 100), Price: price("1")}},
		{name: "five hundred character description", request: ProductRequest{Name: "Desk", Price: price("1"), Description: strPtr(strings.Repeat("d", 500))}},
		{name: "description trimmed to length", request: ProductRequest{Name: "Lamp", Price: price("1"), Description: strPtr("  " + strings.Repeat("d", 500) + "  ")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newMemoryService().Create(context.Background(), tc.request)
			assert.NoError(t, err)
		})
	}
}

func TestService_Create_TrimsFields(t *testing.T) {
	// given
	svc := newMemoryService()

	// when
	created, err := svc.Create(context.Background(), ProductRequest{
		Name:        "  Mouse Logitech  ",
		Price:       price("99.90"),
		Description: strPtr("\twireless \n"),
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, "Mouse Logitech", created.Name)
	require.NotNil(t, created.Description)
	assert.Equal(t, "wireless", *created.Description)
	assert.Equal(t, "99.9", created.Price.String())

	_, err = svc.Create(context.Background(), ProductRequest{Name: "mouse logitech ", Price: price("1")})
	assert.ErrorIs(t, err, catalogerrors.ErrDuplicateName)
}

func TestService_Create_EmptyDescriptionStaysPresent(t *testing.T) {
	created, err := newMemoryService().Create(context.Background(), ProductRequest{Name: "Cable", Price: price("1"), Description: strPtr("   ")})
	require.NoError(t, err)
	require.NotNil(t, created.Description)
	assert.Equal(t, "", *created.Description)
}

func TestService_InvalidIDs(t *testing.T) {
	repo := new(MockProductStore)
	svc := NewService(repo, messaging.NoopPublisher{}, testLogger)
	ctx := context.Background()
	valid := ProductRequest{Name: "Valid", Price: price("1")}

	for _, id := range []int64{0, -1} {
		t.Run(fmt.Sprintf("id %d", id), func(t *testing.T) {
			_, err := svc.FindByID(ctx, id)
			assert.ErrorIs(t, err, catalogerrors.ErrInvalidArgument)
			_, err = svc.Update(ctx, id, valid)
			assert.ErrorIs(t, err, catalogerrors.ErrInvalidArgument)
			assert.ErrorIs(t, svc.DeleteByID(ctx, id), catalogerrors.ErrInvalidArgument)
		})
	}
	repo.AssertExpectations(t)
	assert.Empty(t, repo.Calls, "store must not be touched for invalid ids")
}

func TestService_FindByName(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	created, err := svc.Create(ctx, ProductRequest{Name: "Notebook Dell", Price: price("1")})
	require.NoError(t, err)

	testCases := []struct {
		name        string
		lookup      string
		expectError error
	}{
		{name: "exact", lookup: "Notebook Dell"},
		{name: "other case and padding", lookup: "  NOTEBOOK dell "},
		{name: "blank", lookup: "   ", expectError: catalogerrors.ErrInvalidArgument},
		{name: "prefix only", lookup: "Notebook", expectError: catalogerrors.ErrProductNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			found, err := svc.FindByName(ctx, tc.lookup)

			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, found.ID)
		})
	}

	_, err = svc.FindByName(ctx, " Tablet ")
	var nf *catalogerrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Tablet", nf.Name)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		request     ProductRequest
		expectError error
		expectName  string
	}{
		{name: "same name new price", request: ProductRequest{Name: "Notebook Dell", Price: price("5")}, expectName: "Notebook Dell"},
		{name: "case-only rename of own name", request: ProductRequest{Name: "NOTEBOOK DELL", Price: price("5")}, expectName: "NOTEBOOK DELL"},
		{name: "padded own name", request: ProductRequest{Name: "  Notebook Dell  ", Price: price("5")}, expectName: "Notebook Dell"},
		{name: "fresh name", request: ProductRequest{Name: "Notebook Lenovo", Price: price("5")}, expectName: "Notebook Lenovo"},
		{name: "rename onto other product", request: ProductRequest{Name: "mouse", Price: price("5")}, expectError: catalogerrors.ErrDuplicateName},
		{name: "invalid request", request: ProductRequest{Name: "No", Price: price("5")}, expectError: catalogerrors.ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newMemoryService()
			target, err := svc.Create(ctx, ProductRequest{Name: "Notebook Dell", Price: price("10"), Description: strPtr("old")})
			require.NoError(t, err)
			_, err = svc.Create(ctx, ProductRequest{Name: "Mouse", Price: price("10")})
			require.NoError(t, err)

			// when
			updated, err := svc.Update(ctx, target.ID, tc.request)

			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				stored, findErr := svc.FindByID(ctx, target.ID)
				require.NoError(t, findErr)
				assert.Equal(t, "Notebook Dell", stored.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectName, updated.Name)
			assert.True(t, price("5").Equal(updated.Price))
			assert.Nil(t, updated.Description, "absent description clears the stored one")
			assert.True(t, updated.UpdatedAt.After(target.UpdatedAt))
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	_, err := newMemoryService().Update(context.Background(), 42, ProductRequest{Name: "Ghost", Price: price("1")})
	var nf *catalogerrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(42), nf.ID)
}

func TestService_Update_SameNameSkipsDuplicateCheck(t *testing.T) {
	// given
	repo := new(MockProductStore)
	svc := NewService(repo, messaging.NoopPublisher{}, testLogger)
	ctx := context.Background()
	current := &db.Product{ID: 7, Name: "Notebook Dell", Price: price("10")}
	repo.On("WithinTx", ctx).Return(nil)
	repo.On("FindByID", ctx, int64(7)).Return(current, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(p db.UpdateProductParams) bool {
		return p.ID == 7 && p.Name == "Notebook Dell"
	})).Return(current, nil)

	// when
	_, err := svc.Update(ctx, 7, ProductRequest{Name: " Notebook Dell ", Price: price("10")})

	// then
	require.NoError(t, err)
	repo.AssertNotCalled(t, "ExistsByNameIgnoreCase", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestService_DeleteByID_NotFound(t *testing.T) {
	err := newMemoryService().DeleteByID(context.Background(), 3)
	var nf *catalogerrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(3), nf.ID)
}

func TestService_FindPage_PassesBoundsToStore(t *testing.T) {
	// given
	ctx := context.Background()
	repo := new(MockProductStore)
	repo.On("FindPage", ctx, int32(0), int32(0)).Return([]db.Product(nil), int64(4), nil)
	svc := NewService(repo, messaging.NoopPublisher{}, testLogger)

	// when
	result, err := svc.FindPage(ctx, 0, 0)

	// then
	require.NoError(t, err)
	assert.Empty(t, result.Content)
	assert.Equal(t, int64(4), result.TotalElements)
	assert.Zero(t, result.TotalPages)
	repo.AssertExpectations(t)
}

func TestService_FindPage(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	for i := range 25 {
		_, err := svc.Create(ctx, ProductRequest{Name: fmt.Sprintf("Product %02d", i), Price: price("1")})
		require.NoError(t, err)
	}

	testCases := []struct {
		name          string
		page, size    int32
		expectedCount int
		expectedFirst string
		expectedPages int64
	}{
		{name: "first page", page: 0, size: 10, expectedCount: 10, expectedFirst: "Product 00", expectedPages: 3},
		{name: "last page", page: 2, size: 10, expectedCount: 5, expectedFirst: "Product 20", expectedPages: 3},
		{name: "past the end", page: 3, size: 10, expectedCount: 0, expectedPages: 3},
		{name: "one big page", page: 0, size: 1000, expectedCount: 25, expectedFirst: "Product 00", expectedPages: 1},
		{name: "huge page index", page: 1 << 30, size: 1000, expectedCount: 0, expectedPages: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			result, err := svc.FindPage(ctx, tc.page, tc.size)

			// then
			require.NoError(t, err)
			assert.Len(t, result.Content, tc.expectedCount)
			assert.Equal(t, int64(25), result.TotalElements)
			assert.Equal(t, tc.expectedPages, result.TotalPages)
			assert.Equal(t, tc.page, result.Page)
			assert.Equal(t, tc.size, result.Size)
			if tc.expectedCount > 0 {
				assert.Equal(t, tc.expectedFirst, result.Content[0].Name)
			}
		})
	}
}

func TestService_FindAllAndSearch(t *testing.T) {
	// given
	ctx := context.Background()
	svc := newMemoryService()
	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)

	for _, name := range []string{"Notebook Dell", "Mouse Dell", "Notebook Lenovo"} {
		_, err := svc.Create(ctx, ProductRequest{Name: name, Price: price("1")})
		require.NoError(t, err)
	}

	// when
	all, err = svc.FindAll(ctx)
	require.NoError(t, err)
	found, searchErr := svc.Search(ctx, " dell ")
	_, blankErr := svc.Search(ctx, "  ")

	// then
	require.Len(t, all, 3)
	assert.Less(t, all[0].ID, all[1].ID)
	assert.Less(t, all[1].ID, all[2].ID)
	require.NoError(t, searchErr)
	require.Len(t, found, 2)
	assert.Equal(t, "Notebook Dell", found[0].Name)
	assert.Equal(t, "Mouse Dell", found[1].Name)
	assert.ErrorIs(t, blankErr, catalogerrors.ErrInvalidArgument)
}

func TestService_PublishesEvents(t *testing.T) {
	// given
	ctx := context.Background()
	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.AnythingOfType("events.ProductCreated")).Return(nil).Once()
	publisher.On("Publish", ctx, mock.AnythingOfType("events.ProductUpdated")).Return(nil).Once()
	publisher.On("Publish", ctx, mock.AnythingOfType("events.ProductDeleted")).Return(nil).Once()
	svc := NewService(store.NewMemoryStore(), publisher, testLogger)

	// when
	created, err := svc.Create(ctx, ProductRequest{Name: "Evented", Price: price("1")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, ProductRequest{Name: "Evented", Price: price("2")})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteByID(ctx, created.ID))

	// then
	publisher.AssertExpectations(t)
	createdEvent := publisher.Calls[0].Arguments.Get(1).(events.ProductCreated)
	deleted := publisher.Calls[2].Arguments.Get(1).(events.ProductDeleted)
	assert.Equal(t, created.ID, deleted.ID)
	assert.NotEmpty(t, createdEvent.EventID)
	assert.NotEqual(t, createdEvent.EventID, deleted.EventID)
}

func TestService_PublishFailureDoesNotFailMutation(t *testing.T) {
	// given
	ctx := context.Background()
	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker down"))
	svc := NewService(store.NewMemoryStore(), publisher, testLogger)

	// when
	created, err := svc.Create(ctx, ProductRequest{Name: "Resilient", Price: price("1")})

	// then
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteByID(ctx, created.ID))
}

func TestService_NoEventOnFailure(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockPublisher)
	svc := NewService(store.NewMemoryStore(), publisher, testLogger)

	_, err := svc.Create(ctx, ProductRequest{Name: "x", Price: price("1")})
	require.Error(t, err)
	require.Error(t, svc.DeleteByID(ctx, 1))

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_StoreFailures(t *testing.T) {
	storeErr := errors.New("connection reset")
	ctx := context.Background()
	valid := ProductRequest{Name: "Valid", Price: price("1")}

	testCases := []struct {
		name  string
		setup func(repo *MockProductStore)
		call  func(svc *Service) error
	}{
		{
			name:  "create cannot begin transaction",
			setup: func(repo *MockProductStore) { repo.On("WithinTx", ctx).Return(storeErr) },
			call: func(svc *Service) error {
				_, err := svc.Create(ctx, valid)
				return err
			},
		},
		{
			name: "create duplicate check fails",
			setup: func(repo *MockProductStore) {
				repo.On("WithinTx", ctx).Return(nil)
				repo.On("ExistsByNameIgnoreCase", ctx, "Valid", int64(0)).Return(false, storeErr)
			},
			call: func(svc *Service) error {
				_, err := svc.Create(ctx, valid)
				return err
			},
		},
		{
			name:  "find by id fails",
			setup: func(repo *MockProductStore) { repo.On("FindByID", ctx, int64(1)).Return(nil, storeErr) },
			call: func(svc *Service) error {
				_, err := svc.FindByID(ctx, 1)
				return err
			},
		},
		{
			name: "find page fails",
			setup: func(repo *MockProductStore) {
				repo.On("FindPage", ctx, int32(0), int32(10)).Return(nil, int64(0), storeErr)
			},
			call: func(svc *Service) error {
				_, err := svc.FindPage(ctx, 0, 10)
				return err
			},
		},
		{
			name: "delete fails",
			setup: func(repo *MockProductStore) {
				repo.On("WithinTx", ctx).Return(nil)
				repo.On("ExistsByID", ctx, int64(1)).Return(true, nil)
				repo.On("DeleteByID", ctx, int64(1)).Return(storeErr)
			},
			call: func(svc *Service) error { return svc.DeleteByID(ctx, 1) },
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := new(MockProductStore)
			tc.setup(repo)
			svc := NewService(repo, messaging.NoopPublisher{}, testLogger)

			// when
			err := tc.call(svc)

			// then
			assert.ErrorIs(t, err, storeErr)
			assert.NotErrorIs(t, err, catalogerrors.ErrInvalidArgument)
			assert.NotErrorIs(t, err, catalogerrors.ErrProductNotFound)
			repo.AssertExpectations(t)
		})
	}
}
