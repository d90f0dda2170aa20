package service

import (
	"context"

	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockProductStore records calls; WithinTx runs the callback against the mock itself.
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindByID(ctx context.Context, id int64) (*db.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*db.Product)
	return p, args.Error(1)
}

func (m *MockProductStore) FindByNameIgnoreCase(ctx context.Context, name string) (*db.Product, error) {
	args := m.Called(ctx, name)
	p, _ := args.Get(0).(*db.Product)
	return p, args.Error(1)
}

func (m *MockProductStore) ExistsByNameIgnoreCase(ctx context.Context, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, params db.CreateProductParams) (*db.Product, error) {
	args := m.Called(ctx, params)
	p, _ := args.Get(0).(*db.Product)
	return p, args.Error(1)
}

func (m *MockProductStore) Update(ctx context.Context, params db.UpdateProductParams) (*db.Product, error) {
	args := m.Called(ctx, params)
	p, _ := args.Get(0).(*db.Product)
	return p, args.Error(1)
}

func (m *MockProductStore) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductStore) FindPage(ctx context.Context, offset, limit int32) ([]db.Product, int64, error) {
	args := m.Called(ctx, offset, limit)
	products, _ := args.Get(0).([]db.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductStore) FindAll(ctx context.Context) ([]db.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]db.Product)
	return products, args.Error(1)
}

func (m *MockProductStore) SearchByName(ctx context.Context, fragment string) ([]db.Product, error) {
	args := m.Called(ctx, fragment)
	products, _ := args.Get(0).([]db.Product)
	return products, args.Error(1)
}

func (m *MockProductStore) WithinTx(ctx context.Context, fn func(tx store.ProductStore) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockProductStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
