// Package service implements the catalog rules: request validation,
// case-insensitive name uniqueness and CRUD over the product store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/events"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProductService defines the methods for managing products.
// Errors can be matched with errors.Is against ErrInvalidArgument,
// ErrDuplicateName and ErrProductNotFound; anything else is a storage failure.
type ProductService interface {
	// Create validates and trims the request, rejects a name already used by
	// another product (ignoring case) and stores the product.
	Create(ctx context.Context, request ProductRequest) (*ProductDto, error)

	// FindByID returns ErrInvalidArgument for id <= 0 and ErrProductNotFound when absent.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindByName looks the trimmed name up ignoring case.
	FindByName(ctx context.Context, name string) (*ProductDto, error)

	// FindPage returns the zero-based page of the given size, ordered by id.
	FindPage(ctx context.Context, page, size int32) (*ProductPage, error)

	// FindAll returns every product ordered by id.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Search returns products whose name contains fragment, ignoring case.
	Search(ctx context.Context, fragment string) ([]ProductDto, error)

	// Update replaces name, price and description of an existing product.
	Update(ctx context.Context, id int64, request ProductRequest) (*ProductDto, error)

	// DeleteByID removes a product permanently.
	DeleteByID(ctx context.Context, id int64) error
}

var _ ProductService = (*Service)(nil)

// Service implements ProductService on top of a store.ProductStore.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	validate   *validator.Validate
	metrics    *serviceMetrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a Service. Events are published after each successful
// mutation; publish failures are logged and otherwise ignored.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		publisher:  publisher,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		metrics:    newServiceMetrics(),
		logger:     logger.With("component", "service"),
		now:        time.Now,
	}
}

func (s *Service) Create(ctx context.Context, request ProductRequest) (*ProductDto, error) {
	req := request.normalized()
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var created *db.Product
	err := s.repository.WithinTx(ctx, func(tx store.ProductStore) error {
		exists, err := tx.ExistsByNameIgnoreCase(ctx, req.Name, 0)
		if err != nil {
			return err
		}
		if exists {
			return &catalogerrors.DuplicateNameError{Name: req.Name}
		}
		created, err = tx.Create(ctx, db.CreateProductParams{
			Name:        req.Name,
			Price:       req.Price,
			Description: req.Description,
		})
		return err
	})
	if err != nil {
		return nil, s.mutationError(ctx, "create product", err)
	}

	dto := toDto(created)
	s.logger.InfoContext(ctx, "Product created", "ID", dto.ID, "Name", dto.Name)
	inc(ctx, s.metrics.created)
	s.publish(ctx, events.ProductCreated{EventID: uuid.NewString(), Product: snapshot(dto), OccurredAt: s.now().UTC()})
	return dto, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			return nil, &catalogerrors.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

func (s *Service) FindByName(ctx context.Context, name string) (*ProductDto, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, catalogerrors.InvalidArgument("name must not be blank")
	}
	product, err := s.repository.FindByNameIgnoreCase(ctx, trimmed)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			return nil, &catalogerrors.NotFoundError{Name: trimmed}
		}
		return nil, fmt.Errorf("failed to fetch product by name: %w", err)
	}
	return toDto(product), nil
}

// FindPage returns one page of products ordered by id. Callers enforce
// page >= 0 and size >= 1; the values are passed to the store as given.
func (s *Service) FindPage(ctx context.Context, page, size int32) (*ProductPage, error) {
	// pages past the int32 offset range are empty anyway
	offset := min(int64(page)*int64(size), math.MaxInt32)

	products, total, err := s.repository.FindPage(ctx, int32(offset), size)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products page: %w", err)
	}
	var totalPages int64
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}
	return &ProductPage{
		Content:       toDtos(products),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

func (s *Service) Search(ctx context.Context, fragment string) ([]ProductDto, error) {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return nil, catalogerrors.InvalidArgument("search term must not be blank")
	}
	products, err := s.repository.SearchByName(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return toDtos(products), nil
}

// Update checks for a duplicate only when the trimmed name differs from the
// stored one byte for byte, and never against the product itself, so a
// product can change the case or padding of its own name.
func (s *Service) Update(ctx context.Context, id int64, request ProductRequest) (*ProductDto, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	req := request.normalized()
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var updated *db.Product
	err := s.repository.WithinTx(ctx, func(tx store.ProductStore) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return notFoundByID(err, id)
		}
		if current.Name != req.Name {
			exists, err := tx.ExistsByNameIgnoreCase(ctx, req.Name, id)
			if err != nil {
				return err
			}
			if exists {
				return &catalogerrors.DuplicateNameError{Name: req.Name}
			}
		}
		updated, err = tx.Update(ctx, db.UpdateProductParams{
			ID:          id,
			Name:        req.Name,
			Price:       req.Price,
			Description: req.Description,
		})
		return notFoundByID(err, id)
	})
	if err != nil {
		return nil, s.mutationError(ctx, fmt.Sprintf("update product with ID %d", id), err)
	}

	dto := toDto(updated)
	s.logger.InfoContext(ctx, "Product updated", "ID", dto.ID, "Name", dto.Name)
	inc(ctx, s.metrics.updated)
	s.publish(ctx, events.ProductUpdated{EventID: uuid.NewString(), Product: snapshot(dto), OccurredAt: s.now().UTC()})
	return dto, nil
}

func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := s.repository.WithinTx(ctx, func(tx store.ProductStore) error {
		exists, err := tx.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return &catalogerrors.NotFoundError{ID: id}
		}
		return notFoundByID(tx.DeleteByID(ctx, id), id)
	})
	if err != nil {
		return s.mutationError(ctx, fmt.Sprintf("delete product with ID %d", id), err)
	}

	s.logger.InfoContext(ctx, "Product deleted", "ID", id)
	inc(ctx, s.metrics.deleted)
	s.publish(ctx, events.ProductDeleted{EventID: uuid.NewString(), ID: id, OccurredAt: s.now().UTC()})
	return nil
}

// mutationError passes domain errors through untouched and wraps storage failures.
func (s *Service) mutationError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, catalogerrors.ErrDuplicateName):
		inc(ctx, s.metrics.nameConflicts)
		return err
	case errors.Is(err, catalogerrors.ErrProductNotFound), errors.Is(err, catalogerrors.ErrInvalidArgument):
		return err
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

// notFoundByID turns the store's bare ErrProductNotFound into a NotFoundError for id.
func notFoundByID(err error, id int64) error {
	var nf *catalogerrors.NotFoundError
	if errors.Is(err, catalogerrors.ErrProductNotFound) && !errors.As(err, &nf) {
		return &catalogerrors.NotFoundError{ID: id}
	}
	return err
}

func checkID(id int64) error {
	if id <= 0 {
		return catalogerrors.InvalidArgument(fmt.Sprintf("id must be positive, got %d", id))
	}
	return nil
}
