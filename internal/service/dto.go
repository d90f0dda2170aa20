package service

import (
	"errors"
	"strings"
	"time"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/events"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var minPrice = decimal.RequireFromString("0.01")

// ProductRequest is the payload of create and update.
// Field names double as keys of ValidationError.Fields.
type ProductRequest struct {
	Name        string          `json:"name"                  validate:"required,min=3,max=100"`
	Price       decimal.Decimal `json:"price"                 validate:"-"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ProductDto represents a stored product.
type ProductDto struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductPage is one page of products ordered by id.
type ProductPage struct {
	Content       []ProductDto `json:"content"`
	Page          int32        `json:"page"`
	Size          int32        `json:"size"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int64        `json:"totalPages"`
}

// normalized returns a copy with name and description trimmed.
func (r ProductRequest) normalized() ProductRequest {
	n := ProductRequest{
		Name:  strings.TrimSpace(r.Name),
		Price: r.Price,
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		n.Description = &d
	}
	return n
}

// validateRequest checks an already normalized request and reports every failed field at once.
func validateRequest(v *validator.Validate, r ProductRequest) error {
	fields := make(map[string]string)
	if err := v.Struct(r); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
	}
	if r.Price.LessThan(minPrice) {
		fields["Price"] = "failed on rule: min"
	}
	if len(fields) > 0 {
		return &catalogerrors.ValidationError{Fields: fields}
	}
	return nil
}

func toDto(product *db.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toDtos(products []db.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}

func snapshot(p *ProductDto) events.ProductSnapshot {
	return events.ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
