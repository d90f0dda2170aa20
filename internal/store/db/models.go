package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateProductParams struct {
	Name        string
	Price       decimal.Decimal
	Description *string
}

type UpdateProductParams struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description *string
}

type ListProductsParams struct {
	Limit  int32
	Offset int32
}

type ExistsByNameIgnoreCaseParams struct {
	Name      string
	ExcludeID int64
}
