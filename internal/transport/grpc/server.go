// Package grpc serves read access to the catalog over gRPC.
package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProductReader is the part of the product service exposed over gRPC.
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (*service.ProductDto, error)
	FindByName(ctx context.Context, name string) (*service.ProductDto, error)
}

var _ ProductCatalogServer = (*Server)(nil)

type Server struct {
	service ProductReader
	logger  *slog.Logger
}

func NewServer(service ProductReader, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	found, err := s.service.FindByID(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, "GetProduct", err)
	}
	return toStruct(found)
}

func (s *Server) GetProductByName(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	found, err := s.service.FindByName(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, "GetProductByName", err)
	}
	return toStruct(found)
}

func (s *Server) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, catalogerrors.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		s.logger.ErrorContext(ctx, "service call failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
}

// toStruct renders a product the way the REST API does: id and price as
// strings to keep them exact, timestamps in RFC 3339.
func toStruct(p *service.ProductDto) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":        strconv.FormatInt(p.ID, 10),
		"name":      p.Name,
		"price":     p.Price.String(),
		"createdAt": p.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt": p.UpdatedAt.Format(time.RFC3339Nano),
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode product: %v", err)
	}
	return st, nil
}
