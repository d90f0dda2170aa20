// Package rest exposes the catalog over HTTP/JSON.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPage = 0
	defaultSize = 10
	maxSize     = 1000
)

// Pinger reports whether a dependency is ready to serve traffic.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the product API over HTTP.
type Handler struct {
	service service.ProductService
	ready   Pinger
	logger  *slog.Logger
}

// NewHandler creates a handler serving the product API. ready backs /readyz.
func NewHandler(service service.ProductService, ready Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		ready:   ready,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product API and the probes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindPage)
		r.Post("/", h.Create)
		r.Get("/all", h.FindAll)
		r.Get("/search", h.Search)
		r.Get("/name/{name}", h.FindByName)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadyCheck)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var request service.ProductRequest
	if !h.decode(w, r, &request) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "Name", request.Name)

	created, err := h.service.Create(r.Context(), request)
	if err != nil {
		h.respondServiceError(w, r, "create product", err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseInt64ID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, "find product by ID", err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// FindByName retrieves a product by its name, ignoring case.
func (h *Handler) FindByName(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	h.logger.DebugContext(r.Context(), "Received request to find product by name", "Name", name)

	found, err := h.service.FindByName(r.Context(), name)
	if err != nil {
		h.respondServiceError(w, r, "find product by name", err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// FindPage serves ?page=&size=, defaulting to the first page of 10.
func (h *Handler) FindPage(w http.ResponseWriter, r *http.Request) {
	page, ok := web.ParseQueryInt32(r, w, h.logger, "page", defaultPage, web.Gte(0))
	if !ok {
		return
	}
	size, ok := web.ParseQueryInt32(r, w, h.logger, "size", defaultSize, web.Between(1, maxSize))
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find products page", "page", page, "size", size)

	result, err := h.service.FindPage(r.Context(), page, size)
	if err != nil {
		h.respondServiceError(w, r, "find products page", err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, result)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "find all products", err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Search lists products whose name contains ?name=, ignoring case.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("name")
	list, err := h.service.Search(r.Context(), fragment)
	if err != nil {
		h.respondServiceError(w, r, "search products", err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Update replaces the name, price and description of a product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseInt64ID(w, r, h.logger)
	if !ok {
		return
	}
	var request service.ProductRequest
	if !h.decode(w, r, &request) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)

	updated, err := h.service.Update(r.Context(), id, request)
	if err != nil {
		h.respondServiceError(w, r, "update product", err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseInt64ID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple liveness endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadyCheck answers 503 while the store cannot be reached.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.ready.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondServiceError maps service error kinds onto HTTP statuses.
// Unexpected errors are logged and hidden behind a generic 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	var validationErr *catalogerrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.logger.WarnContext(ctx, "Validation errors occurred", "op", op, "errors", validationErr.Fields)
		web.RespondValidationErrors(w, h.logger, validationErr.Fields)
	case errors.Is(err, catalogerrors.ErrInvalidArgument):
		h.logger.WarnContext(ctx, "Invalid argument", "op", op, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogerrors.ErrDuplicateName):
		h.logger.WarnContext(ctx, "Duplicate product name", "op", op, "error", err)
		web.RespondError(w, h.logger, http.StatusConflict, err.Error())
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		h.logger.WarnContext(ctx, "Product not found", "op", op, "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Unexpected error", "op", op, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to "+op)
	}
}
