// Package app wires the catalog service: store, service, HTTP and gRPC servers.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Dependencies struct {
	ProductService service.ProductService
	Store          store.ProductStore
	Logger         *slog.Logger
	// Metrics is served on /metrics. Nil disables the endpoint.
	Metrics prometheus.Gatherer
}

func SetupDependencies(productStore store.ProductStore, publisher messaging.Publisher, metrics prometheus.Gatherer, logger *slog.Logger) *Dependencies {
	pService := service.NewService(productStore, publisher, logger)

	return &Dependencies{
		ProductService: pService,
		Store:          productStore,
		Logger:         logger,
		Metrics:        metrics,
	}
}

// SetupHttpHandler initializes the router and routes for the catalog.
// Used by E2E tests to get the same handler the server runs.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, "catalog.http")
}

// corsOptions lets browser clients on any origin call the API.
var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	MaxAge:         300,
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	mux.Use(cors.Handler(corsOptions))
	productHandler := rest.NewHandler(deps.ProductService, deps.Store, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// SetupHttpServer creates the HTTP server for the catalog.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(server.HTTPConfigFrom(cfg.HTTPServer), SetupHttpHandler(deps))
}

// SetupGrpcServer creates the gRPC server with the catalog and health services.
// The returned health server reports SERVING until the caller changes it.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	catalogRegisterFunc := func(s *grpc.Server) {
		grpcImpl.RegisterProductCatalogServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
		healthpb.RegisterHealthServer(s, healthServer)
	}
	grpcServer := server.NewGRPCServer(reflectionEnabled, server.DefaultServerOptions(deps.Logger), catalogRegisterFunc)

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcImpl.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}
