// Package grpc builds client connections to catalog gRPC endpoints.
package grpc

import (
	"fmt"
	"time"

	"github.com/abgdnv/catalog/pkg/client/grpc/interceptors"
	"github.com/abgdnv/catalog/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewConn dials target without TLS. The retry interceptor runs outside the circuit breaker,
// so every attempt is counted, and each attempt gets its own timeout.
func NewConn(target string, callTimeout time.Duration, resilience config.ResilienceConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewRetryInterceptor(resilience.Retry),
			interceptors.NewCircuitBreaker("catalog-grpc-"+target, resilience.CircuitBreaker),
			interceptors.UnaryClientTimeoutInterceptor(callTimeout),
		),
	}
	conn, err := grpc.NewClient(target, append(dialOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", target, err)
	}
	return conn, nil
}
