package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/abgdnv/catalog/internal/service"

type serviceMetrics struct {
	created       metric.Int64Counter
	updated       metric.Int64Counter
	deleted       metric.Int64Counter
	nameConflicts metric.Int64Counter
}

// newServiceMetrics registers the counters on the global meter provider.
// Names must be valid legacy Prometheus names: the exporter does not rewrite
// dots for scrapers that negotiate UTF-8 names.
// An instrument that cannot be created is replaced by a no-op one.
func newServiceMetrics() *serviceMetrics {
	meter := otel.Meter(meterName)
	return &serviceMetrics{
		created:       counter(meter, "catalog_products_created", "Products created"),
		updated:       counter(meter, "catalog_products_updated", "Products updated"),
		deleted:       counter(meter, "catalog_products_deleted", "Products deleted"),
		nameConflicts: counter(meter, "catalog_product_name_conflicts", "Create or update requests rejected for a duplicate name"),
	}
}

func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		c, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter(name)
	}
	return c
}

func inc(ctx context.Context, c metric.Int64Counter) {
	c.Add(ctx, 1)
}
