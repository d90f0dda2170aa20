package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

var _ messaging.Publisher = (*NatsPublisher)(nil)

type NatsPublisher struct {
	js   jetstream.JetStream
	opts []jetstream.PublishOpt
}

// NewNatsPublisher publishes to JetStream, retrying "no responders" up to cfg.MaxAttempts times.
func NewNatsPublisher(js jetstream.JetStream, cfg config.RetryConfig) *NatsPublisher {
	return &NatsPublisher{
		js: js,
		opts: []jetstream.PublishOpt{
			jetstream.WithRetryAttempts(int(cfg.MaxAttempts)),
			jetstream.WithRetryWait(cfg.InitialBackoff),
		},
	}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	opts := p.opts
	if identified, ok := event.(messaging.IdentifiedEvent); ok && identified.MessageID() != "" {
		opts = append(opts[:len(opts):len(opts)], jetstream.WithMsgID(identified.MessageID()))
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data, opts...); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}
