// Package events defines the product change notifications published to NATS JetStream.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/shopspring/decimal"
)

const (
	// Stream is the JetStream stream that stores every catalog event.
	Stream = "CATALOG"
	// StreamSubjects is the subject filter of Stream.
	StreamSubjects = "catalog.products.>"

	ProductCreatedSubject = "catalog.products.created"
	ProductUpdatedSubject = "catalog.products.updated"
	ProductDeletedSubject = "catalog.products.deleted"
)

var (
	_ messaging.IdentifiedEvent = ProductCreated{}
	_ messaging.IdentifiedEvent = ProductUpdated{}
	_ messaging.IdentifiedEvent = ProductDeleted{}
)

// ProductSnapshot is the product state carried by created and updated events.
type ProductSnapshot struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductCreated is published once a product is stored. Every event carries a unique
// EventID that JetStream uses to drop duplicate publishes.
type ProductCreated struct {
	EventID    string          `json:"eventId"`
	Product    ProductSnapshot `json:"product"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func (e ProductCreated) Subject() string          { return ProductCreatedSubject }
func (e ProductCreated) Payload() ([]byte, error) { return json.Marshal(e) }
func (e ProductCreated) MessageID() string        { return e.EventID }

type ProductUpdated struct {
	EventID    string          `json:"eventId"`
	Product    ProductSnapshot `json:"product"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func (e ProductUpdated) Subject() string          { return ProductUpdatedSubject }
func (e ProductUpdated) Payload() ([]byte, error) { return json.Marshal(e) }
func (e ProductUpdated) MessageID() string        { return e.EventID }

type ProductDeleted struct {
	EventID    string    `json:"eventId"`
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e ProductDeleted) Subject() string          { return ProductDeletedSubject }
func (e ProductDeleted) Payload() ([]byte, error) { return json.Marshal(e) }
func (e ProductDeleted) MessageID() string        { return e.EventID }
