// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

import "time"

// DocumentEventsQueue is the default durable queue for document lifecycle events.
const DocumentEventsQueue = "documents.events"

// Document lifecycle event types.
const (
	EventDocumentCreated = "document.created"
	EventDocumentUpdated = "document.updated"
	EventDocumentDeleted = "document.deleted"
)

// DocumentEvent is published after a document is created, updated or
// deleted. It carries enough for an audit trail without querying the
// primary database.
type DocumentEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	DocumentID int64     `json:"document_id"`
	ActorID    int64     `json:"actor_id"`
	ActorRole  int       `json:"actor_role"`
	Access     string    `json:"access,omitempty"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
