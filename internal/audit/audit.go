// Package audit records access to sensitive claims data. Events are
// append-only: nothing in this code path updates or deletes them.
package audit

import (
	"context"
	"time"
)

// Actions recorded by the API handlers.
const (
	ActionIntakeViewed = "intake_viewed"
)

// ResourceTypeIntake marks events about third-party intake records.
const ResourceTypeIntake = "intake"

// Event is an immutable fact about a single data access.
type Event struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sink accepts audit events for durable storage.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}
