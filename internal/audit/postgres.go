package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/carelight/claimsbridge/internal/dbx"
	"github.com/google/uuid"
)

// PostgresSink appends events to the audit_events table.
type PostgresSink struct {
	db dbx.DBTX
}

func NewPostgresSink(db dbx.DBTX) *PostgresSink {
	return &PostgresSink{db: db}
}

// Record inserts the event. An empty ID and zero CreatedAt are filled in
// before the insert so callers only have to describe the access itself.
func (s *PostgresSink) Record(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO audit_events (id, action, resource_type, resource_id, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := s.db.ExecContext(ctx, query,
		ev.ID, ev.Action, ev.ResourceType, ev.ResourceID, ev.IPAddress, ev.UserAgent, ev.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
