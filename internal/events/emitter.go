package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/agentview/api/internal/db"
)

// Emitter writes events to the database queue for delivery by the queue processor.
type Emitter struct {
	querier db.Querier
	source  string // e.g., "io.agentview.api"
}

// NewEmitter creates a new event emitter that writes to the database queue.
func NewEmitter(querier db.Querier, source string) *Emitter {
	return &Emitter{
		querier: querier,
		source:  source,
	}
}

// Send marshals data as JSON and writes it to the event_queue table as a
// pending CloudEvent. Subject identifies the resource the event is about
// (e.g., a deployment ID) and may be empty.
//
// The event will have:
//   - ID: auto-generated UUID
//   - Source: the emitter's configured source
//   - Type: the provided eventType
//   - DataContentType: "application/json"
func (e *Emitter) Send(ctx context.Context, eventType, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	eventID := uuid.NewString()

	var subjectSQL sql.NullString
	if subject != "" {
		subjectSQL = sql.NullString{String: subject, Valid: true}
	}

	if err := e.querier.EnqueueEvent(ctx, db.EnqueueEventParams{
		EventID:      eventID,
		EventType:    eventType,
		EventSource:  e.source,
		EventSubject: subjectSQL,
		EventData:    payload,
		ContentType:  "application/json",
	}); err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}

	slog.InfoContext(ctx, "Event queued",
		"event_id", eventID,
		"event_type", eventType)

	return nil
}
