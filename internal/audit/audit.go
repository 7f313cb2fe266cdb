// Package audit provides audit logging functionality for tracking operator actions and system events.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agentview/api/internal/db"
)

// Event represents an audit event type.
type Event string

// Audit event constants define the types of events that can be logged.
const (
	ConnectionCreated      Event = "connection.created"
	ConnectionDisconnected Event = "connection.disconnected"

	DeploymentProvisioned Event = "deployment.provisioned"
	DeploymentResynced    Event = "deployment.resynced"
	DeploymentDeleted     Event = "deployment.deleted"

	VariantUpserted Event = "variant.upserted"
	VariantDropped  Event = "variant.dropped"

	SecretIssued      Event = "secret.issued"
	SecretDeactivated Event = "secret.deactivated"

	AuthorizationFailure Event = "authorization.failure"
)

// EntityType represents the type of entity being audited.
type EntityType string

// Entity type constants define the types of entities that can be audited.
const (
	ConnectionEntityType EntityType = "connections"
	DeploymentEntityType EntityType = "deployments"
	VariantEntityType    EntityType = "variants"
	SecretEntityType     EntityType = "secrets"
)

// Logger handles audit event logging to the database and structured logging output.
type Logger struct {
	q db.Querier
}

// New creates a new audit logger instance.
func New(q db.Querier) *Logger {
	return &Logger{q: q}
}

// Log records an audit event to the database and structured logging output.
// It enriches the event with source IP, user agent, and request ID from the context.
// A nil Logger discards events.
func (l *Logger) Log(ctx context.Context, customerID, entityID string, entityType EntityType, event Event, data map[string]any) {
	if l == nil {
		return
	}

	sourceIP := ExtractSourceIP(ctx)

	userAgent := ExtractUserAgent(ctx)

	if data == nil {
		data = make(map[string]any)
	}
	data["source_ip"] = sourceIP
	if userAgent != "" {
		data["user_agent"] = userAgent
	}

	if reqID := ctx.Value("request_id"); reqID != nil {
		data["request_id"] = reqID
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal audit event data", "err", err)
		return
	}

	// Emit audit event to stdout for capture by logging agents
	slog.Info("audit event",
		"event", string(event),
		"customer_id", customerID,
		"entity_id", entityID,
		"entity_type", string(entityType),
		"source_ip", sourceIP,
		"data", data,
	)

	err = l.q.CreateAuditEvent(ctx, db.CreateAuditEventParams{
		CustomerID: customerID,
		EntityID:   entityID,
		EntityType: db.AuditEntityType(entityType),
		EventName:  string(event),
		EventData:  eventData,
	})
	if err != nil {
		slog.Error("failed to create audit event", "err", err)
	}
}

// ExtractSourceIP gets the source IP from HTTP request in context.
// Priority: X-Forwarded-For > X-Real-IP > RemoteAddr.
func ExtractSourceIP(ctx context.Context) string {
	if req, ok := ctx.Value("http_request").(*http.Request); ok && req != nil {
		xff := req.Header.Get("X-Forwarded-For")
		if xff != "" {
			// X-Forwarded-For may contain multiple IPs, take the first (client)
			ips := strings.Split(xff, ",")
			if len(ips) > 0 && strings.TrimSpace(ips[0]) != "" {
				return strings.TrimSpace(ips[0])
			}
		}

		xri := req.Header.Get("X-Real-IP")
		if xri != "" {
			return xri
		}

		if req.RemoteAddr != "" {
			if idx := strings.LastIndex(req.RemoteAddr, ":"); idx != -1 {
				return req.RemoteAddr[:idx]
			}
			return req.RemoteAddr
		}
	}

	return "unknown"
}

// ExtractUserAgent gets the user agent from HTTP request in context.
func ExtractUserAgent(ctx context.Context) string {
	if req, ok := ctx.Value("http_request").(*http.Request); ok && req != nil {
		return req.Header.Get("User-Agent")
	}
	return ""
}
