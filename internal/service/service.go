// Package service provides the HTTP handlers for the public API.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/agentview/api/internal/audit"
	"github.com/agentview/api/internal/crypto"
	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/events"
	"github.com/agentview/api/internal/orchestrator"
)

// maxRequestBytes caps request bodies; variant content is the largest
// payload and is capped separately by validation.
const maxRequestBytes = 4 << 20

// Service bundles the dependencies shared by all handlers.
type Service struct {
	q         db.Querier
	orch      *orchestrator.Orchestrator
	vault     *crypto.Vault
	newClient orchestrator.ClientFactory
	auditor   *audit.Logger
	emitter   *events.Emitter
}

// New creates the handler set.
func New(q db.Querier, orch *orchestrator.Orchestrator, vault *crypto.Vault, factory orchestrator.ClientFactory, auditor *audit.Logger, emitter *events.Emitter) *Service {
	return &Service{
		q:         q,
		orch:      orch,
		vault:     vault,
		newClient: factory,
		auditor:   auditor,
		emitter:   emitter,
	}
}

// ErrorResponse is the JSON body returned for all error statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// readJSON decodes a request body into dst, rejecting unknown fields and
// oversized bodies.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// sendEvent enqueues a lifecycle event; failures are logged only.
func (s *Service) sendEvent(ctx context.Context, eventType, subject string, data any) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Send(ctx, eventType, subject, data); err != nil {
		slog.WarnContext(ctx, "Failed to enqueue lifecycle event", "event_type", eventType, "error", err)
	}
}
