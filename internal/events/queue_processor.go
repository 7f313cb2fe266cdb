package events

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/agentview/api/internal/db"
)

// sendPacing spaces out individual publishes inside a batch so a backlog
// drain does not burst into the broker.
const sendPacing = 100 * time.Millisecond

// QueueProcessor drains the event_queue outbox: lifecycle events recorded
// by provisioning, resync and teardown are claimed in batches and published
// as CloudEvents. Rows are claimed per instance so several API replicas can
// run a processor against the same registry without double-publishing.
type QueueProcessor struct {
	q          db.Querier
	client     cloudevents.Client
	source     string
	instanceID string
	cfg        QueueProcessorConfig
	stopCh     chan struct{}
	stoppedCh  chan struct{}
}

// QueueProcessorConfig tunes the outbox drain loop.
type QueueProcessorConfig struct {
	BatchSize    int32
	MaxRetries   int32
	PollInterval time.Duration
	CleanupDays  int32
	// StaleTimeout is how many minutes a row may sit claimed before it is
	// handed back, covering replicas that died mid-batch.
	StaleTimeout int32
}

// DefaultQueueProcessorConfig returns the tuning used in production.
func DefaultQueueProcessorConfig() QueueProcessorConfig {
	return QueueProcessorConfig{
		BatchSize:    10,
		MaxRetries:   5,
		PollInterval: 5 * time.Second,
		CleanupDays:  7,
		StaleTimeout: 5,
	}
}

// NewQueueProcessor creates an outbox processor bound to one API instance.
func NewQueueProcessor(querier db.Querier, client cloudevents.Client, source, instanceID string, cfg QueueProcessorConfig) *QueueProcessor {
	return &QueueProcessor{
		q:          querier,
		client:     client,
		source:     source,
		instanceID: instanceID,
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		stoppedCh:  make(chan struct{}),
	}
}

// Start drains the outbox on the poll interval until Stop is called or the
// context ends. Stale claims from dead replicas are recovered on every tick.
func (p *QueueProcessor) Start(ctx context.Context) {
	slog.Info("Lifecycle event delivery started", "instance", p.instanceID, "source", p.source)
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	defer close(p.stoppedCh)

	if err := p.q.RecoverStaleProcessing(ctx, p.cfg.StaleTimeout); err != nil {
		slog.Error("Failed to recover stale event claims", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Lifecycle event delivery stopped", "reason", "context cancelled")
			return
		case <-p.stopCh:
			slog.Info("Lifecycle event delivery stopped", "reason", "shutdown")
			return
		case <-ticker.C:
			if err := p.q.RecoverStaleProcessing(ctx, p.cfg.StaleTimeout); err != nil {
				slog.Error("Failed to recover stale event claims", "error", err)
				return
			}
			if err := p.drainOnce(ctx); err != nil {
				slog.Error("Outbox drain failed", "error", err)
			}
		}
	}
}

// Stop signals the drain loop and waits for the in-flight batch to finish.
func (p *QueueProcessor) Stop() {
	close(p.stopCh)
	<-p.stoppedCh
}

// drainOnce claims one batch of pending rows for this instance and
// publishes each as a CloudEvent. Publish failures bump the row's retry
// count; rows that exhaust their retries are parked for inspection rather
// than retried forever.
func (p *QueueProcessor) drainOnce(ctx context.Context) error {
	claimedBy := sql.NullString{String: p.instanceID, Valid: true}

	result, err := p.q.ClaimPendingEvents(ctx, db.ClaimPendingEventsParams{
		ProcessingBy: claimedBy,
		RetryCount:   p.cfg.MaxRetries,
		Limit:        p.cfg.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("claiming pending events: %w", err)
	}
	claimed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading claim count: %w", err)
	}
	if claimed == 0 {
		return nil
	}

	rows, err := p.q.GetClaimedEvents(ctx, claimedBy)
	if err != nil {
		return fmt.Errorf("loading claimed events: %w", err)
	}

	var sent, retrying, parked int
	for _, row := range rows {
		switch p.publish(ctx, row) {
		case outcomeSent:
			sent++
		case outcomeRetrying:
			retrying++
		case outcomeParked:
			parked++
		}
		time.Sleep(sendPacing)
	}

	if sent > 0 || retrying > 0 || parked > 0 {
		slog.Info("Outbox batch drained",
			"instance", p.instanceID,
			"sent", sent,
			"retrying", retrying,
			"parked", parked)
	}
	return nil
}

type publishOutcome int

const (
	outcomeSent publishOutcome = iota
	outcomeRetrying
	outcomeParked
)

// publish converts one outbox row into a CloudEvent, sends it, and records
// the result on the row. The subject carries the deployment or connection
// the event is about.
func (p *QueueProcessor) publish(ctx context.Context, row db.GetClaimedEventsRow) publishOutcome {
	event := cloudevents.NewEvent()
	event.SetID(row.EventID)
	event.SetSource(row.EventSource)
	event.SetType(row.EventType)
	if row.EventSubject.Valid {
		event.SetSubject(row.EventSubject.String)
	}
	event.SetTime(time.Now())
	if err := event.SetData(row.ContentType, row.EventData); err != nil {
		slog.Error("Undeliverable event payload",
			"event_id", row.EventID,
			"event_type", row.EventType,
			"error", err)
		return outcomeRetrying
	}

	result := p.client.Send(ctx, event)
	if !cloudevents.IsNACK(result) {
		if err := p.q.MarkEventSent(ctx, row.ID); err != nil {
			slog.Error("Failed to record event delivery", "event_id", row.EventID, "error", err)
		}
		return outcomeSent
	}

	lastErr := sql.NullString{String: fmt.Sprintf("%v", result), Valid: true}

	if row.RetryCount >= p.cfg.MaxRetries-1 {
		if err := p.q.MarkEventDeadLetter(ctx, db.MarkEventDeadLetterParams{
			ID:        row.ID,
			LastError: lastErr,
		}); err != nil {
			slog.Error("Failed to park undeliverable event", "event_id", row.EventID, "error", err)
			return outcomeRetrying
		}
		slog.Warn("Lifecycle event parked after exhausting retries",
			"event_id", row.EventID,
			"event_type", row.EventType,
			"subject", row.EventSubject.String,
			"attempts", row.RetryCount+1)
		return outcomeParked
	}

	if err := p.q.MarkEventFailed(ctx, db.MarkEventFailedParams{
		ID:        row.ID,
		LastError: lastErr,
	}); err != nil {
		slog.Error("Failed to record publish failure", "event_id", row.EventID, "error", err)
	}
	return outcomeRetrying
}

// CleanupOldEvents drops delivered rows older than the retention window.
func (p *QueueProcessor) CleanupOldEvents(ctx context.Context) error {
	return p.q.CleanupOldEvents(ctx, p.cfg.CleanupDays)
}

// GetStats reports queue depth by status, for operators watching a backlog.
func (p *QueueProcessor) GetStats(ctx context.Context) (db.GetQueueStatsRow, error) {
	return p.q.GetQueueStats(ctx)
}
