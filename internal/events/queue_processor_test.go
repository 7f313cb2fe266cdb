package events

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/testutils"
)

// fakeCEClient records sent events and answers with a configurable result.
type fakeCEClient struct {
	sent       []cloudevents.Event
	sendResult protocol.Result
}

func (c *fakeCEClient) Send(ctx context.Context, event cloudevents.Event) protocol.Result {
	c.sent = append(c.sent, event)
	return c.sendResult
}

func (c *fakeCEClient) Request(ctx context.Context, event cloudevents.Event) (*cloudevents.Event, protocol.Result) {
	return nil, errors.New("not supported")
}

func (c *fakeCEClient) StartReceiver(ctx context.Context, fn any) error {
	return errors.New("not supported")
}

func testProcessorConfig() QueueProcessorConfig {
	cfg := DefaultQueueProcessorConfig()
	cfg.MaxRetries = 3
	cfg.PollInterval = 10 * time.Millisecond
	return cfg
}

func claimedRow(retries int32) db.GetClaimedEventsRow {
	return db.GetClaimedEventsRow{
		ID:           1,
		EventID:      "evt-1",
		EventType:    EventTypeDeploymentProvisioned,
		EventSource:  EventSourceAgentViewAPI,
		EventSubject: sql.NullString{String: "42", Valid: true},
		EventData:    []byte(`{"deployment_id":42}`),
		ContentType:  "application/json",
		RetryCount:   retries,
	}
}

func TestDrainOnceDeliversClaimedEvents(t *testing.T) {
	sentID := int64(0)
	q := &testutils.MockQuerier{
		ClaimPendingEventsFunc: func(ctx context.Context, arg db.ClaimPendingEventsParams) (sql.Result, error) {
			assert.Equal(t, "api-1", arg.ProcessingBy.String)
			return testutils.MockResult{Affected: 1}, nil
		},
		GetClaimedEventsFunc: func(ctx context.Context, processingBy sql.NullString) ([]db.GetClaimedEventsRow, error) {
			return []db.GetClaimedEventsRow{claimedRow(0)}, nil
		},
		MarkEventSentFunc: func(ctx context.Context, id int64) error {
			sentID = id
			return nil
		},
	}
	client := &fakeCEClient{}
	p := NewQueueProcessor(q, client, EventSourceAgentViewAPI, "api-1", testProcessorConfig())

	require.NoError(t, p.drainOnce(context.Background()))

	require.Len(t, client.sent, 1)
	event := client.sent[0]
	assert.Equal(t, "evt-1", event.ID())
	assert.Equal(t, EventTypeDeploymentProvisioned, event.Type())
	assert.Equal(t, EventSourceAgentViewAPI, event.Source())
	assert.Equal(t, "42", event.Subject())
	assert.Equal(t, int64(1), sentID)
}

func TestDrainOnceEmptyQueueSendsNothing(t *testing.T) {
	q := &testutils.MockQuerier{
		ClaimPendingEventsFunc: func(ctx context.Context, arg db.ClaimPendingEventsParams) (sql.Result, error) {
			return testutils.MockResult{Affected: 0}, nil
		},
		GetClaimedEventsFunc: func(ctx context.Context, processingBy sql.NullString) ([]db.GetClaimedEventsRow, error) {
			t.Fatal("nothing was claimed, nothing should be loaded")
			return nil, nil
		},
	}
	client := &fakeCEClient{}
	p := NewQueueProcessor(q, client, EventSourceAgentViewAPI, "api-1", testProcessorConfig())

	require.NoError(t, p.drainOnce(context.Background()))
	assert.Empty(t, client.sent)
}

func TestPublishFailureBumpsRetry(t *testing.T) {
	failed := false
	q := &testutils.MockQuerier{
		ClaimPendingEventsFunc: func(ctx context.Context, arg db.ClaimPendingEventsParams) (sql.Result, error) {
			return testutils.MockResult{Affected: 1}, nil
		},
		GetClaimedEventsFunc: func(ctx context.Context, processingBy sql.NullString) ([]db.GetClaimedEventsRow, error) {
			return []db.GetClaimedEventsRow{claimedRow(0)}, nil
		},
		MarkEventFailedFunc: func(ctx context.Context, arg db.MarkEventFailedParams) error {
			failed = true
			require.True(t, arg.LastError.Valid)
			return nil
		},
		MarkEventDeadLetterFunc: func(ctx context.Context, arg db.MarkEventDeadLetterParams) error {
			t.Fatal("first failure must not park the event")
			return nil
		},
	}
	client := &fakeCEClient{sendResult: errors.New("broker unavailable")}
	p := NewQueueProcessor(q, client, EventSourceAgentViewAPI, "api-1", testProcessorConfig())

	require.NoError(t, p.drainOnce(context.Background()))
	assert.True(t, failed)
}

func TestPublishExhaustedRetriesParksEvent(t *testing.T) {
	parked := false
	q := &testutils.MockQuerier{
		ClaimPendingEventsFunc: func(ctx context.Context, arg db.ClaimPendingEventsParams) (sql.Result, error) {
			return testutils.MockResult{Affected: 1}, nil
		},
		GetClaimedEventsFunc: func(ctx context.Context, processingBy sql.NullString) ([]db.GetClaimedEventsRow, error) {
			// Last allowed attempt with MaxRetries 3.
			return []db.GetClaimedEventsRow{claimedRow(2)}, nil
		},
		MarkEventDeadLetterFunc: func(ctx context.Context, arg db.MarkEventDeadLetterParams) error {
			parked = true
			require.True(t, arg.LastError.Valid)
			assert.Contains(t, arg.LastError.String, "broker unavailable")
			return nil
		},
	}
	client := &fakeCEClient{sendResult: errors.New("broker unavailable")}
	p := NewQueueProcessor(q, client, EventSourceAgentViewAPI, "api-1", testProcessorConfig())

	require.NoError(t, p.drainOnce(context.Background()))
	assert.True(t, parked)
}

func TestStartStop(t *testing.T) {
	q := &testutils.MockQuerier{}
	p := NewQueueProcessor(q, &fakeCEClient{}, EventSourceAgentViewAPI, "api-1", testProcessorConfig())

	go p.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	p.Stop()
}
