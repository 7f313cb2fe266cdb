package testutils

import (
	"context"
	"database/sql"

	"github.com/agentview/api/internal/db"
)

// MockQuerier is a mock implementation of the db.Querier interface for testing purposes.
type MockQuerier struct {
	ClaimPendingEventsFunc            func(ctx context.Context, arg db.ClaimPendingEventsParams) (sql.Result, error)
	CleanupOldEventsFunc              func(ctx context.Context, days int32) error
	CreateAuditEventFunc              func(ctx context.Context, arg db.CreateAuditEventParams) error
	CreateDeploymentFunc              func(ctx context.Context, arg db.CreateDeploymentParams) (sql.Result, error)
	CreateDeploymentSecretFunc        func(ctx context.Context, arg db.CreateDeploymentSecretParams) error
	DeactivateDeploymentSecretsFunc   func(ctx context.Context, deploymentID int64) error
	ArchiveVariantFunc                func(ctx context.Context, arg db.ArchiveVariantParams) error
	EnqueueEventFunc                  func(ctx context.Context, arg db.EnqueueEventParams) error
	GetActiveConnectionFunc           func(ctx context.Context, customerID string) (db.GetActiveConnectionRow, error)
	GetActiveDeploymentForSiteFunc    func(ctx context.Context, arg db.GetActiveDeploymentForSiteParams) (db.Deployment, error)
	GetActiveDeploymentSecretFunc     func(ctx context.Context, deploymentID int64) (db.DeploymentSecret, error)
	GetClaimedEventsFunc              func(ctx context.Context, processingBy sql.NullString) ([]db.GetClaimedEventsRow, error)
	GetDeploymentFunc                 func(ctx context.Context, id int64) (db.Deployment, error)
	GetQueueStatsFunc                 func(ctx context.Context) (db.GetQueueStatsRow, error)
	GetVariantFunc                    func(ctx context.Context, arg db.GetVariantParams) (db.Variant, error)
	ListActiveVariantsFunc            func(ctx context.Context, deploymentID int64) ([]db.Variant, error)
	ListActiveVariantsForCustomerFunc func(ctx context.Context, customerID string) ([]db.Variant, error)
	ListCustomerDeploymentsFunc       func(ctx context.Context, customerID string) ([]db.Deployment, error)
	MarkConnectionDisconnectedFunc    func(ctx context.Context, customerID string) error
	MarkDeploymentDeletedFunc         func(ctx context.Context, id int64) error
	MarkEventDeadLetterFunc           func(ctx context.Context, arg db.MarkEventDeadLetterParams) error
	MarkEventFailedFunc               func(ctx context.Context, arg db.MarkEventFailedParams) error
	MarkEventSentFunc                 func(ctx context.Context, id int64) error
	RecoverStaleProcessingFunc        func(ctx context.Context, minutes int32) error
	TouchDeploymentFunc               func(ctx context.Context, id int64) error
	UpsertConnectionFunc              func(ctx context.Context, arg db.UpsertConnectionParams) error
	UpsertVariantFunc                 func(ctx context.Context, arg db.UpsertVariantParams) error
}

var _ db.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) ClaimPendingEvents(ctx context.Context, arg db.ClaimPendingEventsParams) (sql.Result, error) {
	if m.ClaimPendingEventsFunc != nil {
		return m.ClaimPendingEventsFunc(ctx, arg)
	}
	return MockResult{}, nil
}

func (m *MockQuerier) CleanupOldEvents(ctx context.Context, days int32) error {
	if m.CleanupOldEventsFunc != nil {
		return m.CleanupOldEventsFunc(ctx, days)
	}
	return nil
}

func (m *MockQuerier) CreateAuditEvent(ctx context.Context, arg db.CreateAuditEventParams) error {
	if m.CreateAuditEventFunc != nil {
		return m.CreateAuditEventFunc(ctx, arg)
	}
	return nil
}

func (m *MockQuerier) CreateDeployment(ctx context.Context, arg db.CreateDeploymentParams) (sql.Result, error) {
	if m.CreateDeploymentFunc != nil {
		return m.CreateDeploymentFunc(ctx, arg)
	}
	return MockResult{InsertID: 1}, nil
}

func (m *MockQuerier) CreateDeploymentSecret(ctx context.Context, arg db.CreateDeploymentSecretParams) error {
	if m.CreateDeploymentSecretFunc != nil {
		return m.CreateDeploymentSecretFunc(ctx, arg)
	}
	return nil
}

func (m *MockQuerier) DeactivateDeploymentSecrets(ctx context.Context, deploymentID int64) error {
	if m.DeactivateDeploymentSecretsFunc != nil {
		return m.DeactivateDeploymentSecretsFunc(ctx, deploymentID)
	}
	return nil
}

func (m *MockQuerier) ArchiveVariant(ctx context.Context, arg db.ArchiveVariantParams) error {
	if m.ArchiveVariantFunc != nil {
		return m.ArchiveVariantFunc(ctx, arg)
	}
	return nil
}

func (m *MockQuerier) EnqueueEvent(ctx context.Context, arg db.EnqueueEventParams) error {
	if m.EnqueueEventFunc != nil {
		return m.EnqueueEventFunc(ctx, arg)
	}
	return nil
}

func (m *MockQuerier) GetActiveConnection(ctx context.Context, customerID string) (db.GetActiveConnectionRow, error) {
	if m.GetActiveConnectionFunc != nil {
		return m.GetActiveConnectionFunc(ctx, customerID)
	}
	return db.GetActiveConnectionRow{}, sql.ErrNoRows
}

func (m *MockQuerier) GetActiveDeploymentForSite(ctx context.Context, arg db.GetActiveDeploymentForSiteParams) (db.Deployment, error) {
	if m.GetActiveDeploymentForSiteFunc != nil {
		return m.GetActiveDeploymentForSiteFunc(ctx, arg)
	}
	return db.Deployment{}, sql.ErrNoRows
}

func (m *MockQuerier) GetActiveDeploymentSecret(ctx context.Context, deploymentID int64) (db.DeploymentSecret, error) {
	if m.GetActiveDeploymentSecretFunc != nil {
		return m.GetActiveDeploymentSecretFunc(ctx, deploymentID)
	}
	return db.DeploymentSecret{}, sql.ErrNoRows
}

func (m *MockQuerier) GetClaimedEvents(ctx context.Context, processingBy sql.NullString) ([]db.GetClaimedEventsRow, error) {
	if m.GetClaimedEventsFunc != nil {
		return m.GetClaimedEventsFunc(ctx, processingBy)
	}
	return nil, nil
}

func (m *MockQuerier) GetDeployment(ctx context.Context, id int64) (db.Deployment, error) {
	if m.GetDeploymentFunc != nil {
		return m.GetDeploymentFunc(ctx, id)
	}
	return db.Deployment{}, sql.ErrNoRows
}

func (m *MockQuerier) GetQueueStats(ctx context.Context) (db.GetQueueStatsRow, error) {
	if m.GetQueueStatsFunc != nil {
		return m.GetQueueStatsFunc(ctx)
	}
	return db.GetQueueStatsRow{}, nil
}

func (m *MockQuerier) GetVariant(ctx context.Context, arg db.GetVariantParams) (db.Variant, error) {
	if m.GetVariantFunc != nil {
		return m.GetVariantFunc(ctx, arg)
	}
	return db.Variant{}, sql.ErrNoRows
}

func (m *MockQuerier) ListActiveVariantsForCustomer(ctx context.Context, customerID string) ([]db.Variant, error) {
	if m.ListActiveVariantsForCustomerFunc != nil {
		return m.ListActiveVariantsForCustomerFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockQuerier) ListActiveVariants(ctx context.Context, deploymentID int64) ([]db.Variant, error) {
	if m.ListActiveVariantsFunc != nil {
		return m.ListActiveVariantsFunc(ctx, deploymentID)
	}
	return nil, nil
}

func (m *MockQuerier) ListCustomerDeployments(ctx context.Context, customerID string) ([]db.Deployment, error) {
	if m.ListCustomerDeploymentsFunc != nil {
		return m.ListCustomerDeploymentsFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockQuerier) MarkConnectionDisconnected(ctx context.Context, customerID string) error {
	if m.MarkConnectionDisconnectedFunc != nil {
		return m.MarkConnectionDisconnectedFunc(ctx, customerID)
	}
	return nil
}

func (m *MockQuerier) MarkDeploymentDeleted(ctx context.Context, id int64) error {
	if m.MarkDeploymentDeletedFunc != nil {
		return m.MarkDeploymentDeletedFunc(ctx, id)
	}
	return nil
}

func (m *MockQuerier) MarkEventDeadLetter(ctx context.Context, arg db.MarkEventDeadLetterParams) error {
	if m.MarkEventDeadLetterFunc != nil {
		return m.MarkEventDeadLetterFunc(ctx, arg)
	}
	return nil
}

func (m *MockQuerier) MarkEventFailed(ctx context.Context, arg db.MarkEventFailedParams) error {
	if m.MarkEventFailedFunc != nil {
		return m.MarkEventFailedFunc(ctx, arg)
	}
	return nil
}

func (m *MockQuerier) MarkEventSent(ctx context.Context, id int64) error {
	if m.MarkEventSentFunc != nil {
		return m.MarkEventSentFunc(ctx, id)
	}
	return nil
}

func (m *MockQuerier) RecoverStaleProcessing(ctx context.Context, minutes int32) error {
	if m.RecoverStaleProcessingFunc != nil {
		return m.RecoverStaleProcessingFunc(ctx, minutes)
	}
	return nil
}

func (m *MockQuerier) TouchDeployment(ctx context.Context, id int64) error {
	if m.TouchDeploymentFunc != nil {
		return m.TouchDeploymentFunc(ctx, id)
	}
	return nil
}

func (m *MockQuerier) UpsertConnection(ctx context.Context, arg db.UpsertConnectionParams) error {
	if m.UpsertConnectionFunc != nil {
		return m.UpsertConnectionFunc(ctx, arg)
	}
	return nil
}

func (m *MockQuerier) UpsertVariant(ctx context.Context, arg db.UpsertVariantParams) error {
	if m.UpsertVariantFunc != nil {
		return m.UpsertVariantFunc(ctx, arg)
	}
	return nil
}

// MockResult implements sql.Result for tests.
type MockResult struct {
	InsertID int64
	Affected int64
}

func (r MockResult) LastInsertId() (int64, error) { return r.InsertID, nil }
func (r MockResult) RowsAffected() (int64, error) { return r.Affected, nil }
