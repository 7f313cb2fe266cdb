package orchestrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentview/api/internal/audit"
	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/events"
	"github.com/agentview/api/internal/logging"
)

// Teardown removes a deployment's remote resources and retires its
// registry row. Remote deletes are best effort: each one is attempted
// regardless of earlier failures, a not-found response counts as done,
// and the local bookkeeping runs unconditionally so the deployment is
// always retired. Tearing down an already-retired deployment is a no-op
// success. Leftover remote resources are logged for operators.
func (o *Orchestrator) Teardown(ctx context.Context, deploymentID int64) error {
	ctx = context.WithoutCancel(ctx)
	ctx = logging.WithDeploymentID(ctx, deploymentID)

	deployment, err := o.q.GetDeployment(ctx, deploymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("loading deployment: %w", err)
	}
	if deployment.Status == db.DeploymentsStatusDeleted {
		slog.InfoContext(ctx, "Deployment already retired", "site_id", deployment.SiteID)
		return nil
	}
	ctx = logging.WithCustomerID(ctx, deployment.CustomerID)

	var failed []string
	conn, err := o.connect(ctx, deployment.CustomerID)
	if err != nil {
		slog.WarnContext(ctx, "No usable connection for teardown, skipping remote deletes", "error", err)
		failed = append(failed, "route", "worker", "kv_store")
	} else {
		zone, zoneErr := conn.client.GetZoneByName(ctx, deployment.DomainName)
		attempts := []cleanup{
			{name: "route", fn: func() error {
				if zoneErr != nil {
					return fmt.Errorf("resolving zone: %w", zoneErr)
				}
				return conn.client.DeleteRoute(ctx, zone.ID, deployment.RouteID)
			}},
			{name: "worker", fn: func() error {
				return conn.client.DeleteWorker(ctx, conn.accountID, deployment.WorkerName)
			}},
			{name: "kv_store", fn: func() error {
				return conn.client.DeleteKVNamespace(ctx, conn.accountID, deployment.KvStoreID)
			}},
		}
		failed = runAll(ctx, attempts)
	}

	if err := o.q.MarkDeploymentDeleted(ctx, deploymentID); err != nil {
		return fmt.Errorf("retiring deployment: %w", err)
	}
	if err := o.q.DeactivateDeploymentSecrets(ctx, deploymentID); err != nil {
		slog.WarnContext(ctx, "Failed to deactivate deployment secrets", "error", err)
	} else {
		o.auditor.Log(ctx, deployment.CustomerID, fmt.Sprint(deploymentID), audit.SecretEntityType, audit.SecretDeactivated, nil)
	}

	outcome := "clean"
	if len(failed) > 0 {
		outcome = "partial"
		slog.WarnContext(ctx, "Teardown left remote resources behind",
			"failed", failed,
			"worker_name", deployment.WorkerName,
			"kv_store_id", deployment.KvStoreID,
			"route_id", deployment.RouteID)
	}
	teardownsTotal.WithLabelValues(outcome).Inc()

	slog.InfoContext(ctx, "Deployment torn down", "site_id", deployment.SiteID, "outcome", outcome)

	o.auditor.Log(ctx, deployment.CustomerID, fmt.Sprint(deploymentID), audit.DeploymentEntityType, audit.DeploymentDeleted, map[string]any{
		"site_id": deployment.SiteID,
		"domain":  deployment.DomainName,
		"outcome": outcome,
	})
	o.emitDeploymentEvent(ctx, events.EventTypeDeploymentDeleted, deploymentID, deployment.CustomerID, deployment.SiteID)

	return nil
}
