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

// VariantInput is one piece of content keyed by URL path.
type VariantInput struct {
	URLPath string
	Content string
}

// Sync pushes every active variant of a deployment to its edge store and
// returns how many writes succeeded. Per-item failures are logged and
// skipped; partial failure never fails the call. The registry stays the
// source of truth, so a later resync converges the store.
func (o *Orchestrator) Sync(ctx context.Context, deploymentID int64) (int, error) {
	ctx = logging.WithDeploymentID(ctx, deploymentID)

	deployment, err := o.activeDeployment(ctx, deploymentID)
	if err != nil {
		return 0, err
	}

	conn, err := o.connect(ctx, deployment.CustomerID)
	if err != nil {
		return 0, err
	}

	variants, err := o.q.ListActiveVariants(ctx, deploymentID)
	if err != nil {
		return 0, fmt.Errorf("listing variants: %w", err)
	}

	pairs := make([]VariantInput, 0, len(variants))
	for _, v := range variants {
		pairs = append(pairs, VariantInput{URLPath: v.UrlPath, Content: v.Content})
	}

	synced := o.pushPairs(ctx, conn, deployment.KvStoreID, pairs)

	if err := o.q.TouchDeployment(ctx, deploymentID); err != nil {
		slog.WarnContext(ctx, "Failed to update deployment timestamp", "error", err)
	}

	slog.InfoContext(ctx, "Content sync complete", "total", len(pairs), "synced", synced)
	o.auditor.Log(ctx, deployment.CustomerID, fmt.Sprint(deploymentID), audit.DeploymentEntityType, audit.DeploymentResynced, map[string]any{
		"total":  len(pairs),
		"synced": synced,
	})
	return synced, nil
}

// SyncVariant records one variant in the registry and pushes it to the
// edge store. The registry write must succeed; the edge push is best
// effort and reported back to the caller.
func (o *Orchestrator) SyncVariant(ctx context.Context, deploymentID int64, variant VariantInput) (pushed bool, err error) {
	ctx = logging.WithDeploymentID(ctx, deploymentID)

	deployment, err := o.activeDeployment(ctx, deploymentID)
	if err != nil {
		return false, err
	}

	if err := o.q.UpsertVariant(ctx, db.UpsertVariantParams{
		CustomerID:   deployment.CustomerID,
		DeploymentID: deploymentID,
		UrlPath:      variant.URLPath,
		Content:      variant.Content,
		ContentHash:  contentHash(variant.Content),
	}); err != nil {
		return false, fmt.Errorf("recording variant: %w", err)
	}

	conn, err := o.connect(ctx, deployment.CustomerID)
	if err != nil {
		return false, err
	}

	pushed = true
	if err := conn.client.WriteKVPair(ctx, conn.accountID, deployment.KvStoreID, variant.URLPath, []byte(variant.Content)); err != nil {
		variantSyncsTotal.WithLabelValues("failed").Inc()
		slog.WarnContext(ctx, "Variant recorded but edge push failed", "url_path", variant.URLPath, "error", err)
		pushed = false
	} else {
		variantSyncsTotal.WithLabelValues("success").Inc()
	}

	o.auditor.Log(ctx, deployment.CustomerID, fmt.Sprint(deploymentID), audit.VariantEntityType, audit.VariantUpserted, map[string]any{
		"url_path": variant.URLPath,
		"pushed":   pushed,
	})
	o.emitVariantEvent(ctx, events.EventTypeVariantSynced, deployment, variant.URLPath)

	return pushed, nil
}

// DropVariant archives a variant and removes its key from the edge store.
// The edge delete is best effort; a missing key counts as removed.
func (o *Orchestrator) DropVariant(ctx context.Context, deploymentID int64, urlPath string) error {
	ctx = logging.WithDeploymentID(ctx, deploymentID)

	deployment, err := o.activeDeployment(ctx, deploymentID)
	if err != nil {
		return err
	}

	if err := o.q.ArchiveVariant(ctx, db.ArchiveVariantParams{
		DeploymentID: deploymentID,
		UrlPath:      urlPath,
	}); err != nil {
		return fmt.Errorf("archiving variant: %w", err)
	}

	conn, err := o.connect(ctx, deployment.CustomerID)
	if err != nil {
		return err
	}

	if err := conn.client.DeleteKVPair(ctx, conn.accountID, deployment.KvStoreID, urlPath); err != nil && !isNotFound(err) {
		slog.WarnContext(ctx, "Variant archived but edge delete failed", "url_path", urlPath, "error", err)
	}

	o.auditor.Log(ctx, deployment.CustomerID, fmt.Sprint(deploymentID), audit.VariantEntityType, audit.VariantDropped, map[string]any{
		"url_path": urlPath,
	})
	o.emitVariantEvent(ctx, events.EventTypeVariantDropped, deployment, urlPath)

	return nil
}

// emitVariantEvent enqueues a variant lifecycle event; failures are logged only.
func (o *Orchestrator) emitVariantEvent(ctx context.Context, eventType string, deployment db.Deployment, urlPath string) {
	if o.emitter == nil {
		return
	}
	payload := events.VariantEvent{
		DeploymentID: deployment.ID,
		CustomerID:   deployment.CustomerID,
		URLPath:      urlPath,
	}
	if err := o.emitter.Send(ctx, eventType, fmt.Sprint(deployment.ID), payload); err != nil {
		slog.WarnContext(ctx, "Failed to enqueue lifecycle event", "event_type", eventType, "error", err)
	}
}

// pushPairs writes each pair to the edge store, logging and counting
// per-item outcomes.
func (o *Orchestrator) pushPairs(ctx context.Context, conn *connection, kvStoreID string, pairs []VariantInput) int {
	synced := 0
	for _, pair := range pairs {
		if err := conn.client.WriteKVPair(ctx, conn.accountID, kvStoreID, pair.URLPath, []byte(pair.Content)); err != nil {
			variantSyncsTotal.WithLabelValues("failed").Inc()
			slog.WarnContext(ctx, "Failed to push variant", "url_path", pair.URLPath, "error", err)
			continue
		}
		variantSyncsTotal.WithLabelValues("success").Inc()
		synced++
	}
	return synced
}

// activeDeployment loads a deployment and maps missing or deleted rows
// to ErrNotFound.
func (o *Orchestrator) activeDeployment(ctx context.Context, deploymentID int64) (db.Deployment, error) {
	deployment, err := o.q.GetDeployment(ctx, deploymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Deployment{}, ErrNotFound
		}
		return db.Deployment{}, fmt.Errorf("loading deployment: %w", err)
	}
	if deployment.Status != db.DeploymentsStatusActive {
		return db.Deployment{}, ErrNotFound
	}
	return deployment, nil
}
