package orchestrator

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/agentview/api/internal/audit"
	"github.com/agentview/api/internal/cloudflare"
	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/events"
	"github.com/agentview/api/internal/logging"
	"github.com/agentview/api/internal/secrets"
	"github.com/agentview/api/internal/workerscript"
)

// ProvisionRequest describes one site to deploy. The initial content set
// comes from the registry: every active variant the customer has authored
// is pushed into the new edge store before the deployment goes active.
type ProvisionRequest struct {
	CustomerID string
	SiteID     string
	DomainID   string
	DomainName string
}

// ProvisionResult is returned once every remote step succeeded and the
// deployment row is persisted.
type ProvisionResult struct {
	DeploymentID  int64
	WorkerName    string
	KVStoreID     string
	RouteID       string
	RoutePattern  string
	SyncedContent int
}

// provisionState tracks where the sequential run is; used only for
// logging and metrics, provisioning never resumes from a partial state.
type provisionState string

const (
	statePending        provisionState = "pending"
	stateKVCreated      provisionState = "kv_created"
	stateWorkerUploaded provisionState = "worker_uploaded"
	stateSecretsSet     provisionState = "secrets_set"
	stateRouteAdded     provisionState = "route_added"
	stateSynced         provisionState = "synced"
	stateActive         provisionState = "active"
	stateFailed         provisionState = "failed"
)

// Provision runs the full deployment sequence for a site: key-value
// store, worker upload, worker secrets, route, then an initial content
// sync. Steps are strictly sequential and a failure at any step leaves
// already-created remote resources in place (their IDs are logged) with
// no deployment row persisted. The run detaches from the caller's
// cancellation so an abandoned request cannot strand a half-provisioned
// account mid-step.
func (o *Orchestrator) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	ctx = context.WithoutCancel(ctx)
	ctx = logging.WithCustomerID(ctx, req.CustomerID)
	start := time.Now()

	state := statePending
	fail := func(step provisionState, err error) (*ProvisionResult, error) {
		provisionsTotal.WithLabelValues("failed").Inc()
		provisionStepFailuresTotal.WithLabelValues(string(step)).Inc()
		slog.ErrorContext(ctx, "Provisioning failed",
			"site_id", req.SiteID,
			"reached", string(state),
			"failed_step", string(step),
			"error", err)
		return nil, err
	}

	// A second active deployment for the same site is almost always an
	// operator mistake; the reference behavior allows it, so warn only.
	if existing, err := o.q.GetActiveDeploymentForSite(ctx, db.GetActiveDeploymentForSiteParams{
		CustomerID: req.CustomerID,
		SiteID:     req.SiteID,
	}); err == nil {
		slog.WarnContext(ctx, "Provisioning over an existing active deployment",
			"site_id", req.SiteID,
			"existing_deployment_id", existing.ID)
	} else if err != sql.ErrNoRows {
		slog.WarnContext(ctx, "Could not check for existing deployment", "error", err)
	}

	conn, err := o.connect(ctx, req.CustomerID)
	if err != nil {
		return fail(statePending, err)
	}

	zone, err := conn.client.GetZoneByName(ctx, req.DomainName)
	if err != nil {
		return fail(statePending, fmt.Errorf("resolving zone for %s: %w", req.DomainName, err))
	}

	kvTitle := KVTitle(req.SiteID)
	ns, err := conn.client.CreateKVNamespace(ctx, conn.accountID, kvTitle)
	if err != nil {
		return fail(statePending, fmt.Errorf("creating kv namespace %s: %w", kvTitle, err))
	}
	state = stateKVCreated
	slog.InfoContext(ctx, "KV namespace created", "site_id", req.SiteID, "kv_store_id", ns.ID)

	workerName := WorkerName(req.SiteID)
	if _, err := conn.client.UploadWorker(ctx, conn.accountID, workerName, o.script.Script(), []cloudflare.KVBinding{
		{Name: workerscript.KVBindingName, NamespaceID: ns.ID},
	}); err != nil {
		slog.ErrorContext(ctx, "Orphaned remote resources after failed provisioning",
			"kv_store_id", ns.ID)
		return fail(stateKVCreated, fmt.Errorf("uploading worker %s: %w", workerName, err))
	}
	state = stateWorkerUploaded

	secret, err := secrets.Generate()
	if err != nil {
		return fail(stateWorkerUploaded, err)
	}

	workerSecrets := []struct{ name, value string }{
		{workerscript.SecretName, secret},
		{workerscript.SiteIDName, req.SiteID},
		{workerscript.CallbackURLName, o.callbackURL},
	}
	for _, ws := range workerSecrets {
		if err := conn.client.SetWorkerSecret(ctx, conn.accountID, workerName, ws.name, ws.value); err != nil {
			slog.ErrorContext(ctx, "Orphaned remote resources after failed provisioning",
				"kv_store_id", ns.ID, "worker_name", workerName)
			return fail(stateWorkerUploaded, fmt.Errorf("setting worker secret %s: %w", ws.name, err))
		}
	}
	state = stateSecretsSet

	pattern := RoutePattern(req.DomainName)
	route, err := conn.client.CreateRoute(ctx, zone.ID, pattern, workerName)
	if err != nil {
		slog.ErrorContext(ctx, "Orphaned remote resources after failed provisioning",
			"kv_store_id", ns.ID, "worker_name", workerName)
		return fail(stateSecretsSet, fmt.Errorf("creating route %s: %w", pattern, err))
	}
	state = stateRouteAdded

	// Initial content push is best effort like every later sync: the
	// registry is the source of truth, so the customer's active variants
	// seed the new store and a later resync repairs any gaps.
	var pairs []VariantInput
	variants, err := o.q.ListActiveVariantsForCustomer(ctx, req.CustomerID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load variants for initial sync", "error", err)
	}
	for _, v := range variants {
		pairs = append(pairs, VariantInput{URLPath: v.UrlPath, Content: v.Content})
	}
	synced := o.pushPairs(ctx, conn, ns.ID, pairs)
	state = stateSynced

	result, err := o.q.CreateDeployment(ctx, db.CreateDeploymentParams{
		CustomerID:   req.CustomerID,
		SiteID:       req.SiteID,
		DomainID:     req.DomainID,
		DomainName:   req.DomainName,
		WorkerName:   workerName,
		KvStoreID:    ns.ID,
		RoutePattern: pattern,
		RouteID:      route.ID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Orphaned remote resources after failed provisioning",
			"kv_store_id", ns.ID, "worker_name", workerName, "route_id", route.ID)
		return fail(stateSynced, fmt.Errorf("persisting deployment: %w", err))
	}
	deploymentID, err := result.LastInsertId()
	if err != nil {
		return fail(stateSynced, fmt.Errorf("reading deployment id: %w", err))
	}
	ctx = logging.WithDeploymentID(ctx, deploymentID)

	if err := o.q.CreateDeploymentSecret(ctx, db.CreateDeploymentSecretParams{
		DeploymentID: deploymentID,
		SecretDigest: secrets.Digest(secret),
	}); err != nil {
		slog.ErrorContext(ctx, "Failed to persist deployment secret digest", "error", err)
	} else {
		o.auditor.Log(ctx, req.CustomerID, fmt.Sprint(deploymentID), audit.SecretEntityType, audit.SecretIssued, nil)
	}

	state = stateActive

	provisionsTotal.WithLabelValues("success").Inc()
	provisionDuration.Observe(time.Since(start).Seconds())
	slog.InfoContext(ctx, "Deployment provisioned",
		"site_id", req.SiteID,
		"worker_name", workerName,
		"kv_store_id", ns.ID,
		"route_id", route.ID,
		"synced", synced,
		"duration", time.Since(start).Round(time.Millisecond))

	o.auditor.Log(ctx, req.CustomerID, fmt.Sprint(deploymentID), audit.DeploymentEntityType, audit.DeploymentProvisioned, map[string]any{
		"site_id":     req.SiteID,
		"domain_name": req.DomainName,
		"worker_name": workerName,
	})
	o.emitDeploymentEvent(ctx, events.EventTypeDeploymentProvisioned, deploymentID, req.CustomerID, req.SiteID)

	if o.probe != nil {
		go o.probe.Run(context.WithoutCancel(ctx), req.DomainName)
	}

	return &ProvisionResult{
		DeploymentID:  deploymentID,
		WorkerName:    workerName,
		KVStoreID:     ns.ID,
		RouteID:       route.ID,
		RoutePattern:  pattern,
		SyncedContent: synced,
	}, nil
}

// emitDeploymentEvent enqueues a lifecycle event; failures are logged only.
func (o *Orchestrator) emitDeploymentEvent(ctx context.Context, eventType string, deploymentID int64, customerID, siteID string) {
	if o.emitter == nil {
		return
	}
	payload := events.DeploymentEvent{
		DeploymentID: deploymentID,
		CustomerID:   customerID,
		SiteID:       siteID,
	}
	if err := o.emitter.Send(ctx, eventType, fmt.Sprint(deploymentID), payload); err != nil {
		slog.WarnContext(ctx, "Failed to enqueue lifecycle event", "event_type", eventType, "error", err)
	}
}

// contentHash is the digest stored alongside variant content.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
