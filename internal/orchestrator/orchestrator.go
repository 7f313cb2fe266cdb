// Package orchestrator drives the lifecycle of customer deployments:
// provisioning edge workers and key-value stores on the customer's platform
// account, keeping variant content in sync, and tearing everything down.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/agentview/api/internal/audit"
	"github.com/agentview/api/internal/cloudflare"
	"github.com/agentview/api/internal/crypto"
	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/events"
	"github.com/agentview/api/internal/workerscript"
)

// PlatformAPI is the slice of the platform client the orchestrator uses.
// Clients are created per call with the customer's decrypted token.
type PlatformAPI interface {
	VerifyToken(ctx context.Context) (cloudflare.TokenVerification, error)
	ListAccounts(ctx context.Context) ([]cloudflare.Account, error)
	GetZoneByName(ctx context.Context, name string) (cloudflare.Zone, error)
	CreateKVNamespace(ctx context.Context, accountID, title string) (cloudflare.KVNamespace, error)
	DeleteKVNamespace(ctx context.Context, accountID, namespaceID string) error
	WriteKVPair(ctx context.Context, accountID, namespaceID, key string, value []byte) error
	DeleteKVPair(ctx context.Context, accountID, namespaceID, key string) error
	UploadWorker(ctx context.Context, accountID, scriptName string, script []byte, bindings []cloudflare.KVBinding) (cloudflare.WorkerScript, error)
	SetWorkerSecret(ctx context.Context, accountID, scriptName, name, value string) error
	DeleteWorker(ctx context.Context, accountID, scriptName string) error
	CreateRoute(ctx context.Context, zoneID, pattern, scriptName string) (cloudflare.WorkerRoute, error)
	DeleteRoute(ctx context.Context, zoneID, routeID string) error
}

// ClientFactory builds a platform client for a decrypted customer token.
type ClientFactory func(token string) PlatformAPI

// Orchestrator coordinates deployments against customer platform accounts.
type Orchestrator struct {
	q           db.Querier
	vault       *crypto.Vault
	newClient   ClientFactory
	script      *workerscript.Source
	emitter     *events.Emitter
	auditor     *audit.Logger
	callbackURL string
	probe       *Probe
}

// New creates an orchestrator. probe may be nil to disable post-deploy
// health probing.
func New(q db.Querier, vault *crypto.Vault, factory ClientFactory, script *workerscript.Source, emitter *events.Emitter, auditor *audit.Logger, callbackURL string, probe *Probe) *Orchestrator {
	return &Orchestrator{
		q:           q,
		vault:       vault,
		newClient:   factory,
		script:      script,
		emitter:     emitter,
		auditor:     auditor,
		callbackURL: callbackURL,
		probe:       probe,
	}
}

// connection holds a decrypted customer connection for the duration of
// one operation.
type connection struct {
	accountID string
	client    PlatformAPI
}

// connect loads the customer's active connection and decrypts the platform
// token into a ready client.
func (o *Orchestrator) connect(ctx context.Context, customerID string) (*connection, error) {
	row, err := o.q.GetActiveConnection(ctx, customerID)
	if err != nil {
		return nil, ErrNoConnection
	}

	token, err := o.vault.Decrypt(row.CredentialEncrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypting platform credential: %w", err)
	}

	return &connection{
		accountID: row.AccountID,
		client:    o.newClient(string(token)),
	}, nil
}
