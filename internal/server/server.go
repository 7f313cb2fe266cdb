// Package server sets up and manages the main HTTP API server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/agentview/api/internal/audit"
	"github.com/agentview/api/internal/cloudflare"
	"github.com/agentview/api/internal/config"
	"github.com/agentview/api/internal/crypto"
	"github.com/agentview/api/internal/database"
	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/events"
	"github.com/agentview/api/internal/orchestrator"
	"github.com/agentview/api/internal/router"
	"github.com/agentview/api/internal/service"
	"github.com/agentview/api/internal/vault"
	"github.com/agentview/api/internal/workerscript"
)

// Server represents the API server with all its dependencies.
type Server struct {
	config         *config.Config
	reloader       *config.Reloader
	httpServer     *http.Server
	dbPool         *sql.DB
	queueProcessor *events.QueueProcessor
	script         *workerscript.Source
	cleanupTicker  *time.Ticker
	stopCh         chan struct{}
}

// New creates a new Server instance with all dependencies initialized.
func New(reloader *config.Reloader) (*Server, error) {
	cfg := reloader.GetConfig()

	dbPool, err := database.NewPool(cfg.DatabaseURL, database.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	slog.Info("Database connection pool established")

	if err := database.Migrate(dbPool); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	queries := db.New(dbPool)

	credentialVault, err := setupCredentialVault(reloader)
	if err != nil {
		return nil, fmt.Errorf("failed to setup credential vault: %w", err)
	}

	script, err := workerscript.NewSource(cfg.WorkerScriptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load worker script: %w", err)
	}

	ceClient, emitter, queueProcessor := setupEvents(cfg, queries)

	auditor := audit.New(queries)

	factory := func(token string) orchestrator.PlatformAPI {
		return cloudflare.NewClient(cfg.CloudflareAPIBase, token)
	}

	orch := orchestrator.New(
		queries,
		credentialVault,
		factory,
		script,
		emitter,
		auditor,
		cfg.CallbackURL,
		orchestrator.NewProbe(cfg.ProbeResolver),
	)

	svc := service.New(queries, orch, credentialVault, factory, auditor, emitter)

	handler := router.New(&router.Dependencies{
		Service:        svc,
		OperatorToken:  func() string { return reloader.GetConfig().OperatorToken },
		AllowedOrigins: cfg.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logServerConfig(cfg, ceClient)

	return &Server{
		config:         cfg,
		reloader:       reloader,
		httpServer:     httpServer,
		dbPool:         dbPool,
		queueProcessor: queueProcessor,
		script:         script,
		stopCh:         make(chan struct{}),
	}, nil
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	// Start the config reloader
	if err := s.reloader.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start config reloader: %w", err)
	}

	if err := s.script.Watch(s.stopCh); err != nil {
		return fmt.Errorf("failed to watch worker script: %w", err)
	}

	go s.queueProcessor.Start(context.Background())

	s.cleanupTicker = time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-s.cleanupTicker.C:
				if err := s.queueProcessor.CleanupOldEvents(context.Background()); err != nil {
					slog.Error("failed to cleanup old queued events", "err", err)
				} else {
					slog.Debug("cleaned up old queued events")
				}
			case <-s.stopCh:
				return
			}
		}
	}()
	slog.Info("Event queue cleanup job started (runs every 1 hour)")

	slog.Info("Starting AgentView API v1", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Starting graceful shutdown")

	// Stop the config reloader
	if err := s.reloader.Stop(); err != nil {
		slog.Error("Error stopping config reloader", "error", err)
	} else {
		slog.Info("Config reloader stopped")
	}

	if s.cleanupTicker != nil {
		s.cleanupTicker.Stop()
	}
	close(s.stopCh)

	slog.Info("Stopping queue processor")
	s.queueProcessor.Stop()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		_ = s.httpServer.Close()
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}

	if err := s.dbPool.Close(); err != nil {
		return fmt.Errorf("error closing database: %w", err)
	}

	slog.Info("Server stopped gracefully")
	return nil
}

// setupCredentialVault builds the AES-GCM credential vault. The master key
// comes from the CREDENTIAL_KEY config value when set, otherwise it is
// fetched from Vault at VAULT_KEY_PATH.
func setupCredentialVault(reloader *config.Reloader) (*crypto.Vault, error) {
	cfg := reloader.GetConfig()

	material := cfg.CredentialKey
	if material == "" {
		vaultClient, err := vault.NewClient(&vault.Config{
			Address: cfg.VaultAddr,
			Token:   cfg.VaultToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}

		// Rotated vault-agent tokens take effect without a restart.
		reloader.OnTokenChange(vaultClient.SetToken)

		material, err = vaultClient.FetchCredentialKey(context.Background(), cfg.VaultKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch credential key: %w", err)
		}
		slog.Info("Credential key loaded from Vault", "path", cfg.VaultKeyPath)
	}

	key, err := crypto.ParseKey(material)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credential key: %w", err)
	}

	credentialVault := crypto.New(key)
	slog.Info("Credential vault initialized", "key_fingerprint", credentialVault.Fingerprint())
	return credentialVault, nil
}

// setupEvents initializes event emitter and queue processor.
func setupEvents(cfg *config.Config, queries db.Querier) (
	cloudevents.Client,
	*events.Emitter,
	*events.QueueProcessor,
) {
	var ceClient cloudevents.Client

	if cfg.GCPProjectID != "" && cfg.EventsTopicID != "" {
		sender, err := events.NewPubSubSender(context.Background(), cfg.GCPProjectID, cfg.EventsTopicID)
		if err != nil {
			slog.Warn("Failed to create Pub/Sub sender, events disabled", "error", err)
			ceClient = events.NewNoOpClient()
		} else {
			slog.Info("Event emitter configured with Pub/Sub",
				"project", cfg.GCPProjectID,
				"topic", cfg.EventsTopicID)
			ceClient = events.NewPubSubCloudEventsClient(sender)
		}
	} else {
		slog.Info("Event emitter disabled (no GCP_PROJECT_ID or EVENTS_TOPIC_ID)")
		ceClient = events.NewNoOpClient()
	}

	emitter := events.NewEmitter(queries, events.EventSourceAgentViewAPI)

	hostname, _ := os.Hostname()
	instanceID := fmt.Sprintf("%s-%d", hostname, os.Getpid())
	queueProcessor := events.NewQueueProcessor(
		queries,
		ceClient,
		events.EventSourceAgentViewAPI,
		instanceID,
		events.DefaultQueueProcessorConfig(),
	)

	return ceClient, emitter, queueProcessor
}

// logServerConfig logs the server configuration at startup.
func logServerConfig(cfg *config.Config, ceClient cloudevents.Client) {
	slog.Info("Operator authentication enabled", "token_len", len(cfg.OperatorToken))
	slog.Info("Platform API configured", "base", cfg.CloudflareAPIBase)
	slog.Info("Deploy probe configured", "resolver", cfg.ProbeResolver)
}
