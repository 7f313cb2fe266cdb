package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	APIBaseURL string // Base URL for the API (e.g., https://api.agentview.io)

	DatabaseURL string

	GCPProjectID  string
	EventsTopicID string

	AllowedOrigins []string

	// Vault Configuration
	VaultAddr    string
	VaultToken   string
	VaultKeyPath string

	// CredentialKey is the hex or base64 encoded master key for the
	// credential vault. When empty the key is fetched from Vault at
	// VaultKeyPath instead.
	CredentialKey string

	// OperatorToken is the static bearer token for the operator API surface.
	OperatorToken string

	// CloudflareAPIBase is the platform API endpoint. Overridable for tests
	// and for routing through an egress proxy.
	CloudflareAPIBase string

	// CallbackURL is handed to every deployed worker so it can report
	// visit beacons back to us.
	CallbackURL string

	// WorkerScriptPath optionally overrides the embedded worker script.
	WorkerScriptPath string

	// ProbeResolver is the DNS server used by the post-deploy health probe.
	ProbeResolver string
}

// Load loads configuration from environment variables and Vault secrets.
// Priority: 1) Environment variables, 2) Vault secrets at /vault/secrets
// Waits up to 120 seconds for required variables to appear in Vault.
func Load() (*Config, error) {
	loader := NewVaultLoader()

	databasePasswordFile := os.Getenv("MARIADB_PASSWORD_FILE")
	if databasePasswordFile == "" {
		return nil, fmt.Errorf("MARIADB_PASSWORD_FILE is required")
	}
	databasePassword, err := os.ReadFile(databasePasswordFile)
	if err != nil || string(databasePassword) == "" {
		return nil, fmt.Errorf("failed to read %s: %w", databasePasswordFile, err)
	}

	operatorToken, err := loader.LoadEnv("OPERATOR_API_TOKEN", true)
	if err != nil {
		return nil, fmt.Errorf("failed to load OPERATOR_API_TOKEN: %w", err)
	}

	vaultToken, err := loader.LoadEnv("VAULT_TOKEN", true)
	if err != nil {
		return nil, fmt.Errorf("failed to load VAULT_TOKEN: %w", err)
	}

	baseUrl := loader.LoadEnvWithDefault("API_BASE_URL", "https://api.agentview.io")

	cfg := &Config{
		Port:         loader.LoadEnvWithDefault("PORT", "8080"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		APIBaseURL: baseUrl,

		DatabaseURL: fmt.Sprintf("agentview:%s@tcp(mariadb:3306)/agentview?parseTime=true", strings.TrimSpace(string(databasePassword))),

		GCPProjectID:  loader.LoadEnvWithDefault("GCP_PROJECT_ID", ""),
		EventsTopicID: loader.LoadEnvWithDefault("EVENTS_TOPIC_ID", ""),

		AllowedOrigins: parseAllowedOrigins(loader.LoadEnvWithDefault("ALLOWED_ORIGINS", baseUrl)),

		VaultAddr:    loader.LoadEnvWithDefault("VAULT_ADDR", "http://vault.agentview.io"),
		VaultToken:   vaultToken,
		VaultKeyPath: loader.LoadEnvWithDefault("VAULT_KEY_PATH", "agentview/credential-key"),

		CredentialKey: loader.LoadEnvWithDefault("CREDENTIAL_KEY", ""),

		OperatorToken: operatorToken,

		CloudflareAPIBase: loader.LoadEnvWithDefault("CLOUDFLARE_API_BASE", "https://api.cloudflare.com/client/v4"),

		CallbackURL: loader.LoadEnvWithDefault("CALLBACK_URL", fmt.Sprintf("%s/v1/callbacks/visit", baseUrl)),

		WorkerScriptPath: loader.LoadEnvWithDefault("WORKER_SCRIPT_PATH", ""),

		ProbeResolver: loader.LoadEnvWithDefault("PROBE_RESOLVER", "1.1.1.1:53"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (cfg *Config) Validate() error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.OperatorToken == "" {
		return fmt.Errorf("OPERATOR_API_TOKEN is required")
	}
	if cfg.VaultToken == "" {
		return fmt.Errorf("VAULT_TOKEN is required")
	}
	if cfg.CredentialKey == "" && cfg.VaultKeyPath == "" {
		return fmt.Errorf("one of CREDENTIAL_KEY or VAULT_KEY_PATH is required")
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseAllowedOrigins parses ALLOWED_ORIGINS env var or returns secure defaults
// Format: comma-separated list of origins (e.g., "https://api.agentview.io,https://dash.agentview.io")
// Default: Production origins.
func parseAllowedOrigins(originsEnv string) []string {
	if originsEnv != "" {
		origins := strings.Split(originsEnv, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}

	return []string{
		"https://api.agentview.io",
		"https://dash.agentview.io",
		"http://localhost:8080",
	}
}
