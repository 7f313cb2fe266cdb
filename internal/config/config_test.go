package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoad_OperatorTokenFromVault tests loading OPERATOR_API_TOKEN from vault
func TestLoad_OperatorTokenFromVault(t *testing.T) {
	// Ensure OPERATOR_API_TOKEN is not in environment
	_ = os.Unsetenv("OPERATOR_API_TOKEN")
	dbPath := "/tmp/foo"
	_ = os.Setenv("MARIADB_PASSWORD_FILE", dbPath)
	if err := os.WriteFile(dbPath, []byte("bar"), 0600); err != nil {
		t.Errorf("failed to write MARIADB_PASSWORD_FILE: %v", err)
	}

	// Set up vault secrets directory
	tmpDir := t.TempDir()
	_ = os.Setenv("VAULT_SECRETS_DIR", tmpDir)
	defer func() { _ = os.Unsetenv("VAULT_SECRETS_DIR") }()

	expectedOperatorToken := "vault-operator-token"
	expectedVaultToken := "vault-token-value"

	go func() {
		time.Sleep(5 * time.Second)
		operatorPath := filepath.Join(tmpDir, "OPERATOR_API_TOKEN")
		if err := os.WriteFile(operatorPath, []byte(expectedOperatorToken), 0600); err != nil {
			t.Errorf("failed to write OPERATOR_API_TOKEN: %v", err)
		}
		vaultPath := filepath.Join(tmpDir, "VAULT_TOKEN")
		if err := os.WriteFile(vaultPath, []byte(expectedVaultToken), 0600); err != nil {
			t.Errorf("failed to write VAULT_TOKEN: %v", err)
		}
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OperatorToken != expectedOperatorToken {
		t.Errorf("expected OPERATOR_API_TOKEN %q, got %q", expectedOperatorToken, cfg.OperatorToken)
	}
	if cfg.VaultToken != expectedVaultToken {
		t.Errorf("expected VAULT_TOKEN %q, got %q", expectedVaultToken, cfg.VaultToken)
	}

	_ = os.Remove(dbPath)
}

// TestValidate tests the Validate method of the Config struct.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				DatabaseURL:   "user:pass@tcp(localhost:3306)/dbname",
				OperatorToken: "test-token",
				VaultToken:    "test-vault-token",
				VaultKeyPath:  "agentview/credential-key",
				Port:          "8080",
			},
			wantErr: false,
		},
		{
			name: "missing database URL",
			config: &Config{
				OperatorToken: "test-token",
				VaultToken:    "test-vault-token",
				VaultKeyPath:  "agentview/credential-key",
				Port:          "8080",
			},
			wantErr: true,
		},
		{
			name: "missing operator token",
			config: &Config{
				DatabaseURL:  "user:pass@tcp(localhost:3306)/dbname",
				VaultToken:   "test-vault-token",
				VaultKeyPath: "agentview/credential-key",
				Port:         "8080",
			},
			wantErr: true,
		},
		{
			name: "missing Vault token",
			config: &Config{
				DatabaseURL:   "user:pass@tcp(localhost:3306)/dbname",
				OperatorToken: "test-token",
				VaultKeyPath:  "agentview/credential-key",
				Port:          "8080",
			},
			wantErr: true,
		},
		{
			name: "no credential key source",
			config: &Config{
				DatabaseURL:   "user:pass@tcp(localhost:3306)/dbname",
				OperatorToken: "test-token",
				VaultToken:    "test-vault-token",
				Port:          "8080",
			},
			wantErr: true,
		},
		{
			name: "inline credential key without vault path",
			config: &Config{
				DatabaseURL:   "user:pass@tcp(localhost:3306)/dbname",
				OperatorToken: "test-token",
				VaultToken:    "test-vault-token",
				CredentialKey: "6368616e676520746869732070617373776f726420746f206120736563726574",
				Port:          "8080",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestGetEnv tests the getEnv helper function for retrieving environment variables.
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "environment variable not set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				_ = os.Setenv(tt.key, tt.envValue)
				defer func() { _ = os.Unsetenv(tt.key) }()
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}
