package vault

import (
	"context"
	"fmt"
	"strings"
)

// CredentialKeyField is the field inside the Vault secret that holds the
// credential vault master key material.
const CredentialKeyField = "key"

// FetchCredentialKey reads the credential vault master key material from a
// KV v1 path. The material is returned as stored (hex or base64); decoding
// and length handling happen in the crypto package.
func (c *Client) FetchCredentialKey(ctx context.Context, keyPath string) (string, error) {
	mount, path, found := strings.Cut(keyPath, "/")
	if !found || mount == "" || path == "" {
		return "", fmt.Errorf("invalid credential key path %q, want mount/path", keyPath)
	}

	kv := NewKVv1(c, mount)
	data, err := kv.Read(ctx, path)
	if err != nil {
		return "", fmt.Errorf("reading credential key: %w", err)
	}

	material, ok := data[CredentialKeyField].(string)
	if !ok || material == "" {
		return "", fmt.Errorf("credential key secret at %s has no %q field", keyPath, CredentialKeyField)
	}

	return material, nil
}
