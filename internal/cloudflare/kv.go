package cloudflare

import (
	"context"
	"fmt"
	"net/url"
)

// CreateKVNamespace creates a key-value store in the account.
func (c *Client) CreateKVNamespace(ctx context.Context, accountID, title string) (KVNamespace, error) {
	body, err := marshalBody("create_kv_namespace", map[string]string{"title": title})
	if err != nil {
		return KVNamespace{}, err
	}

	path := fmt.Sprintf("/accounts/%s/storage/kv/namespaces", accountID)
	return request[KVNamespace](ctx, c, "create_kv_namespace", "POST", path, "application/json", body)
}

// DeleteKVNamespace deletes a key-value store and all of its keys.
func (c *Client) DeleteKVNamespace(ctx context.Context, accountID, namespaceID string) error {
	path := fmt.Sprintf("/accounts/%s/storage/kv/namespaces/%s", accountID, namespaceID)
	_, err := c.do(ctx, "delete_kv_namespace", "DELETE", path, "", nil)
	return err
}

// WriteKVPair writes a value under a key. The value is sent raw; the
// data plane answers with plain status semantics, not the envelope.
func (c *Client) WriteKVPair(ctx context.Context, accountID, namespaceID, key string, value []byte) error {
	path := fmt.Sprintf("/accounts/%s/storage/kv/namespaces/%s/values/%s",
		accountID, namespaceID, url.PathEscape(key))
	return c.doPlain(ctx, "write_kv_pair", "PUT", path, "text/plain", value)
}

// DeleteKVPair removes a key from the store.
func (c *Client) DeleteKVPair(ctx context.Context, accountID, namespaceID, key string) error {
	path := fmt.Sprintf("/accounts/%s/storage/kv/namespaces/%s/values/%s",
		accountID, namespaceID, url.PathEscape(key))
	return c.doPlain(ctx, "delete_kv_pair", "DELETE", path, "", nil)
}
