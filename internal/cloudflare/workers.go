package cloudflare

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// KVBinding exposes a key-value store to a worker under a variable name.
type KVBinding struct {
	Name        string
	NamespaceID string
}

// UploadWorker uploads (or replaces) a module worker script with its
// key-value store bindings.
func (c *Client) UploadWorker(ctx context.Context, accountID, scriptName string, script []byte, bindings []KVBinding) (WorkerScript, error) {
	const op = "upload_worker"

	meta := map[string]any{
		"main_module":        "worker.js",
		"compatibility_date": "2024-09-01",
	}
	if len(bindings) > 0 {
		entries := make([]map[string]string, 0, len(bindings))
		for _, b := range bindings {
			entries = append(entries, map[string]string{
				"type":         "kv_namespace",
				"name":         b.Name,
				"namespace_id": b.NamespaceID,
			})
		}
		meta["bindings"] = entries
	}

	metaJSON, err := marshalBody(op, meta)
	if err != nil {
		return WorkerScript{}, err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Disposition", `form-data; name="metadata"`)
	metaHeader.Set("Content-Type", "application/json")
	metaPart, err := form.CreatePart(metaHeader)
	if err != nil {
		return WorkerScript{}, &TransportError{Op: op, Err: err}
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return WorkerScript{}, &TransportError{Op: op, Err: err}
	}

	scriptHeader := textproto.MIMEHeader{}
	scriptHeader.Set("Content-Disposition", `form-data; name="worker.js"; filename="worker.js"`)
	scriptHeader.Set("Content-Type", "application/javascript+module")
	scriptPart, err := form.CreatePart(scriptHeader)
	if err != nil {
		return WorkerScript{}, &TransportError{Op: op, Err: err}
	}
	if _, err := scriptPart.Write(script); err != nil {
		return WorkerScript{}, &TransportError{Op: op, Err: err}
	}

	if err := form.Close(); err != nil {
		return WorkerScript{}, &TransportError{Op: op, Err: err}
	}

	path := fmt.Sprintf("/accounts/%s/workers/scripts/%s", accountID, scriptName)
	return request[WorkerScript](ctx, c, op, "PUT", path, form.FormDataContentType(), buf.Bytes())
}

// SetWorkerSecret sets an environment secret on an uploaded worker.
func (c *Client) SetWorkerSecret(ctx context.Context, accountID, scriptName, name, value string) error {
	const op = "set_worker_secret"

	body, err := marshalBody(op, map[string]string{
		"name": name,
		"text": value,
		"type": "secret_text",
	})
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/accounts/%s/workers/scripts/%s/secrets", accountID, scriptName)
	_, err = c.do(ctx, op, "PUT", path, "application/json", body)
	return err
}

// DeleteWorker removes a worker script.
func (c *Client) DeleteWorker(ctx context.Context, accountID, scriptName string) error {
	path := fmt.Sprintf("/accounts/%s/workers/scripts/%s", accountID, scriptName)
	_, err := c.do(ctx, "delete_worker", "DELETE", path, "", nil)
	return err
}
