package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentview/api/internal/cloudflare"
	"github.com/agentview/api/internal/crypto"
	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/orchestrator"
	"github.com/agentview/api/internal/testutils"
	"github.com/agentview/api/internal/workerscript"
)

const testCustomerID = "550e8400-e29b-41d4-a716-446655440000"

// stubPlatform is a minimal PlatformAPI for handler tests.
type stubPlatform struct {
	verifyStatus string
	verifyErr    error
	accounts     []cloudflare.Account
	accountsErr  error
}

func (s *stubPlatform) VerifyToken(ctx context.Context) (cloudflare.TokenVerification, error) {
	if s.verifyErr != nil {
		return cloudflare.TokenVerification{}, s.verifyErr
	}
	status := s.verifyStatus
	if status == "" {
		status = "active"
	}
	return cloudflare.TokenVerification{ID: "tok-1", Status: status}, nil
}

func (s *stubPlatform) ListAccounts(ctx context.Context) ([]cloudflare.Account, error) {
	if s.accountsErr != nil {
		return nil, s.accountsErr
	}
	if s.accounts != nil {
		return s.accounts, nil
	}
	return []cloudflare.Account{{ID: "acct-1", Name: "Test Account"}}, nil
}

func (s *stubPlatform) GetZoneByName(ctx context.Context, name string) (cloudflare.Zone, error) {
	return cloudflare.Zone{ID: "zone-1", Name: name}, nil
}

func (s *stubPlatform) CreateKVNamespace(ctx context.Context, accountID, title string) (cloudflare.KVNamespace, error) {
	return cloudflare.KVNamespace{ID: "ns-1", Title: title}, nil
}

func (s *stubPlatform) DeleteKVNamespace(ctx context.Context, accountID, namespaceID string) error {
	return nil
}

func (s *stubPlatform) WriteKVPair(ctx context.Context, accountID, namespaceID, key string, value []byte) error {
	return nil
}

func (s *stubPlatform) DeleteKVPair(ctx context.Context, accountID, namespaceID, key string) error {
	return nil
}

func (s *stubPlatform) UploadWorker(ctx context.Context, accountID, scriptName string, script []byte, bindings []cloudflare.KVBinding) (cloudflare.WorkerScript, error) {
	return cloudflare.WorkerScript{ID: scriptName}, nil
}

func (s *stubPlatform) SetWorkerSecret(ctx context.Context, accountID, scriptName, name, value string) error {
	return nil
}

func (s *stubPlatform) DeleteWorker(ctx context.Context, accountID, scriptName string) error {
	return nil
}

func (s *stubPlatform) CreateRoute(ctx context.Context, zoneID, pattern, scriptName string) (cloudflare.WorkerRoute, error) {
	return cloudflare.WorkerRoute{ID: "route-1", Pattern: pattern, Script: scriptName}, nil
}

func (s *stubPlatform) DeleteRoute(ctx context.Context, zoneID, routeID string) error {
	return nil
}

func newTestService(t *testing.T, q *testutils.MockQuerier, platform orchestrator.PlatformAPI) *Service {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	vault := crypto.New(key)

	if q.GetActiveConnectionFunc == nil {
		encrypted, err := vault.Encrypt([]byte("platform-token"))
		require.NoError(t, err)
		q.GetActiveConnectionFunc = func(ctx context.Context, customerID string) (db.GetActiveConnectionRow, error) {
			if customerID != testCustomerID {
				return db.GetActiveConnectionRow{}, sql.ErrNoRows
			}
			return db.GetActiveConnectionRow{
				CustomerID:          customerID,
				AccountID:           "acct-1",
				CredentialEncrypted: encrypted,
			}, nil
		}
	}

	script, err := workerscript.NewSource("")
	require.NoError(t, err)

	factory := func(token string) orchestrator.PlatformAPI { return platform }
	orch := orchestrator.New(q, vault, factory, script, nil, nil, "https://api.agentview.io/v1/callbacks/visit", nil)
	return New(q, orch, vault, factory, nil, nil)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHandleCreateConnection(t *testing.T) {
	var stored db.UpsertConnectionParams
	q := &testutils.MockQuerier{
		UpsertConnectionFunc: func(ctx context.Context, arg db.UpsertConnectionParams) error {
			stored = arg
			return nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	body := `{"customer_id":"` + testCustomerID + `","api_token":"v1.0-abcdef0123456789abcdef"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/connections", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.HandleCreateConnection(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[connectionResponse](t, rec)
	assert.Equal(t, testCustomerID, resp.CustomerID)
	assert.Equal(t, "acct-1", resp.AccountID)
	assert.Equal(t, "Test Account", resp.AccountName)

	assert.Equal(t, testCustomerID, stored.CustomerID)
	assert.Equal(t, "acct-1", stored.AccountID)
	// The credential is stored encrypted, never as the raw token.
	assert.NotContains(t, string(stored.CredentialEncrypted), "v1.0-abcdef")
}

func TestHandleCreateConnectionRejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		platform   *stubPlatform
		wantStatus int
	}{
		{
			name:       "invalid customer id",
			body:       `{"customer_id":"nope","api_token":"v1.0-abcdef0123456789abcdef"}`,
			platform:   &stubPlatform{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "token too short",
			body:       `{"customer_id":"` + testCustomerID + `","api_token":"short"}`,
			platform:   &stubPlatform{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"customer_id":`,
			platform:   &stubPlatform{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"customer_id":"` + testCustomerID + `","api_token":"v1.0-abcdef0123456789abcdef","extra":1}`,
			platform:   &stubPlatform{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "expired token",
			body:       `{"customer_id":"` + testCustomerID + `","api_token":"v1.0-abcdef0123456789abcdef"}`,
			platform:   &stubPlatform{verifyStatus: "expired"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no account access",
			body:       `{"customer_id":"` + testCustomerID + `","api_token":"v1.0-abcdef0123456789abcdef"}`,
			platform:   &stubPlatform{accounts: []cloudflare.Account{}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "platform rejects token",
			body:       `{"customer_id":"` + testCustomerID + `","api_token":"v1.0-abcdef0123456789abcdef"}`,
			platform:   &stubPlatform{verifyErr: &cloudflare.APIError{Code: 9109, Message: "invalid token", HTTPStatus: 403}},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &testutils.MockQuerier{}, tt.platform)
			req := httptest.NewRequest(http.MethodPost, "/v1/connections", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			svc.HandleCreateConnection(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleDisconnect(t *testing.T) {
	disconnected := false
	q := &testutils.MockQuerier{
		MarkConnectionDisconnectedFunc: func(ctx context.Context, customerID string) error {
			disconnected = true
			return nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/connections/"+testCustomerID, nil)
	req.SetPathValue("customerID", testCustomerID)
	rec := httptest.NewRecorder()
	svc.HandleDisconnect(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, disconnected)
}

func TestHandleCreateDeployment(t *testing.T) {
	q := &testutils.MockQuerier{
		CreateDeploymentFunc: func(ctx context.Context, arg db.CreateDeploymentParams) (sql.Result, error) {
			return testutils.MockResult{InsertID: 12}, nil
		},
		ListActiveVariantsForCustomerFunc: func(ctx context.Context, customerID string) ([]db.Variant, error) {
			return []db.Variant{{CustomerID: customerID, UrlPath: "/", Content: "<html>hi</html>"}}, nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	body := `{
		"customer_id": "` + testCustomerID + `",
		"site_id": "docs",
		"domain_id": "dom-1",
		"domain_name": "docs.example.com"
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/deployments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.HandleCreateDeployment(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[deploymentResponse](t, rec)
	assert.Equal(t, int64(12), resp.DeploymentID)
	assert.Equal(t, "agentview-serve-docs", resp.WorkerName)
	assert.Equal(t, "docs.example.com/*", resp.RoutePattern)
	require.NotNil(t, resp.SyncedContent)
	assert.Equal(t, 1, *resp.SyncedContent)
}

func TestHandleCreateDeploymentRejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "bad site id",
			body:       `{"customer_id":"` + testCustomerID + `","site_id":"Bad_Site","domain_id":"d","domain_name":"a.example.com"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad domain",
			body:       `{"customer_id":"` + testCustomerID + `","site_id":"docs","domain_id":"d","domain_name":"https://a.example.com"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"customer_id":"` + testCustomerID + `","site_id":"docs","domain_id":"d","domain_name":"a.example.com","variants":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no connection",
			body:       `{"customer_id":"650e8400-e29b-41d4-a716-446655440000","site_id":"docs","domain_id":"d","domain_name":"a.example.com"}`,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &testutils.MockQuerier{}, &stubPlatform{})
			req := httptest.NewRequest(http.MethodPost, "/v1/deployments", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			svc.HandleCreateDeployment(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleResyncNotFound(t *testing.T) {
	svc := newTestService(t, &testutils.MockQuerier{}, &stubPlatform{})

	req := httptest.NewRequest(http.MethodPost, "/v1/deployments/99/resync", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	svc.HandleResync(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, ErrMsgNotFound, resp.Error)
}

func TestHandleResync(t *testing.T) {
	q := &testutils.MockQuerier{
		GetDeploymentFunc: func(ctx context.Context, id int64) (db.Deployment, error) {
			return db.Deployment{
				ID:         id,
				CustomerID: testCustomerID,
				SiteID:     "docs",
				KvStoreID:  "ns-1",
				Status:     db.DeploymentsStatusActive,
			}, nil
		},
		ListActiveVariantsFunc: func(ctx context.Context, deploymentID int64) ([]db.Variant, error) {
			return []db.Variant{
				{UrlPath: "/", Content: "a"},
				{UrlPath: "/pricing", Content: "b"},
			}, nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	req := httptest.NewRequest(http.MethodPost, "/v1/deployments/5/resync", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	svc.HandleResync(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[resyncResponse](t, rec)
	assert.Equal(t, 2, resp.SyncedContent)
}

func TestHandleDeleteDeployment(t *testing.T) {
	marked := false
	q := &testutils.MockQuerier{
		GetDeploymentFunc: func(ctx context.Context, id int64) (db.Deployment, error) {
			return db.Deployment{
				ID:         id,
				CustomerID: testCustomerID,
				SiteID:     "docs",
				DomainName: "docs.example.com",
				WorkerName: "agentview-serve-docs",
				KvStoreID:  "ns-1",
				RouteID:    "route-1",
				Status:     db.DeploymentsStatusActive,
			}, nil
		},
		MarkDeploymentDeletedFunc: func(ctx context.Context, id int64) error {
			marked = true
			return nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/deployments/5", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	svc.HandleDeleteDeployment(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, marked)
}

func TestHandleUpsertVariant(t *testing.T) {
	var upserted db.UpsertVariantParams
	q := &testutils.MockQuerier{
		GetDeploymentFunc: func(ctx context.Context, id int64) (db.Deployment, error) {
			return db.Deployment{
				ID:         id,
				CustomerID: testCustomerID,
				KvStoreID:  "ns-1",
				Status:     db.DeploymentsStatusActive,
			}, nil
		},
		UpsertVariantFunc: func(ctx context.Context, arg db.UpsertVariantParams) error {
			upserted = arg
			return nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	body := `{"url_path":"/pricing","content":"<html>new</html>"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/deployments/5/variants", strings.NewReader(body))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	svc.HandleUpsertVariant(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[upsertVariantResponse](t, rec)
	assert.True(t, resp.Pushed)
	assert.Equal(t, "/pricing", upserted.UrlPath)
	assert.Len(t, upserted.ContentHash, 64)
}

func TestHandleDeleteVariant(t *testing.T) {
	var archived db.ArchiveVariantParams
	q := &testutils.MockQuerier{
		GetDeploymentFunc: func(ctx context.Context, id int64) (db.Deployment, error) {
			return db.Deployment{
				ID:         id,
				CustomerID: testCustomerID,
				KvStoreID:  "ns-1",
				Status:     db.DeploymentsStatusActive,
			}, nil
		},
		ArchiveVariantFunc: func(ctx context.Context, arg db.ArchiveVariantParams) error {
			archived = arg
			return nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/deployments/5/variants?path=/pricing", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	svc.HandleDeleteVariant(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, "/pricing", archived.UrlPath)
}

func TestHandleDeleteVariantMissingPath(t *testing.T) {
	svc := newTestService(t, &testutils.MockQuerier{}, &stubPlatform{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/deployments/5/variants", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	svc.HandleDeleteVariant(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetDeployment(t *testing.T) {
	q := &testutils.MockQuerier{
		GetDeploymentFunc: func(ctx context.Context, id int64) (db.Deployment, error) {
			if id != 5 {
				return db.Deployment{}, sql.ErrNoRows
			}
			return db.Deployment{ID: 5, CustomerID: testCustomerID, SiteID: "docs", Status: db.DeploymentsStatusActive}, nil
		},
	}
	svc := newTestService(t, q, &stubPlatform{})

	req := httptest.NewRequest(http.MethodGet, "/v1/deployments/5", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	svc.HandleGetDeployment(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[deploymentResponse](t, rec)
	assert.Equal(t, "docs", resp.SiteID)

	req = httptest.NewRequest(http.MethodGet, "/v1/deployments/6", nil)
	req.SetPathValue("id", "6")
	rec = httptest.NewRecorder()
	svc.HandleGetDeployment(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
