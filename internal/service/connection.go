package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/agentview/api/internal/audit"
	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/events"
	"github.com/agentview/api/internal/logging"
	"github.com/agentview/api/internal/validation"
)

type createConnectionRequest struct {
	CustomerID string `json:"customer_id"`
	APIToken   string `json:"api_token"`
}

type connectionResponse struct {
	CustomerID  string `json:"customer_id"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// HandleCreateConnection verifies a customer's platform token, resolves
// their account, and stores the encrypted credential. Re-connecting an
// already-connected customer replaces the stored credential.
func (s *Service) HandleCreateConnection(w http.ResponseWriter, r *http.Request) {
	var req createConnectionRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := validation.CustomerID(req.CustomerID); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validation.PlatformToken(req.APIToken); err != nil {
		respondError(w, r, err)
		return
	}

	ctx := logging.WithCustomerID(r.Context(), req.CustomerID)

	client := s.newClient(req.APIToken)
	verification, err := client.VerifyToken(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if verification.Status != "active" {
		badRequest(w, fmt.Sprintf("api_token: token is %s", verification.Status))
		return
	}

	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(accounts) == 0 {
		badRequest(w, "api_token: token has no account access")
		return
	}
	account := accounts[0]

	encrypted, err := s.vault.Encrypt([]byte(req.APIToken))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.q.UpsertConnection(ctx, db.UpsertConnectionParams{
		CustomerID:          req.CustomerID,
		AccountID:           account.ID,
		CredentialEncrypted: encrypted,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(ctx, "Platform connection stored", "account_id", account.ID)

	s.auditor.Log(ctx, req.CustomerID, req.CustomerID, audit.ConnectionEntityType, audit.ConnectionCreated, map[string]any{
		"account_id": account.ID,
	})
	s.sendEvent(ctx, events.EventTypeConnectionCreated, req.CustomerID, events.ConnectionEvent{
		CustomerID: req.CustomerID,
		AccountID:  account.ID,
	})

	writeJSON(w, http.StatusCreated, connectionResponse{
		CustomerID:  req.CustomerID,
		AccountID:   account.ID,
		AccountName: account.Name,
	})
}

// HandleDisconnect marks a customer's connection disconnected. The stored
// credential row is kept for audit but never used again.
func (s *Service) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customerID")
	if err := validation.CustomerID(customerID); err != nil {
		respondError(w, r, err)
		return
	}

	ctx := logging.WithCustomerID(r.Context(), customerID)

	if err := s.q.MarkConnectionDisconnected(ctx, customerID); err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(ctx, "Platform connection disconnected")

	s.auditor.Log(ctx, customerID, customerID, audit.ConnectionEntityType, audit.ConnectionDisconnected, nil)
	s.sendEvent(ctx, events.EventTypeConnectionDisconnected, customerID, events.ConnectionEvent{
		CustomerID: customerID,
	})

	w.WriteHeader(http.StatusNoContent)
}
