package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agentview/api/internal/db"
	"github.com/agentview/api/internal/events"
	"github.com/agentview/api/internal/orchestrator"
	"github.com/agentview/api/internal/validation"
)

type createDeploymentRequest struct {
	CustomerID string `json:"customer_id"`
	SiteID     string `json:"site_id"`
	DomainID   string `json:"domain_id"`
	DomainName string `json:"domain_name"`
}

type deploymentResponse struct {
	DeploymentID  int64     `json:"deployment_id"`
	CustomerID    string    `json:"customer_id"`
	SiteID        string    `json:"site_id"`
	DomainName    string    `json:"domain_name"`
	WorkerName    string    `json:"worker_name"`
	KVStoreID     string    `json:"kv_store_id"`
	RoutePattern  string    `json:"route_pattern"`
	RouteID       string    `json:"route_id"`
	Status        string    `json:"status"`
	DeployedAt    time.Time `json:"deployed_at"`
	LastUpdated   time.Time `json:"last_updated"`
	SyncedContent *int      `json:"synced_content,omitempty"`
}

func toDeploymentResponse(d db.Deployment) deploymentResponse {
	return deploymentResponse{
		DeploymentID: d.ID,
		CustomerID:   d.CustomerID,
		SiteID:       d.SiteID,
		DomainName:   d.DomainName,
		WorkerName:   d.WorkerName,
		KVStoreID:    d.KvStoreID,
		RoutePattern: d.RoutePattern,
		RouteID:      d.RouteID,
		Status:       string(d.Status),
		DeployedAt:   d.DeployedAt,
		LastUpdated:  d.LastUpdated,
	}
}

// deploymentID parses the {id} path segment.
func deploymentID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// HandleCreateDeployment provisions a site end to end and returns the
// persisted deployment.
func (s *Service) HandleCreateDeployment(w http.ResponseWriter, r *http.Request) {
	var req createDeploymentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := validation.CustomerID(req.CustomerID); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validation.SiteID(req.SiteID); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validation.RequiredString("domain_id", req.DomainID); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validation.DomainName(req.DomainName); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.orch.Provision(r.Context(), orchestrator.ProvisionRequest{
		CustomerID: req.CustomerID,
		SiteID:     req.SiteID,
		DomainID:   req.DomainID,
		DomainName: req.DomainName,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	synced := result.SyncedContent
	writeJSON(w, http.StatusCreated, deploymentResponse{
		DeploymentID:  result.DeploymentID,
		CustomerID:    req.CustomerID,
		SiteID:        req.SiteID,
		DomainName:    req.DomainName,
		WorkerName:    result.WorkerName,
		KVStoreID:     result.KVStoreID,
		RoutePattern:  result.RoutePattern,
		RouteID:       result.RouteID,
		Status:        string(db.DeploymentsStatusActive),
		SyncedContent: &synced,
	})
}

// HandleGetDeployment returns a single deployment.
func (s *Service) HandleGetDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := deploymentID(r)
	if !ok {
		badRequest(w, "invalid deployment id")
		return
	}

	deployment, err := s.q.GetDeployment(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDeploymentResponse(deployment))
}

// HandleListDeployments returns every deployment for a customer, active
// and deleted.
func (s *Service) HandleListDeployments(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customerID")
	if err := validation.CustomerID(customerID); err != nil {
		respondError(w, r, err)
		return
	}

	deployments, err := s.q.ListCustomerDeployments(r.Context(), customerID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	responses := make([]deploymentResponse, 0, len(deployments))
	for _, d := range deployments {
		responses = append(responses, toDeploymentResponse(d))
	}

	writeJSON(w, http.StatusOK, map[string]any{"deployments": responses})
}

type resyncResponse struct {
	DeploymentID  int64 `json:"deployment_id"`
	SyncedContent int   `json:"synced_content"`
}

// HandleResync pushes every active variant back to the edge store.
func (s *Service) HandleResync(w http.ResponseWriter, r *http.Request) {
	id, ok := deploymentID(r)
	if !ok {
		badRequest(w, "invalid deployment id")
		return
	}

	synced, err := s.orch.Sync(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.sendEvent(r.Context(), events.EventTypeDeploymentResynced, strconv.FormatInt(id, 10), events.DeploymentEvent{
		DeploymentID: id,
	})

	writeJSON(w, http.StatusOK, resyncResponse{DeploymentID: id, SyncedContent: synced})
}

// HandleDeleteDeployment tears a deployment down.
func (s *Service) HandleDeleteDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := deploymentID(r)
	if !ok {
		badRequest(w, "invalid deployment id")
		return
	}

	if err := s.orch.Teardown(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
