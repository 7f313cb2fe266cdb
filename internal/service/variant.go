package service

import (
	"net/http"

	"github.com/agentview/api/internal/orchestrator"
	"github.com/agentview/api/internal/validation"
)

type upsertVariantRequest struct {
	URLPath string `json:"url_path"`
	Content string `json:"content"`
}

type upsertVariantResponse struct {
	DeploymentID int64  `json:"deployment_id"`
	URLPath      string `json:"url_path"`
	Pushed       bool   `json:"pushed"`
}

// HandleUpsertVariant records a content variant and pushes it to the edge
// store. Pushed is false when the registry write succeeded but the edge
// push did not; a resync repairs the store.
func (s *Service) HandleUpsertVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := deploymentID(r)
	if !ok {
		badRequest(w, "invalid deployment id")
		return
	}

	var req upsertVariantRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := validation.URLPath(req.URLPath); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validation.VariantContent(req.Content); err != nil {
		respondError(w, r, err)
		return
	}

	pushed, err := s.orch.SyncVariant(r.Context(), id, orchestrator.VariantInput{
		URLPath: req.URLPath,
		Content: req.Content,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, upsertVariantResponse{
		DeploymentID: id,
		URLPath:      req.URLPath,
		Pushed:       pushed,
	})
}

// HandleDeleteVariant archives a variant and removes its edge store key.
// The variant is addressed by the path query parameter.
func (s *Service) HandleDeleteVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := deploymentID(r)
	if !ok {
		badRequest(w, "invalid deployment id")
		return
	}

	urlPath := r.URL.Query().Get("path")
	if err := validation.URLPath(urlPath); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.orch.DropVariant(r.Context(), id, urlPath); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
