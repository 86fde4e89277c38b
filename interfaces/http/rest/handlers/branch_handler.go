package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"railmap/application/services"
	"railmap/pkg/common"
	"railmap/pkg/utils"
)

// BranchHandler serves the branch split/merge/lineage endpoints.
type BranchHandler struct {
	service *services.RouteService
	logger  *zap.Logger
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(service *services.RouteService, logger *zap.Logger) *BranchHandler {
	return &BranchHandler{service: service, logger: logger}
}

// ListBranches returns all branches in creation order
func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.ListBranches())
}

// Initialize rebuilds the root branches from the current chains
func (h *BranchHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.InitializeBranches())
}

// GetTree exports the branch lineage DAG
func (h *BranchHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.BranchTree())
}

// SplitRequest is the body for splitting a branch at a city.
type SplitRequest struct {
	City string `json:"city" validate:"required"`
}

// Split breaks a branch in two at a junction city
func (h *BranchHandler) Split(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "branchID")

	var req SplitRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	childA, childB, err := h.service.SplitBranch(id, req.City)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"branch_a": childA,
		"branch_b": childB,
	})
}

// MergeRequest is the body for merging two branches.
type MergeRequest struct {
	Branch1 string `json:"branch1" validate:"required"`
	Branch2 string `json:"branch2" validate:"required,nefield=Branch1"`
	City1   string `json:"city1" validate:"required"`
	City2   string `json:"city2" validate:"required"`
}

// Merge joins two branches via a new connection
func (h *BranchHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err.Error())
		return
	}

	merged, err := h.service.MergeBranches(req.Branch1, req.Branch2, req.City1, req.City2)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, merged)
}

// Activate points the active marker at a branch
func (h *BranchHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "branchID")

	if err := h.service.SetActiveBranch(id); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"active": id})
}

// Apply replaces the network's connections with a branch's segments
func (h *BranchHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "branchID")

	if err := h.service.ApplyBranch(id); err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.service.Network())
}
