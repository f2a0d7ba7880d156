package handler

import (
	"encoding/json"
	"net/http"

	"github.com/openloom/workspace-chat/internal/api/middleware"
	"github.com/openloom/workspace-chat/internal/api/response"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/service"
)

// WorkspaceHandler handles workspace endpoints
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create handles workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.WorkspaceCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), input)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, workspace)
}

// List handles listing workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.workspaceService.List(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, workspaces)
}

// Get returns the workspace resolved by the route middleware
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspace, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		response.NotFound(w, "workspace not found")
		return
	}

	response.OK(w, workspace)
}

// Update handles updating a workspace
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	workspace, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		response.NotFound(w, "workspace not found")
		return
	}

	var input domain.WorkspaceUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.workspaceService.Update(r.Context(), workspace.ID, &input); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	updated, err := h.workspaceService.GetBySlug(r.Context(), workspace.Slug)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, updated)
}

// Delete handles deleting a workspace
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workspace, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		response.NotFound(w, "workspace not found")
		return
	}

	if err := h.workspaceService.Delete(r.Context(), workspace.ID); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.NoContent(w)
}
