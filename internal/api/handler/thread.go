package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/openloom/workspace-chat/internal/api/middleware"
	"github.com/openloom/workspace-chat/internal/api/response"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/service"
)

// ThreadHandler handles thread endpoints
type ThreadHandler struct {
	threadService *service.ThreadService
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(threadService *service.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

type threadCreateRequest struct {
	Name string `json:"name" validate:"omitempty,max=255"`
}

// Create handles thread creation inside a workspace
func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspace, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		response.NotFound(w, "workspace not found")
		return
	}

	var input threadCreateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			response.BadRequest(w, "invalid request body")
			return
		}
		if err := validate.Struct(input); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
	}

	var userID *uuid.UUID
	if user, ok := middleware.GetUser(r.Context()); ok {
		userID = &user.ID
	}

	thread, err := h.threadService.Create(r.Context(), workspace, userID, input.Name)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, thread)
}

// List handles listing a workspace's threads
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	workspace, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		response.NotFound(w, "workspace not found")
		return
	}

	threads, err := h.threadService.ListByWorkspace(r.Context(), workspace.ID)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, threads)
}

// Get returns the thread resolved by the route middleware
func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	thread, ok := middleware.GetThread(r.Context())
	if !ok {
		response.NotFound(w, "thread not found")
		return
	}

	response.OK(w, thread)
}

// Update handles renaming a thread
func (h *ThreadHandler) Update(w http.ResponseWriter, r *http.Request) {
	thread, ok := middleware.GetThread(r.Context())
	if !ok {
		response.NotFound(w, "thread not found")
		return
	}

	var input domain.ThreadUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.threadService.Rename(r.Context(), thread, input.Name); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, thread)
}

// Delete handles deleting a thread
func (h *ThreadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	thread, ok := middleware.GetThread(r.Context())
	if !ok {
		response.NotFound(w, "thread not found")
		return
	}

	if err := h.threadService.Delete(r.Context(), thread.ID); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.NoContent(w)
}
