package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/openloom/workspace-chat/internal/api/middleware"
	"github.com/openloom/workspace-chat/internal/api/response"
	"github.com/openloom/workspace-chat/internal/api/stream"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/service"
)

// ChatHandler handles streaming chat endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// StreamWorkspaceChat streams a chat completion against the workspace's
// default session (no thread).
func (h *ChatHandler) StreamWorkspaceChat(w http.ResponseWriter, r *http.Request) {
	h.streamChat(w, r, nil)
}

// StreamThreadChat streams a chat completion scoped to the thread resolved
// by the route middleware.
func (h *ChatHandler) StreamThreadChat(w http.ResponseWriter, r *http.Request) {
	thread, ok := middleware.GetThread(r.Context())
	if !ok {
		response.NotFound(w, "thread not found")
		return
	}
	h.streamChat(w, r, thread)
}

func (h *ChatHandler) streamChat(w http.ResponseWriter, r *http.Request, thread *domain.Thread) {
	workspace, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		response.NotFound(w, "workspace not found")
		return
	}
	user, _ := middleware.GetUser(r.Context())

	var input domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	// Invalid prompts are rejected before the event stream opens. The body
	// is the same abort shape clients consume on streamed aborts, not the
	// standard API envelope.
	if strings.TrimSpace(input.Message) == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(domain.NewAbortEvent("Message is empty."))
		return
	}

	ch := stream.Open(w)
	defer ch.Close()

	// A panic mid-stream must still deliver a terminal frame so the client
	// stops waiting for chunks.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Any("panic", rec).Msg("chat stream panicked")
			_ = ch.Write(domain.NewAbortEvent("An unexpected error occurred while streaming."))
		}
	}()

	req := domain.StreamRequest{
		Workspace:   workspace,
		Thread:      thread,
		User:        user,
		Mode:        workspace.ChatMode,
		Message:     input.Message,
		Attachments: input.Attachments,
	}

	h.chatService.StreamChat(r.Context(), ch, req)
}
