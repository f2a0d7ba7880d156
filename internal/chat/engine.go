package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/llm"
	"github.com/rs/zerolog/log"
)

const historyWindow = 20

const defaultSystemPrompt = "You are a helpful assistant answering questions inside a shared workspace. " +
	"Be concise and ground your answers in the conversation so far."

const queryModePrompt = "You are a retrieval assistant. Only answer from the conversation context you were given; " +
	"if the context does not contain the answer, say so instead of guessing."

// Engine is the default streaming chat engine. It loads recent history,
// streams model output as textResponse events, writes its own terminal
// event, and persists both sides of the turn.
type Engine struct {
	router   *llm.Router
	messages domain.MessageRepository
}

// NewEngine creates the default stream engine
func NewEngine(router *llm.Router, messages domain.MessageRepository) *Engine {
	return &Engine{router: router, messages: messages}
}

// StreamChat implements domain.StreamEngine
func (e *Engine) StreamChat(ctx context.Context, ch domain.EventWriter, req domain.StreamRequest) error {
	history, err := e.loadHistory(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("workspace", req.Workspace.Slug).Msg("failed to load chat history")
		history = nil
	}

	now := time.Now()
	var userID *uuid.UUID
	if req.User != nil {
		userID = &req.User.ID
	}
	var threadID *uuid.UUID
	if req.Thread != nil {
		threadID = &req.Thread.ID
	}

	// The persisted user message doubles as the quota counter increment:
	// the 24h gate reads these rows.
	userMsg := &domain.Message{
		ID:          uuid.New(),
		WorkspaceID: req.Workspace.ID,
		ThreadID:    threadID,
		UserID:      userID,
		Role:        domain.RoleUser,
		Content:     req.Message,
		CreatedAt:   now,
	}
	if err := e.messages.Create(ctx, userMsg); err != nil {
		log.Error().Err(err).Msg("failed to save user message")
	}

	provider, err := e.router.GetProvider("")
	if err != nil {
		return fmt.Errorf("failed to get LLM provider: %w", err)
	}

	var reply strings.Builder
	usage, err := provider.StreamCompletion(ctx, llm.Request{
		Messages: buildMessages(req, history),
	}, req.Workspace.ChatModel, func(delta string) error {
		reply.WriteString(delta)
		return ch.Write(domain.NewTextEvent(delta, false))
	})
	if err != nil {
		return fmt.Errorf("chat engine failed: %w", err)
	}

	// terminal event for the success path
	if err := ch.Write(domain.NewTextEvent("", true)); err != nil {
		log.Debug().Err(err).Msg("failed to write terminal event")
	}

	assistantMsg := &domain.Message{
		ID:          uuid.New(),
		WorkspaceID: req.Workspace.ID,
		ThreadID:    threadID,
		Role:        domain.RoleAssistant,
		Content:     reply.String(),
		CreatedAt:   time.Now(),
	}
	if err := e.messages.Create(ctx, assistantMsg); err != nil {
		log.Error().Err(err).Msg("failed to save assistant message")
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", usage.Model).
		Int("tokens", usage.TokensUsed).
		Int64("latency_ms", usage.LatencyMs).
		Msg("chat turn complete")

	return nil
}

func (e *Engine) loadHistory(ctx context.Context, req domain.StreamRequest) ([]domain.Message, error) {
	if req.Thread != nil {
		return e.messages.ListByThread(ctx, req.Thread.ID, historyWindow)
	}
	return e.messages.ListByWorkspace(ctx, req.Workspace.ID, historyWindow)
}

// buildMessages assembles the model input: system prompt, recent history in
// chronological order, then the current user turn with any attachments
// inlined.
func buildMessages(req domain.StreamRequest, history []domain.Message) []llm.ChatMessage {
	system := req.Workspace.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
		if req.Mode == domain.ChatModeQuery {
			system = queryModePrompt
		}
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: system})

	for _, m := range history {
		role := llm.RoleUser
		if m.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: m.Content})
	}

	content := req.Message
	if len(req.Attachments) > 0 {
		var sb strings.Builder
		sb.WriteString(content)
		for _, a := range req.Attachments {
			sb.WriteString("\n\n--- attachment: ")
			sb.WriteString(a.Name)
			sb.WriteString(" ---\n")
			sb.WriteString(a.ContentString)
		}
		content = sb.String()
	}
	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: content})

	return messages
}
