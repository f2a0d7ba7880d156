package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/chat"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// TelemetrySink records anonymized usage events
type TelemetrySink interface {
	Send(ctx context.Context, event string, props map[string]any) error
}

// EventRecorder writes structured operator event logs
type EventRecorder interface {
	Log(ctx context.Context, event string, metadata map[string]any, userID *uuid.UUID) error
}

// ChatService orchestrates one streamed chat turn: quota gate, engine
// invocation, thread auto-rename, and best-effort side effects. The HTTP
// handler owns validation, channel open and channel close.
type ChatService struct {
	engine    domain.StreamEngine
	quota     *QuotaGate
	threads   *ThreadService
	telemetry TelemetrySink
	events    EventRecorder
	multiUser bool
}

// NewChatService creates a new chat service
func NewChatService(
	engine domain.StreamEngine,
	quota *QuotaGate,
	threads *ThreadService,
	telemetry TelemetrySink,
	events EventRecorder,
	multiUser bool,
) *ChatService {
	return &ChatService{
		engine:    engine,
		quota:     quota,
		threads:   threads,
		telemetry: telemetry,
		events:    events,
		multiUser: multiUser,
	}
}

// StreamChat runs one validated chat turn over an already-open channel. The
// client always observes either streamed content ending normally or a single
// abort event; post-stream side effect failures never surface a second
// terminal event.
func (s *ChatService) StreamChat(ctx context.Context, ch domain.EventWriter, req domain.StreamRequest) {
	allowed, err := s.quota.CanSend(ctx, req.User)
	if err != nil {
		// fail open on counter read errors, same as the request rate limiter
		log.Error().Err(err).Msg("quota check failed")
		allowed = true
	}
	if !allowed {
		msg := fmt.Sprintf(
			"You have met your maximum 24 hour chat quota of %d chats. Try again later.",
			s.quota.LimitFor(req.User),
		)
		if err := ch.Write(domain.NewAbortEvent(msg)); err != nil {
			log.Debug().Err(err).Msg("failed to write quota abort")
		}
		return
	}

	if err := s.engine.StreamChat(ctx, ch, req); err != nil {
		log.Error().Err(err).Str("workspace", req.Workspace.Slug).Msg("chat stream failed")
		if werr := ch.Write(domain.NewAbortEvent(err.Error())); werr != nil {
			log.Debug().Err(werr).Msg("failed to write abort event")
		}
		return
	}

	if req.Thread != nil {
		renamed, err := s.threads.AutoRename(ctx, req.Thread, chat.SummarizeTitle(req.Message))
		if err != nil {
			log.Error().Err(err).Str("thread", req.Thread.Slug).Msg("thread auto-rename failed")
		} else if renamed != nil {
			if err := ch.Write(domain.NewRenameAction(renamed)); err != nil {
				log.Debug().Err(err).Msg("failed to write rename action")
			}
		}
	}

	s.recordSideEffects(ctx, req)
}

// recordSideEffects emits the usage telemetry record and the event log
// entry. Both are best-effort and never surface on the client channel.
func (s *ChatService) recordSideEffects(ctx context.Context, req domain.StreamRequest) {
	props := map[string]any{
		"multiUserMode": s.multiUser,
		"multiModal":    len(req.Attachments) > 0,
	}
	if err := s.telemetry.Send(ctx, domain.EventSentChat, props); err != nil {
		log.Debug().Err(err).Msg("failed to send telemetry")
	}

	chatModel := req.Workspace.ChatModel
	if chatModel == "" {
		chatModel = "System Default"
	}
	metadata := map[string]any{
		"workspaceName": req.Workspace.Name,
		"chatModel":     chatModel,
	}
	if req.Thread != nil {
		metadata["thread"] = req.Thread.Name
	}

	var userID *uuid.UUID
	if req.User != nil {
		userID = &req.User.ID
	}
	if err := s.events.Log(ctx, domain.EventSentChat, metadata, userID); err != nil {
		log.Error().Err(err).Msg("failed to record event log")
	}
}
