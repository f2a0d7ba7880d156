package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openloom/workspace-chat/internal/api/handler"
	"github.com/openloom/workspace-chat/internal/api/middleware"
	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/service"
)

// scriptedEngine streams a fixed reply, or fails
type scriptedEngine struct {
	chunks  []string
	fail    error
	invoked bool
}

func (e *scriptedEngine) StreamChat(ctx context.Context, ch domain.EventWriter, req domain.StreamRequest) error {
	e.invoked = true
	if e.fail != nil {
		return e.fail
	}
	for _, chunk := range e.chunks {
		if err := ch.Write(domain.NewTextEvent(chunk, false)); err != nil {
			return err
		}
	}
	return ch.Write(domain.NewTextEvent("", true))
}

type stubMessageRepo struct{}

func (stubMessageRepo) Create(context.Context, *domain.Message) error { return nil }
func (stubMessageRepo) ListByWorkspace(context.Context, uuid.UUID, int) ([]domain.Message, error) {
	return nil, nil
}
func (stubMessageRepo) ListByThread(context.Context, uuid.UUID, int) ([]domain.Message, error) {
	return nil, nil
}
func (stubMessageRepo) CountByUserSince(context.Context, uuid.UUID, time.Time) (int, error) {
	return 0, nil
}

type stubThreadRepo struct{}

func (stubThreadRepo) Create(context.Context, *domain.Thread) error { return nil }
func (stubThreadRepo) GetBySlug(context.Context, uuid.UUID, string) (*domain.Thread, error) {
	return nil, nil
}
func (stubThreadRepo) ListByWorkspace(context.Context, uuid.UUID) ([]domain.Thread, error) {
	return nil, nil
}
func (stubThreadRepo) Rename(context.Context, uuid.UUID, string) error { return nil }
func (stubThreadRepo) Delete(context.Context, uuid.UUID) error         { return nil }

type stubTelemetry struct{}

func (stubTelemetry) Send(context.Context, string, map[string]any) error { return nil }

type stubEvents struct{}

func (stubEvents) Log(context.Context, string, map[string]any, *uuid.UUID) error { return nil }

func newChatHandler(engine domain.StreamEngine) *handler.ChatHandler {
	quota := service.NewQuotaGate(stubMessageRepo{}, false, 24*time.Hour, 100)
	threads := service.NewThreadService(stubThreadRepo{})
	svc := service.NewChatService(engine, quota, threads, stubTelemetry{}, stubEvents{}, false)
	return handler.NewChatHandler(svc)
}

func chatRequest(t *testing.T, body any, workspace *domain.Workspace, thread *domain.Thread) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/workspace/"+workspace.Slug+"/stream-chat", &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := context.WithValue(req.Context(), middleware.WorkspaceKey, workspace)
	if thread != nil {
		ctx = context.WithValue(ctx, middleware.ThreadKey, thread)
	}
	return req.WithContext(ctx)
}

func decodeFrames(t *testing.T, body string) []map[string]any {
	t.Helper()

	var frames []map[string]any
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &payload); err != nil {
			t.Fatalf("failed to decode frame %q: %v", chunk, err)
		}
		frames = append(frames, payload)
	}
	return frames
}

func TestStreamWorkspaceChat_EmptyMessageRejected(t *testing.T) {
	engine := &scriptedEngine{}
	h := newChatHandler(engine)
	workspace := &domain.Workspace{ID: uuid.New(), Slug: "support", Name: "Support"}

	rec := httptest.NewRecorder()
	h.StreamWorkspaceChat(rec, chatRequest(t, map[string]string{"message": "   "}, workspace, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got content type %q", ct)
	}
	if engine.invoked {
		t.Error("engine must not run for an empty message")
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["type"] != "abort" {
		t.Errorf("expected abort body, got %v", body)
	}
	if body["close"] != true {
		t.Error("expected close to be true")
	}
	if _, present := body["textResponse"]; !present || body["textResponse"] != nil {
		t.Errorf("expected explicit null textResponse, got %v", body["textResponse"])
	}
}

func TestStreamWorkspaceChat_StreamsDeltas(t *testing.T) {
	engine := &scriptedEngine{chunks: []string{"Hello", " there"}}
	h := newChatHandler(engine)
	workspace := &domain.Workspace{ID: uuid.New(), Slug: "support", Name: "Support"}

	rec := httptest.NewRecorder()
	h.StreamWorkspaceChat(rec, chatRequest(t, map[string]string{"message": "hi"}, workspace, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream, got content type %q", ct)
	}

	frames := decodeFrames(t, rec.Body.String())
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d: %v", len(frames), frames)
	}
	if frames[0]["textResponse"] != "Hello" || frames[1]["textResponse"] != " there" {
		t.Errorf("unexpected deltas: %v", frames)
	}
	last := frames[len(frames)-1]
	if last["close"] != true {
		t.Error("expected terminal frame with close true")
	}
}

func TestStreamThreadChat_EmitsRenameAction(t *testing.T) {
	engine := &scriptedEngine{chunks: []string{"answer"}}
	h := newChatHandler(engine)
	workspace := &domain.Workspace{ID: uuid.New(), Slug: "support", Name: "Support"}
	thread := &domain.Thread{
		ID:          uuid.New(),
		WorkspaceID: workspace.ID,
		Slug:        uuid.NewString(),
		Name:        domain.DefaultThreadName,
	}

	rec := httptest.NewRecorder()
	h.StreamThreadChat(rec, chatRequest(t, map[string]string{
		"message": "Please explain how async functions work in depth",
	}, workspace, thread))

	frames := decodeFrames(t, rec.Body.String())
	if len(frames) < 3 {
		t.Fatalf("expected content, terminal and action frames, got %v", frames)
	}

	action := frames[len(frames)-1]
	if action["action"] != "rename_thread" {
		t.Fatalf("expected rename_thread action as final frame, got %v", action)
	}
	payload, ok := action["thread"].(map[string]any)
	if !ok {
		t.Fatal("expected thread payload on action frame")
	}
	if payload["slug"] != thread.Slug {
		t.Errorf("expected slug %q, got %v", thread.Slug, payload["slug"])
	}
	if payload["name"] != "How async functions work in depth" {
		t.Errorf("unexpected rename candidate: %v", payload["name"])
	}
}

func TestStreamWorkspaceChat_EngineFailureStreamsAbort(t *testing.T) {
	engine := &scriptedEngine{fail: errors.New("provider unreachable")}
	h := newChatHandler(engine)
	workspace := &domain.Workspace{ID: uuid.New(), Slug: "support", Name: "Support"}

	rec := httptest.NewRecorder()
	h.StreamWorkspaceChat(rec, chatRequest(t, map[string]string{"message": "hi"}, workspace, nil))

	// the channel was already open, so the failure arrives as a stream event
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	frames := decodeFrames(t, rec.Body.String())
	if len(frames) != 1 {
		t.Fatalf("expected a single abort frame, got %d", len(frames))
	}
	if frames[0]["type"] != "abort" || frames[0]["close"] != true {
		t.Errorf("unexpected abort frame: %v", frames[0])
	}
}
