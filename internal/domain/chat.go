package domain

import "context"

// Attachment is a file reference sent alongside a chat message
type Attachment struct {
	Name          string `json:"name"`
	Mime          string `json:"mime"`
	ContentString string `json:"contentString"`
}

// ChatRequest is the body of a stream-chat call
type ChatRequest struct {
	Message     string       `json:"message"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// StreamRequest carries one validated chat turn into the engine
type StreamRequest struct {
	Workspace   *Workspace
	Thread      *Thread // nil for workspace-level chats
	User        *User   // nil in single-user deployments
	Mode        ChatMode
	Message     string
	Attachments []Attachment
}

// EventWriter writes discrete events to an open response stream. Writes
// after the client disconnects are best-effort and report an error without
// tearing down the caller.
type EventWriter interface {
	Write(event ResponseEvent) error
}

// StreamEngine is the narrow streaming chat engine contract. The engine owns
// writing textResponse events and its own terminal completion event to the
// channel; callers only await its return.
type StreamEngine interface {
	StreamChat(ctx context.Context, ch EventWriter, req StreamRequest) error
}
