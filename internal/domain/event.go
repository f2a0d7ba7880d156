package domain

import "github.com/google/uuid"

// EventType discriminates stream events on the wire
type EventType string

const (
	EventAbort        EventType = "abort"
	EventTextResponse EventType = "textResponse"
)

// ActionRenameThread is the out-of-band action notifying a thread rename
const ActionRenameThread = "rename_thread"

// ResponseEvent is one wire message sent over the response channel
type ResponseEvent interface {
	responseEvent()
}

// Source is a citation document attached to a response chunk
type Source struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

// StreamEvent is the wire shape shared by abort and textResponse events.
// The ID is a fresh per-event nonce, not a session identifier.
type StreamEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	TextResponse *string   `json:"textResponse"`
	Sources      []Source  `json:"sources"`
	Close        bool      `json:"close"`
	Error        *string   `json:"error"`
}

func (StreamEvent) responseEvent() {}

// ActionEvent is an out-of-band notification, e.g. a thread rename
type ActionEvent struct {
	Action string    `json:"action"`
	Thread ThreadRef `json:"thread"`
}

func (ActionEvent) responseEvent() {}

// ThreadRef is the thread payload of an action event
type ThreadRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// NewAbortEvent builds a terminal abort event. A nil error message marshals
// as an explicit null, matching the wire contract.
func NewAbortEvent(errMsg string) StreamEvent {
	ev := StreamEvent{
		ID:      uuid.NewString(),
		Type:    EventAbort,
		Sources: []Source{},
		Close:   true,
	}
	if errMsg != "" {
		ev.Error = &errMsg
	}
	return ev
}

// NewTextEvent builds an incremental content event
func NewTextEvent(chunk string, close bool) StreamEvent {
	return StreamEvent{
		ID:           uuid.NewString(),
		Type:         EventTextResponse,
		TextResponse: &chunk,
		Sources:      []Source{},
		Close:        close,
	}
}

// NewRenameAction builds the rename_thread action event
func NewRenameAction(thread *Thread) ActionEvent {
	return ActionEvent{
		Action: ActionRenameThread,
		Thread: ThreadRef{Slug: thread.Slug, Name: thread.Name},
	}
}
