package model

import "time"

type SessionStatus string

const SESSION_ACTIVE SessionStatus = "active"
const SESSION_AWAITING_INPUT SessionStatus = "awaiting_input"
const SESSION_COMPLETED SessionStatus = "completed"
const SESSION_FAILED SessionStatus = "failed"

type Sender string

const SENDER_USER Sender = "user"
const SENDER_SYSTEM Sender = "system"

// Session is the mutable execution state of one customer conversation.
// It is owned exclusively by the orchestrator; storage backends treat it
// as an opaque snapshot.
type Session struct {
	Id            string         `json:"id"`
	RequestTypeId string         `json:"requestTypeId"`
	CurrentTask   int            `json:"currentTask"`
	Collected     map[string]any `json:"collected"`
	Results       map[string]any `json:"results"`
	PendingField  string         `json:"pendingField"`
	PendingInput  string         `json:"pendingInputType"`
	Status        SessionStatus  `json:"status"`
	History       []Message      `json:"history"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Message is immutable once appended to a session's history.
type Message struct {
	Sender     Sender    `json:"sender"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	NeedsInput bool      `json:"needsInput"`
	InputType  string    `json:"inputType,omitempty"`
}

func (s *Session) Append(sender Sender, text string, needsInput bool, inputType string) {
	s.History = append(s.History, Message{
		Sender:     sender,
		Text:       text,
		Timestamp:  time.Now().UTC(),
		NeedsInput: needsInput,
		InputType:  inputType,
	})
}

// TemplateData exposes the session state jsonpath templates resolve
// against: {$.collected.pnr}, {$.results.booking.source} and so on.
func (s *Session) TemplateData() map[string]any {
	return map[string]any{
		"collected": s.Collected,
		"results":   s.Results,
	}
}
