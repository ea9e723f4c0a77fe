package transport

import (
	"tower-siege/internal/app"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeCommand MessageType = "command"
	MessageTypeResult  MessageType = "result"
	MessageTypeState   MessageType = "state"
	MessageTypeEvent   MessageType = "event"
	MessageTypeError   MessageType = "error"
)

// ClientMessage is everything a client may send.
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Command app.Command `json:"command"`
}

// ServerMessage is everything the server sends. Only the fields relevant to
// Type are set.
type ServerMessage struct {
	Type    MessageType       `json:"type"`
	Session string            `json:"session,omitempty"`
	State   *entity.GameState `json:"state,omitempty"`
	Event   *event.Event      `json:"event,omitempty"`
	Error   *ErrorMessage     `json:"error,omitempty"`
}

// ErrorMessage describes a rejected or malformed request.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	CodeBadMessage     = "BAD_MESSAGE"
	CodeUnknownType    = "UNKNOWN_MESSAGE_TYPE"
	CodeRejected       = "REJECTED"
	CodeServerStopping = "SERVER_STOPPING"
)
