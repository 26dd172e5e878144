package core

import "github.com/coderoom/coderoom-server/internal/executor"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventCodeUpdate carries a room's current buffer and language.
	EventCodeUpdate EventKind = iota
	// EventRoomUsers delivers a room's presence list.
	EventRoomUsers
	// EventExecutionResult reports the outcome of an execute request.
	EventExecutionResult
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	Code     string
	Language string
	Users    []Participant
	Result   *executor.Result
	Error    *CoreError
}
