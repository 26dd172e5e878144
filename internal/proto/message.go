package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin    = "join-room"
	InboundTypeCode    = "code-change"
	InboundTypeExecute = "execute-code"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameCodeUpdate      = "code-update"
	EventNameRoomUsers       = "room-users"
	EventNameExecutionResult = "execution-result"
)

// JoinData requests to join a specific room.
type JoinData struct {
	Room string `json:"roomId"`
}

// CodeData overwrites the room's shared buffer.
type CodeData struct {
	Room     string `json:"roomId"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ExecuteData asks to run code on behalf of the room.
type ExecuteData struct {
	Room     string `json:"roomId"`
	Code     string `json:"code"`
	Language string `json:"language"`
	Input    string `json:"input,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventCodeUpdate mirrors a room's buffer to clients.
type EventCodeUpdate struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// RoomUser is one entry of the presence list, in historical join order.
type RoomUser struct {
	ID     string `json:"id"`
	Online bool   `json:"online"`
}

// EventExecutionResult reports one finished execution to the room.
type EventExecutionResult struct {
	Output   string `json:"output"`
	Error    string `json:"error"`
	Status   string `json:"status"`
	TimedOut bool   `json:"timedOut"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
