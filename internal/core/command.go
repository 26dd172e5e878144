package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room.
	CommandJoinRoom CommandKind = iota
	// CommandCodeChange overwrites the room's shared buffer.
	CommandCodeChange
	// CommandExecute runs the submitted code and reports back to the room.
	CommandExecute
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Room     string
	Code     string
	Language string
	Stdin    string
}
