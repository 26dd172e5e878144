package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coderoom/coderoom-server/internal/executor"
)

// clientCommand pairs a command with the client that issued it. A nil cmd is
// the terminal marker the pump emits once the client's command stream ends.
type clientCommand struct {
	client *Client
	cmd    *Command
}

// execDone re-enters the hub loop when a dispatched execution finishes.
type execDone struct {
	room   string
	result executor.Result
}

// snapshotQuery asks the hub loop for a read-only view of one room.
type snapshotQuery struct {
	room  string
	reply chan *RoomSnapshot
}

// RoomSnapshot is a point-in-time copy of a room's state.
type RoomSnapshot struct {
	Name     string
	Code     string
	Language string
	Users    []Participant
}

// Hub owns every room and serializes all state mutations on a single
// goroutine. Clients talk to it through their Commands channel; execution
// completions come back through the results channel, so results reach the
// room in process-completion order, not submission order.
type Hub struct {
	register  chan *Client
	inbox     chan clientCommand
	results   chan execDone
	snapshots chan snapshotQuery
	done      chan struct{}

	rooms map[string]*Room
	exec  Executor
	log   *zerolog.Logger
}

// NewHub creates a hub. The executor may be nil, in which case execute
// commands are rejected with an error event.
func NewHub(exec Executor, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		register:  make(chan *Client),
		inbox:     make(chan clientCommand),
		results:   make(chan execDone, 8),
		snapshots: make(chan snapshotQuery),
		done:      make(chan struct{}),
		rooms:     make(map[string]*Room),
		exec:      exec,
		log:       logger,
	}
}

// RegisterClient announces a new connection and starts pumping its commands
// into the hub loop.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
	go h.pump(c)
}

// UnregisterClient ends the connection's command stream. Commands sent before
// the disconnect are still processed first, then the client is flipped
// offline in every room it joined.
func (h *Hub) UnregisterClient(c *Client) {
	close(c.Commands)
}

// Snapshot returns a copy of one room's state, or false if it does not exist
// or the hub has stopped. Must not be called before Run is started.
func (h *Hub) Snapshot(room string) (*RoomSnapshot, bool) {
	q := snapshotQuery{room: room, reply: make(chan *RoomSnapshot, 1)}
	select {
	case h.snapshots <- q:
	case <-h.done:
		return nil, false
	}
	select {
	case snap := <-q.reply:
		return snap, snap != nil
	case <-h.done:
		return nil, false
	}
}

func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		h.deliver(clientCommand{client: c, cmd: cmd})
	}
	// Commands is closed: the connection is gone. Routing the disconnect
	// through the inbox keeps it ordered after every command the client
	// managed to send, so a buffered join can never resurrect a dead client.
	h.deliver(clientCommand{client: c})
}

// deliver hands one item to the hub loop, giving up once the hub stopped.
func (h *Hub) deliver(in clientCommand) {
	select {
	case h.inbox <- in:
	case <-h.done:
	}
}

// Run processes events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.log.Debug().Str("client_id", c.ID).Msg("client registered")
		case in := <-h.inbox:
			if in.cmd == nil {
				h.handleDisconnect(in.client)
			} else {
				h.handleCommand(ctx, in.client, in.cmd)
			}
		case done := <-h.results:
			h.handleResult(done)
		case q := <-h.snapshots:
			h.handleSnapshot(q)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleCommand(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandCodeChange:
		h.handleCodeChange(c, cmd)
	case CommandExecute:
		h.handleExecute(ctx, c, cmd)
	default:
		h.sendError(c, coreError(ErrCodeBadRequest, "unknown command"))
	}
}

func (h *Hub) handleJoin(c *Client, name string) {
	if name == "" {
		h.sendError(c, coreError(ErrCodeBadRequest, "room is required"))
		return
	}
	room, ok := h.rooms[name]
	if !ok {
		room = NewRoom(name)
		h.rooms[name] = room
		h.log.Info().Str("room", name).Msg("room created")
	}
	room.AddClient(c)

	// The joiner alone receives the current buffer; presence goes to everyone.
	h.send(c, &Event{Kind: EventCodeUpdate, Room: name, Code: room.Code, Language: room.Language})
	room.Broadcast(&Event{Kind: EventRoomUsers, Room: name, Users: room.Participants()})
}

func (h *Hub) handleCodeChange(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.sendError(c, coreError(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if !room.Has(c) {
		h.sendError(c, coreError(ErrCodeNotInRoom, "join the room first"))
		return
	}

	// Last write wins; the sender already holds the value locally.
	room.Code = cmd.Code
	room.Language = cmd.Language
	room.BroadcastExcept(c, &Event{
		Kind:     EventCodeUpdate,
		Room:     cmd.Room,
		Code:     cmd.Code,
		Language: cmd.Language,
	})
}

func (h *Hub) handleExecute(ctx context.Context, c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.sendError(c, coreError(ErrCodeRoomNotFound, "room not found"))
		return
	}
	if !room.Has(c) {
		h.sendError(c, coreError(ErrCodeNotInRoom, "join the room first"))
		return
	}
	if h.exec == nil {
		h.sendError(c, coreError(ErrCodeBadRequest, "execution is disabled"))
		return
	}

	req := executor.Request{
		RoomID:   cmd.Room,
		Language: cmd.Language,
		Code:     cmd.Code,
		Stdin:    cmd.Stdin,
	}
	h.log.Info().Str("room", cmd.Room).Str("language", cmd.Language).Msg("execution requested")

	// Run off-loop so the room can keep editing while code executes. The
	// dispatcher always returns exactly one result.
	go func() {
		res := h.exec.Execute(ctx, req)
		select {
		case h.results <- execDone{room: cmd.Room, result: res}:
		case <-h.done:
		}
	}()
}

func (h *Hub) handleResult(done execDone) {
	room, ok := h.rooms[done.room]
	if !ok {
		return
	}
	res := done.result
	room.Broadcast(&Event{Kind: EventExecutionResult, Room: done.room, Result: &res})
}

func (h *Hub) handleDisconnect(c *Client) {
	for name, room := range h.rooms {
		if room.DropClient(c) {
			room.Broadcast(&Event{Kind: EventRoomUsers, Room: name, Users: room.Participants()})
		}
	}
}

func (h *Hub) handleSnapshot(q snapshotQuery) {
	room, ok := h.rooms[q.room]
	if !ok {
		q.reply <- nil
		return
	}
	q.reply <- &RoomSnapshot{
		Name:     room.Name,
		Code:     room.Code,
		Language: room.Language,
		Users:    room.Participants(),
	}
}

func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}

func (h *Hub) sendError(c *Client, cerr *CoreError) {
	h.send(c, &Event{Kind: EventError, Error: cerr})
}
