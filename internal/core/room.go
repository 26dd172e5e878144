package core

// DefaultLanguage is assigned to freshly created rooms.
const DefaultLanguage = "javascript"

// Participant is one connection's membership record in a room. Records are
// retained after disconnect so the room can tell "left" from "never joined".
type Participant struct {
	ID     string
	Online bool
}

// Room groups clients editing the same shared buffer.
type Room struct {
	Name     string
	Code     string
	Language string

	clients      map[*Client]struct{}
	participants []*Participant
	byID         map[string]*Participant
}

// NewRoom constructs an empty room with the default language selected.
func NewRoom(name string) *Room {
	return &Room{
		Name:     name,
		Language: DefaultLanguage,
		clients:  make(map[*Client]struct{}),
		byID:     make(map[string]*Participant),
	}
}

// AddClient inserts a client and marks its participant record online. A
// rejoining connection keeps its original position in the presence list.
func (r *Room) AddClient(c *Client) {
	r.clients[c] = struct{}{}
	if p, ok := r.byID[c.ID]; ok {
		p.Online = true
		return
	}
	p := &Participant{ID: c.ID, Online: true}
	r.participants = append(r.participants, p)
	r.byID[c.ID] = p
}

// DropClient removes the live connection but keeps the participant record,
// flipping it offline. Returns true if presence actually changed.
func (r *Room) DropClient(c *Client) bool {
	delete(r.clients, c)
	p, ok := r.byID[c.ID]
	if !ok || !p.Online {
		return false
	}
	p.Online = false
	return true
}

// Has reports whether the client is currently connected to the room.
func (r *Room) Has(c *Client) bool {
	_, ok := r.clients[c]
	return ok
}

// Participants returns presence records in historical join order.
func (r *Room) Participants() []Participant {
	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	return out
}

// Broadcast sends an event to all clients in the room.
func (r *Room) Broadcast(event *Event) {
	for client := range r.clients {
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// BroadcastExcept sends an event to every client but the sender.
func (r *Room) BroadcastExcept(sender *Client, event *Event) {
	for client := range r.clients {
		if client == sender {
			continue
		}
		select {
		case client.Events <- event:
		default:
		}
	}
}
