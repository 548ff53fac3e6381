// Package relay implements the room-based broadcast relay behind the
// collaborative editor. It is deliberately minimal: a set-membership
// broadcaster, not a protocol. Rooms are keyed by note id, events are
// forwarded to every other member of the sender's room, and nothing is
// retained beyond current membership. There is no merge logic, no
// acknowledgement, and no delivery guarantee beyond best-effort
// at-most-once.
package relay

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

type messageKind int

const (
	msgRegister messageKind = iota
	msgUnregister
	msgInbound
)

type message struct {
	kind   messageKind
	client *Client
	raw    []byte // inbound frame, msgInbound only
}

// Relay owns the connection registry. All membership state is mutated from a
// single dispatch goroutine (Run), so inbound events are handled to
// completion in arrival order and per-sender forwarding order is preserved.
// No ordering holds across different senders.
type Relay struct {
	messages chan message
	quit     chan struct{}

	// rooms maps a note id to the set of member connections. A room exists
	// exactly while it has members. members maps each registered connection
	// to its current room ("" when in none); a connection is in at most one
	// room at a time.
	rooms   map[string]map[*Client]struct{}
	members map[*Client]string

	log *logrus.Entry
}

// New creates a relay. Call Run on its own goroutine to start dispatching.
func New() *Relay {
	return &Relay{
		messages: make(chan message, 512),
		quit:     make(chan struct{}),
		rooms:    make(map[string]map[*Client]struct{}),
		members:  make(map[*Client]string),
		log:      logrus.WithField("component", "relay"),
	}
}

// Run is the dispatch loop. It exits after Stop.
func (r *Relay) Run() {
	r.log.Info("relay running")
	for {
		select {
		case msg := <-r.messages:
			switch msg.kind {
			case msgRegister:
				r.register(msg.client)
			case msgUnregister:
				r.unregister(msg.client)
			case msgInbound:
				r.dispatch(msg.client, msg.raw)
			}
		case <-r.quit:
			r.log.Info("relay shutting down")
			return
		}
	}
}

// Stop terminates the dispatch loop. Pending queued messages are discarded.
func (r *Relay) Stop() {
	close(r.quit)
}

// Register queues a new connection. Non-blocking; returns false when the
// relay queue is full and the connection should be closed by the caller.
func (r *Relay) Register(c *Client) bool {
	return r.queue(message{kind: msgRegister, client: c})
}

// Unregister queues removal of a connection, typically on disconnect. The
// implicit leave and its user:left broadcast fire at most once per
// connection no matter how often this is called.
func (r *Relay) Unregister(c *Client) bool {
	return r.queue(message{kind: msgUnregister, client: c})
}

// Deliver queues a raw inbound frame from the connection.
func (r *Relay) Deliver(c *Client, raw []byte) bool {
	return r.queue(message{kind: msgInbound, client: c, raw: raw})
}

func (r *Relay) queue(msg message) bool {
	select {
	case r.messages <- msg:
		return true
	default:
		r.log.Warn("relay message queue full, dropping message")
		return false
	}
}

// --- dispatch-goroutine-only methods below ---

func (r *Relay) register(c *Client) {
	if _, ok := r.members[c]; ok {
		return
	}
	r.members[c] = ""
	r.log.WithField("conn_id", c.id).Info("connection registered")
}

func (r *Relay) unregister(c *Client) {
	if _, ok := r.members[c]; !ok {
		return
	}
	r.leave(c, r.members[c])
	delete(r.members, c)
	close(c.send)
	r.log.WithField("conn_id", c.id).Info("connection unregistered")
}

// dispatch routes one inbound frame. Envelopes that do not decode cannot be
// routed and are dropped; nothing is ever surfaced back to the sender.
func (r *Relay) dispatch(c *Client, raw []byte) {
	if _, ok := r.members[c]; !ok {
		// Frame raced with an unregister; the connection is gone.
		return
	}
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		r.log.WithField("conn_id", c.id).WithError(err).Debug("undecodable frame dropped")
		return
	}

	switch ev.Name {
	case EventJoinNote:
		r.join(c, ev.noteID())
	case EventLeaveNote:
		r.leave(c, ev.noteID())
	default:
		r.forward(c, ev)
	}
}

// join puts the connection into the room for noteID. A connection holds at
// most one room: joining while a member elsewhere leaves that room first,
// with its user:left broadcast, so stale fan-out cannot occur.
func (r *Relay) join(c *Client, noteID string) {
	if noteID == "" || r.members[c] == noteID {
		return
	}
	if prev := r.members[c]; prev != "" {
		r.leave(c, prev)
	}

	room, ok := r.rooms[noteID]
	if !ok {
		room = make(map[*Client]struct{})
		r.rooms[noteID] = room
	}
	room[c] = struct{}{}
	r.members[c] = noteID

	r.broadcast(noteID, c, Event{Name: EventUserJoined, Data: idPayload(c.id)})
	r.log.WithFields(logrus.Fields{"conn_id": c.id, "note_id": noteID}).Info("joined room")
}

// leave removes the connection from the room if it is a member there. Leaving
// a room the connection never joined is a no-op producing no broadcast. An
// empty room disappears with its last member.
func (r *Relay) leave(c *Client, noteID string) {
	if noteID == "" || r.members[c] != noteID {
		return
	}
	room := r.rooms[noteID]
	delete(room, c)
	if len(room) == 0 {
		delete(r.rooms, noteID)
	}
	r.members[c] = ""

	r.broadcast(noteID, c, Event{Name: EventUserLeft, Data: idPayload(c.id)})
	r.log.WithFields(logrus.Fields{"conn_id": c.id, "note_id": noteID}).Info("left room")
}

// forward rebroadcasts an event to the other members of its room. The room is
// taken from the payload's noteId when present, otherwise from the sender's
// current room. Payloads pass through unparsed except for the two documented
// rewrites: typing signals carry the sender's connection id outward, and
// note:update goes out renamed note:updated.
func (r *Relay) forward(c *Client, ev Event) {
	noteID := ev.noteID()
	if noteID == "" {
		noteID = r.members[c]
	}
	if noteID == "" {
		return
	}

	out := Event{Name: ev.Name, Data: ev.Data}
	switch ev.Name {
	case EventUserTyping, EventUserStoppedTyping:
		out.Data = idPayload(c.id)
	case EventNoteUpdate:
		out.Name = EventNoteUpdated
	}
	r.broadcast(noteID, c, out)
}

// broadcast fans an event out to every room member except the sender.
// Receivers whose buffers are full are skipped: fire-and-forget, no retry,
// no error back to anyone.
func (r *Relay) broadcast(noteID string, sender *Client, ev Event) {
	room, ok := r.rooms[noteID]
	if !ok || len(room) == 0 {
		return
	}
	payload := mustMarshal(ev)
	for member := range room {
		if member == sender {
			continue
		}
		if !member.enqueue(payload) {
			r.log.WithFields(logrus.Fields{
				"note_id": noteID,
				"conn_id": member.id,
				"event":   ev.Name,
			}).Warn("receiver buffer full, message dropped")
		}
	}
}

func idPayload(id string) json.RawMessage {
	b, _ := json.Marshal(id)
	return b
}
