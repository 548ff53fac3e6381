package relay

import "encoding/json"

// Client-to-server event names. Everything not listed here is still forwarded
// verbatim; the relay interprets names only as far as routing requires.
const (
	EventJoinNote          = "join-note"
	EventLeaveNote         = "leave-note"
	EventContentChange     = "note:content-change"
	EventTitleChange       = "note:title-change"
	EventCategoryChange    = "note:category-change"
	EventNoteUpdate        = "note:update"
	EventUserTyping        = "user:typing"
	EventUserStoppedTyping = "user:stopped-typing"
)

// Server-to-client event names.
const (
	EventNoteUpdated = "note:updated"
	EventUserJoined  = "user:joined"
	EventUserLeft    = "user:left"
)

// Event is the wire envelope exchanged with clients. Data is kept raw: the
// relay never validates payloads, it forwards them as received.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// noteID extracts the note id from the event data. Clients send either a bare
// string ("abc") or an object carrying a noteId field; anything else yields
// an empty id and the relay falls back to the sender's current room.
func (e Event) noteID() string {
	if len(e.Data) == 0 {
		return ""
	}
	var plain string
	if err := json.Unmarshal(e.Data, &plain); err == nil {
		return plain
	}
	var tagged struct {
		NoteID string `json:"noteId"`
	}
	if err := json.Unmarshal(e.Data, &tagged); err == nil {
		return tagged.NoteID
	}
	return ""
}

func mustMarshal(e Event) []byte {
	b, err := json.Marshal(e)
	if err != nil {
		// Event holds only a string and pre-validated raw JSON; this cannot
		// fail for events the relay constructs itself.
		panic(err)
	}
	return b
}
