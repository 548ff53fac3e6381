package relay

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Receivers get a generous window; silence checks keep a short one so the
// suite stays fast.
const (
	recvTimeout    = 2 * time.Second
	silenceTimeout = 150 * time.Millisecond
)

func startRelay(t *testing.T) *Relay {
	t.Helper()
	r := New()
	go r.Run()
	t.Cleanup(r.Stop)
	return r
}

// connect registers a pumpless client. Tests read broadcasts straight off the
// send channel instead of a websocket.
func connect(t *testing.T, r *Relay) *Client {
	t.Helper()
	c := NewClient(r, nil)
	require.True(t, r.Register(c), "relay queue should accept register")
	return c
}

func deliver(t *testing.T, r *Relay, c *Client, name string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(Event{Name: name, Data: marshalData(t, data)})
	require.NoError(t, err)
	require.True(t, r.Deliver(c, raw), "relay queue should accept frame")
}

func marshalData(t *testing.T, data interface{}) json.RawMessage {
	t.Helper()
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	require.NoError(t, err)
	return b
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send channel closed while awaiting event")
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(recvTimeout):
		t.Fatalf("timed out waiting for event on connection %s", c.ID())
		return Event{}
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("connection %s unexpectedly received: %s", c.ID(), raw)
	case <-time.After(silenceTimeout):
	}
}

// joinAndDrain joins every client to the room in order and drains the
// user:joined broadcasts earlier members receive, so tests start quiet.
func joinAndDrain(t *testing.T, r *Relay, noteID string, clients ...*Client) {
	t.Helper()
	for i, c := range clients {
		deliver(t, r, c, EventJoinNote, noteID)
		for j := 0; j < i; j++ {
			ev := recvEvent(t, clients[j])
			require.Equal(t, EventUserJoined, ev.Name)
		}
	}
}

func dataString(t *testing.T, ev Event) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(ev.Data, &s))
	return s
}

func TestJoinNotifiesOtherMembersOnly(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)

	deliver(t, r, a, EventJoinNote, "note-1")
	expectSilence(t, a) // no acknowledgement to the joiner

	deliver(t, r, b, EventJoinNote, "note-1")
	ev := recvEvent(t, a)
	assert.Equal(t, EventUserJoined, ev.Name)
	assert.Equal(t, b.ID(), dataString(t, ev))
	expectSilence(t, b)
}

func TestContentChangeReachesPeerNotSender(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)

	deliver(t, r, a, EventContentChange, map[string]string{"noteId": "note-1", "content": "Hello"})

	ev := recvEvent(t, b)
	assert.Equal(t, EventContentChange, ev.Name)
	var payload struct {
		NoteID  string `json:"noteId"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(ev.Data, &payload))
	assert.Equal(t, "Hello", payload.Content)

	expectSilence(t, b) // exactly one
	expectSilence(t, a) // never echoed back
}

func TestEventsDoNotLeakOutsideRoom(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	outsider := connect(t, r)
	bystander := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)
	joinAndDrain(t, r, "note-2", outsider)

	deliver(t, r, a, EventTitleChange, map[string]string{"noteId": "note-1", "title": "draft"})

	recvEvent(t, b)
	expectSilence(t, outsider)  // member of another room
	expectSilence(t, bystander) // member of no room
}

func TestDisconnectBroadcastsUserLeftExactlyOnce(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	c := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b, c)

	// The read pump unregisters on exit; a racing second unregister must not
	// produce a second broadcast.
	require.True(t, r.Unregister(a))
	require.True(t, r.Unregister(a))

	for _, peer := range []*Client{b, c} {
		ev := recvEvent(t, peer)
		assert.Equal(t, EventUserLeft, ev.Name)
		assert.Equal(t, a.ID(), dataString(t, ev))
		expectSilence(t, peer)
	}
}

func TestLeaveWithoutMembershipIsNoop(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	joinAndDrain(t, r, "note-1", a)

	// b was never in note-1.
	deliver(t, r, b, EventLeaveNote, "note-1")
	expectSilence(t, a)

	// a is a member of note-1, not note-9; nothing happens either way.
	deliver(t, r, a, EventLeaveNote, "note-9")
	expectSilence(t, a)

	// a must still be attached to note-1.
	deliver(t, r, b, EventJoinNote, "note-1")
	assert.Equal(t, EventUserJoined, recvEvent(t, a).Name)
	deliver(t, r, b, EventContentChange, map[string]string{"noteId": "note-1", "content": "still here"})
	assert.Equal(t, EventContentChange, recvEvent(t, a).Name)
}

func TestJoiningSecondRoomDetachesFromFirst(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	c := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)
	joinAndDrain(t, r, "note-2", c)

	// a moves to note-2 without an explicit leave; the relay leaves note-1 on
	// its behalf.
	deliver(t, r, a, EventJoinNote, "note-2")
	left := recvEvent(t, b)
	assert.Equal(t, EventUserLeft, left.Name)
	assert.Equal(t, a.ID(), dataString(t, left))
	joined := recvEvent(t, c)
	assert.Equal(t, EventUserJoined, joined.Name)

	// Traffic in note-2 must not reach note-1's remaining member.
	deliver(t, r, c, EventContentChange, map[string]string{"noteId": "note-2", "content": "x"})
	assert.Equal(t, EventContentChange, recvEvent(t, a).Name)
	expectSilence(t, b)

	// And a's own sends now land in note-2 only.
	deliver(t, r, a, EventContentChange, map[string]string{"noteId": "note-2", "content": "y"})
	assert.Equal(t, EventContentChange, recvEvent(t, c).Name)
	expectSilence(t, b)
}

func TestTypingSignalsCarrySenderID(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)

	deliver(t, r, a, EventUserTyping, map[string]string{"noteId": "note-1"})
	ev := recvEvent(t, b)
	assert.Equal(t, EventUserTyping, ev.Name)
	assert.Equal(t, a.ID(), dataString(t, ev))
	expectSilence(t, a)

	time.Sleep(50 * time.Millisecond)

	deliver(t, r, a, EventUserStoppedTyping, map[string]string{"noteId": "note-1"})
	ev = recvEvent(t, b)
	assert.Equal(t, EventUserStoppedTyping, ev.Name)
	assert.Equal(t, a.ID(), dataString(t, ev))
}

func TestNoteUpdateRebroadcastAsNoteUpdated(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)

	snapshot := map[string]interface{}{
		"noteId": "note-1",
		"note":   map[string]interface{}{"id": "note-1", "title": "T", "content": "C"},
	}
	deliver(t, r, a, EventNoteUpdate, snapshot)

	ev := recvEvent(t, b)
	assert.Equal(t, EventNoteUpdated, ev.Name)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(ev.Data, &got))
	assert.Equal(t, "note-1", got["noteId"])
	assert.Equal(t, "T", got["note"].(map[string]interface{})["title"])
}

func TestPayloadsForwardedUnparsed(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)

	// Shape does not match the kind; the relay forwards it untouched.
	odd := map[string]interface{}{"noteId": "note-1", "bogus": 42}
	deliver(t, r, a, EventCategoryChange, odd)
	ev := recvEvent(t, b)
	assert.Equal(t, EventCategoryChange, ev.Name)
	assert.JSONEq(t, `{"noteId":"note-1","bogus":42}`, string(ev.Data))

	// Unknown kinds ride through too, resolved to the sender's current room
	// when the payload names no note.
	deliver(t, r, a, "cursor:move", map[string]int{"line": 3})
	ev = recvEvent(t, b)
	assert.Equal(t, "cursor:move", ev.Name)
	assert.JSONEq(t, `{"line":3}`, string(ev.Data))
}

func TestPerSenderOrderPreserved(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)

	const n = 50
	for i := 0; i < n; i++ {
		deliver(t, r, a, EventContentChange, map[string]string{
			"noteId":  "note-1",
			"content": fmt.Sprintf("rev-%d", i),
		})
	}
	for i := 0; i < n; i++ {
		ev := recvEvent(t, b)
		var payload struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.Unmarshal(ev.Data, &payload))
		assert.Equal(t, fmt.Sprintf("rev-%d", i), payload.Content)
	}
}

func TestUndecodableFrameDropped(t *testing.T) {
	r := startRelay(t)
	a := connect(t, r)
	b := connect(t, r)
	joinAndDrain(t, r, "note-1", a, b)

	require.True(t, r.Deliver(a, []byte("not json")))
	expectSilence(t, b)

	// Relay is still healthy afterwards.
	deliver(t, r, a, EventContentChange, map[string]string{"noteId": "note-1", "content": "ok"})
	assert.Equal(t, EventContentChange, recvEvent(t, b).Name)
}
