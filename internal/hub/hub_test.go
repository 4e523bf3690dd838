package hub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeConn records delivered events; sendOK false simulates a subscriber
// that cannot keep up.
type fakeConn struct {
	userID   string
	sendOK   bool
	received []Event
	closed   bool
}

func newFakeConn(userID string) *fakeConn {
	return &fakeConn{userID: userID, sendOK: true}
}

func (c *fakeConn) UserID() string { return c.userID }

func (c *fakeConn) Send(ev Event) bool {
	if !c.sendOK {
		return false
	}
	c.received = append(c.received, ev)
	return true
}

func (c *fakeConn) Close() { c.closed = true }

func TestHub_Broadcast(t *testing.T) {
	h := NewHub()
	conn1 := newFakeConn("user1")
	conn2 := newFakeConn("user2")
	other := newFakeConn("user3")

	h.AddClient("auction1", conn1)
	h.AddClient("auction1", conn2)
	h.AddClient("auction2", other)

	h.Broadcast("auction1", Event{Type: EventBidUpdated})

	require.Len(t, conn1.received, 1)
	require.Len(t, conn2.received, 1)
	// Other rooms are untouched.
	require.Empty(t, other.received)

	// Broadcasting to an unknown room is a no-op.
	h.Broadcast("missing", Event{Type: EventBidUpdated})
}

func TestHub_SendToUser(t *testing.T) {
	h := NewHub()
	target := newFakeConn("user1")
	targetSecondTab := newFakeConn("user1")
	bystander := newFakeConn("user2")

	h.AddClient("auction1", target)
	h.AddClient("auction1", targetSecondTab)
	h.AddClient("auction1", bystander)

	h.SendToUser("auction1", "user1", Event{Type: EventBidFailed})

	// Every connection of the user gets it; nobody else does.
	require.Len(t, target.received, 1)
	require.Len(t, targetSecondTab.received, 1)
	require.Empty(t, bystander.received)
}

func TestHub_EvictsSlowSubscriber(t *testing.T) {
	h := NewHub()
	healthy := newFakeConn("user1")
	slow := newFakeConn("user2")
	slow.sendOK = false

	h.AddClient("auction1", healthy)
	h.AddClient("auction1", slow)
	require.Equal(t, 2, h.ViewerCount("auction1"))

	h.Broadcast("auction1", Event{Type: EventBidUpdated})

	require.True(t, slow.closed)
	require.Equal(t, 1, h.ViewerCount("auction1"))
	require.Len(t, healthy.received, 1)

	// The evicted connection gets nothing further.
	h.Broadcast("auction1", Event{Type: EventBidUpdated})
	require.Len(t, healthy.received, 2)
	require.Empty(t, slow.received)
}

func TestHub_RemoveClient(t *testing.T) {
	h := NewHub()
	conn := newFakeConn("user1")

	h.AddClient("auction1", conn)
	require.Equal(t, 1, h.ViewerCount("auction1"))

	h.RemoveClient("auction1", conn)
	require.Equal(t, 0, h.ViewerCount("auction1"))

	h.Broadcast("auction1", Event{Type: EventBidUpdated})
	require.Empty(t, conn.received)

	// Removing twice or from an unknown room is harmless.
	h.RemoveClient("auction1", conn)
	h.RemoveClient("missing", conn)
}

func TestHub_ViewerCount(t *testing.T) {
	h := NewHub()
	require.Equal(t, 0, h.ViewerCount("auction1"))

	conns := []*fakeConn{newFakeConn("user1"), newFakeConn("user2"), newFakeConn("user3")}
	for _, c := range conns {
		h.AddClient("auction1", c)
	}
	require.Equal(t, 3, h.ViewerCount("auction1"))

	h.RemoveClient("auction1", conns[0])
	require.Equal(t, 2, h.ViewerCount("auction1"))
}
