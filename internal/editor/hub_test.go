package editor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == want }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastSkipsSender(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	sender := NewSession(hub, nil, &fakeStore{})
	other := NewSession(hub, nil, &fakeStore{})
	hub.Register(sender)
	hub.Register(other)
	waitForCount(t, hub, 2)

	hub.Broadcast(ServerMessage{Type: MsgDataChanged}, sender.ID)

	select {
	case data := <-other.Send:
		var msg ServerMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, MsgDataChanged, msg.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast not delivered")
	}

	select {
	case <-sender.Send:
		t.Fatal("sender should not receive its own broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	s := NewSession(hub, nil, &fakeStore{})
	hub.Register(s)
	waitForCount(t, hub, 1)

	hub.Unregister(s)
	waitForCount(t, hub, 0)

	_, ok := <-s.Send
	assert.False(t, ok)
}
