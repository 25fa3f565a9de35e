// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveFrame(t *testing.T, frames <-chan []byte) Frame {
	t.Helper()
	select {
	case raw, ok := <-frames:
		require.True(t, ok, "frame channel closed unexpectedly")
		var frame Frame
		require.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return Frame{}
	}
}

func TestHub_BroadcastReachesRoomMembers(t *testing.T) {
	hub := NewHub()

	subA, framesA := hub.Join("video-1")
	_, framesB := hub.Join("video-1")
	_, framesOther := hub.Join("video-2")

	hub.Broadcast("video-1", EventReceiveComment, map[string]string{"content": "hi"})

	frameA := receiveFrame(t, framesA)
	assert.Equal(t, EventReceiveComment, frameA.Event)

	frameB := receiveFrame(t, framesB)
	assert.Equal(t, EventReceiveComment, frameB.Event)

	select {
	case <-framesOther:
		t.Fatal("frame leaked into another room")
	default:
	}

	hub.Leave(subA)
	assert.Equal(t, 1, hub.RoomSize("video-1"))
}

func TestHub_LeaveClosesQueue(t *testing.T) {
	hub := NewHub()
	sub, frames := hub.Join("video-1")

	hub.Leave(sub)
	hub.Leave(sub) // second leave is harmless

	_, ok := <-frames
	assert.False(t, ok)
	assert.Equal(t, 0, hub.RoomSize("video-1"))
}

func TestHub_SlowSubscriberDropped(t *testing.T) {
	hub := NewHub()
	_, frames := hub.Join("video-1")

	// Never drain: the queue fills and the next broadcast evicts the client.
	for i := 0; i < sendQueueSize+1; i++ {
		hub.Broadcast("video-1", EventUpdateCommentStats, i)
	}

	assert.Equal(t, 0, hub.RoomSize("video-1"))

	// Queue was closed on eviction; draining terminates.
	count := 0
	for range frames {
		count++
	}
	assert.Equal(t, sendQueueSize, count)
}

func TestHub_BroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()
	// Must not panic or create the room
	hub.Broadcast("nobody-here", EventReceiveComment, "x")
	assert.Equal(t, 0, hub.RoomSize("nobody-here"))
}
