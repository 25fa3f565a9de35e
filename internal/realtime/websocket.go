// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package realtime

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/vidora/vidora/internal/pkg/log"
)

// clientMessage is what connected clients may send. The only understood
// message is joining a video room; everything else is ignored.
type clientMessage struct {
	Event   string `json:"event"`
	VideoID string `json:"videoId"`
}

const eventJoinVideo = "join_video"

// RegisterRoutes mounts the websocket endpoint on /ws. Clients connect, send
// a join_video message, and from then on receive receive_comment and
// update_comment_stats frames for that video.
func RegisterRoutes(app *fiber.App, hub *Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		serveConn(hub, conn)
	}))
}

func serveConn(hub *Hub, conn *websocket.Conn) {
	defer conn.Close()

	// The first join_video message picks the room. Re-joining a different
	// room means leaving the old one.
	var (
		sub  *Subscriber
		done chan struct{}
	)
	leave := func() {
		if sub != nil {
			hub.Leave(sub)
			<-done
			sub = nil
		}
	}
	defer leave()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn("realtime: ignoring malformed client message: %v", err)
			continue
		}
		if msg.Event != eventJoinVideo || msg.VideoID == "" {
			continue
		}

		leave()

		var frames <-chan []byte
		sub, frames = hub.Join(msg.VideoID)
		done = make(chan struct{})

		go func(frames <-chan []byte, done chan struct{}) {
			defer close(done)
			for frame := range frames {
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			}
		}(frames, done)
	}
}
