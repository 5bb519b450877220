package net

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"DraftBoard/internal/board"
)

// Watch connects to a sharing host at addr (host:port) and calls onScene for
// every scene it receives. A clear arrives as the last scene with no shapes. It returns when ctx is cancelled or the connection
// drops.
func Watch(ctx context.Context, addr string, onScene func(board.Scene)) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: WSPath}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	// a clear keeps the grid of the last scene
	var last board.Scene
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read from %s: %w", addr, err)
		}
		switch msg.Type {
		case MsgScene:
			if msg.Scene != nil {
				last = *msg.Scene
				onScene(last)
			}
		case MsgClear:
			last.Shapes = nil
			onScene(last)
		}
	}
}
