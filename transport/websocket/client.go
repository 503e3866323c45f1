package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 16
)

// client is one authenticated connection. Writes go through send so only writePump touches conn.
type client struct {
	logger   *slog.Logger
	username string
	conn     *websocket.Conn

	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newClient(logger *slog.Logger, username string, conn *websocket.Conn) *client {
	return &client{
		logger:   logger.With("username", username),
		username: username,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		closed:   make(chan struct{}),
	}
}

// push queues a message. A client that stops reading loses messages instead of blocking the sender.
func (that *client) push(action string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "action", action, "error", err)
		return
	}

	frame, err := json.Marshal(Message{Action: action, Payload: body})
	if err != nil {
		that.logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	select {
	case that.send <- frame:
	case <-that.closed:
	default:
		that.logger.Warn("dropping message for slow consumer", "action", action)
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.closed)
		_ = that.conn.Close()
	})
}

// readPump blocks until the connection fails, passing each decoded message to dispatch.
// onPong is called whenever the peer proves it is alive.
func (that *client) readPump(ctx context.Context, dispatch func(context.Context, *Message), onPong func()) error {
	defer that.close()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		onPong()

		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("failed to read message: %w", err)
			}

			return nil
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			that.push(pushError, errorPayload{Kind: apperror.KindInvalidState, Message: "malformed message"})
			continue
		}

		dispatch(ctx, &message)
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		that.close()
	}()

	for {
		select {
		case frame := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-that.closed:
			_ = that.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		}
	}
}
