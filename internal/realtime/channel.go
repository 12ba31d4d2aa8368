// Package realtime owns the single persistent connection to the room
// backend. It relays named events in both directions with at-most-once
// delivery: a full send buffer drops the frame rather than blocking the
// caller, and incoming frames the consumer cannot keep up with are dropped
// with a warning.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/event"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Code buffers are much larger
	// than chat lines, so this is generous.
	maxMessageSize = 512 * 1024

	sendBuffer  = 256
	eventBuffer = 256

	dialAttempts = 3
	dialBackoff  = time.Second
)

// Channel is a bidirectional event stream over one websocket connection.
type Channel struct {
	conn   *websocket.Conn
	send   chan []byte
	events chan event.Envelope
	log    *logrus.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the backend at url, retrying with linear backoff, and
// starts the read/write pumps.
func Dial(url string, log *logrus.Logger) (*Channel, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var conn *websocket.Conn
	var err error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			break
		}
		log.WithError(err).Warnf("realtime: dial attempt %d/%d failed", attempt, dialAttempts)
		if attempt < dialAttempts {
			time.Sleep(dialBackoff * time.Duration(attempt))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Channel{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		events: make(chan event.Envelope, eventBuffer),
		log:    log,
		done:   make(chan struct{}),
	}
	go c.writePump()
	go c.readPump()
	log.WithField("url", url).Info("realtime: channel connected")
	return c, nil
}

// Emit queues an outgoing event. It never blocks; when the send buffer is
// full the frame is dropped and an error returned.
func (c *Channel) Emit(name string, payload any) error {
	env, err := event.NewEnvelope(name, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	frame, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	select {
	case <-c.done:
		return fmt.Errorf("emit %s: channel closed", name)
	default:
	}
	select {
	case c.send <- frame:
		return nil
	default:
		c.log.WithField("event", name).Warn("realtime: send buffer full, dropping frame")
		return fmt.Errorf("emit %s: send buffer full", name)
	}
}

// Events returns the stream of incoming notifications. The channel is
// closed when the connection is lost or Close is called.
func (c *Channel) Events() <-chan event.Envelope {
	return c.events
}

// Close sends a best-effort close frame and tears the connection down.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	})
}

// readPump pumps frames from the connection onto the events channel.
func (c *Channel) readPump() {
	defer func() {
		c.Close()
		close(c.events)
		c.log.Debug("realtime: read pump exited")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("realtime: read error (unexpected close)")
			} else {
				c.log.Debug("realtime: connection closed")
			}
			return
		}

		var env event.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			c.log.WithError(err).Warn("realtime: dropping malformed frame")
			continue
		}
		if env.Event == "" {
			c.log.Warn("realtime: dropping frame without event name")
			continue
		}

		select {
		case c.events <- env:
		default:
			c.log.WithField("event", env.Event).Warn("realtime: event buffer full, dropping notification")
		}
	}
}

// writePump pumps queued frames to the connection and keeps it alive with
// periodic pings.
func (c *Channel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Debug("realtime: write pump exited")
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.WithError(err).Warn("realtime: failed to write frame")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Warn("realtime: failed to send ping")
				return
			}
		}
	}
}
