package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/arushsrivastava/HectoClash-Game/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Client wraps one websocket connection. Writes go through a buffered
// channel drained by a single pump goroutine, so Send never blocks
// the game engine; a client that cannot keep up is dropped.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan game.Event
	done chan struct{}
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan game.Event, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Send queues an event for the write pump. Non-blocking: if the
// buffer is full the connection is closed instead of stalling a
// session.
func (c *Client) Send(ev game.Event) {
	select {
	case c.send <- ev:
	case <-c.done:
	default:
		log.Printf("ws: client %s send buffer full, dropping connection", c.id)
		c.conn.Close()
	}
}

// WritePump drains the send channel onto the wire. Run as a
// goroutine; returns when the connection dies.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("ws: marshal error: %v", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Inbound is a received envelope with the payload left raw for the
// dispatcher to decode per event type.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ReadLoop decodes inbound envelopes and hands them to handle until
// the connection drops.
func (c *Client) ReadLoop(handle func(msg Inbound)) {
	defer close(c.done)
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.Send(game.Event{Type: game.EvError, Data: game.ErrorData{
				Code: "bad_envelope", Message: "malformed message",
			}})
			continue
		}
		handle(msg)
	}
}
