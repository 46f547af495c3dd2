package ws

import (
	"encoding/json"
	"sync"
	"time"

	"rps_arena/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 256
)

type Client struct {
	Account string
	Conn    *websocket.Conn
	Send    chan []byte

	Hub  *Hub
	Done chan struct{}

	subMu sync.RWMutex
	pins  map[string]struct{}
}

func NewClient(account string, conn *websocket.Conn, hub *Hub, pins ...string) *Client {
	c := &Client{
		Account: account,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Hub:     hub,
		Done:    make(chan struct{}),
		pins:    make(map[string]struct{}),
	}
	for _, p := range pins {
		if p != "" {
			c.pins[p] = struct{}{}
		}
	}
	return c
}

func (c *Client) wants(pin string) bool {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	if len(c.pins) == 0 {
		return true
	}
	_, ok := c.pins[pin]
	return ok
}

func (c *Client) subscribe(pin string) {
	c.subMu.Lock()
	c.pins[pin] = struct{}{}
	c.subMu.Unlock()
}

func (c *Client) unsubscribe(pin string) {
	c.subMu.Lock()
	delete(c.pins, pin)
	c.subMu.Unlock()
}

// Run registers the client and blocks until the connection closes.
func (c *Client) Run() {
	c.Hub.register(c)
	go c.writePump()

	c.reply(ReplyMessage{Type: MsgReady})
	c.readPump()
}

func (c *Client) reply(m ReplyMessage) {
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.Hub.deliver(c, b)
}

//read
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		_ = c.Conn.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "account", c.Account, "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg []byte) {
	var m ControlMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		c.reply(ReplyMessage{Type: MsgError, Message: "invalid message"})
		return
	}

	switch m.Type {
	case MsgPing:
		c.reply(ReplyMessage{Type: MsgPong})
	case MsgSubscribe:
		if m.Pin == "" {
			c.reply(ReplyMessage{Type: MsgError, Message: "pin required"})
			return
		}
		c.subscribe(m.Pin)
		c.reply(ReplyMessage{Type: MsgSubscribe, Pin: m.Pin})
	case MsgUnsubscribe:
		c.unsubscribe(m.Pin)
		c.reply(ReplyMessage{Type: MsgUnsubscribe, Pin: m.Pin})
	default:
		c.reply(ReplyMessage{Type: MsgError, Message: "unknown message type"})
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("ws write error", "account", c.Account, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
