package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/partypop/partypop/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 32

	// Transport-level flood guard, coarser than the per-kind dispatcher
	// limits. A client exceeding it gets disconnected outright.
	floodRate  = 20
	floodBurst = 40
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. The session fields mirror what the
// connection has done: which room it sits in and under which player identity.
type Client struct {
	ID   model.ClientID
	conn *websocket.Conn

	// sendMu guards send and closed together: enqueue and closeSend
	// exclude each other, so a broadcast racing a disconnect can never
	// write to a closed channel.
	sendMu sync.Mutex
	send   chan []byte
	closed bool

	mu       sync.Mutex
	roomCode model.RoomCode
	playerID model.PlayerID
}

// enqueue queues one outbound message without blocking. It reports false
// when the connection is closed or its buffer is full.
func (c *Client) enqueue(msg []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound channel exactly once, so the write pump
// drains and exits. Later enqueues become no-ops.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// setRoom records the connection's room membership and player identity.
func (c *Client) setRoom(code model.RoomCode, playerID model.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
	c.playerID = playerID
}

// clearRoom forgets the membership if it still points at the given room.
func (c *Client) clearRoom(code model.RoomCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.roomCode == code {
		c.roomCode = ""
		c.playerID = ""
	}
}

// session returns the connection's current room and identity.
func (c *Client) session() (model.RoomCode, model.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode, c.playerID
}

// ServeWS upgrades an HTTP request and runs the connection until it drops.
func ServeWS(hub *Hub, dispatcher *Dispatcher, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		ID:   model.ClientID(uuid.NewString()),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	hub.Register(client)

	go client.writePump()
	go client.readPump(hub, dispatcher, logger)
}

// readPump reads messages off the socket and hands them to the dispatcher.
// It owns the connection's read side and runs until the socket closes.
func (c *Client) readPump(hub *Hub, dispatcher *Dispatcher, logger *slog.Logger) {
	defer func() {
		dispatcher.HandleDisconnect(c)
		hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	guard := rate.NewLimiter(rate.Limit(floodRate), floodBurst)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error",
					slog.String("client_id", string(c.ID)),
					slog.String("error", err.Error()))
			}
			return
		}
		if !guard.Allow() {
			logger.Warn("message flood, closing connection",
				slog.String("client_id", string(c.ID)))
			return
		}
		dispatcher.HandleMessage(c, message)
	}
}

// writePump drains the send channel onto the socket and keeps the connection
// alive with pings. It owns the connection's write side.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
