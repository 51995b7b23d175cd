package echoapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/user"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is vouched for by the JWT on the upgrade request
	},
}

type watchClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	usr  user.User
}

// Hub fans request events out to connected watchers, so open dashboards
// refresh live. Students only receive events for their own requests.
type Hub struct {
	clients    map[*watchClient]bool
	broadcast  chan request.Event
	register   chan *watchClient
	unregister chan *watchClient
	logger     core.Logger
}

var _ request.Broadcaster = (*Hub)(nil)

func NewHub(logger core.Logger) *Hub {
	return &Hub{
		clients:    make(map[*watchClient]bool),
		broadcast:  make(chan request.Event, 16),
		register:   make(chan *watchClient),
		unregister: make(chan *watchClient),
		logger:     logger,
	}
}

// Broadcast queues an event for all connected watchers. Never blocks the
// mutation path; events are dropped if the hub is not running.
func (h *Hub) Broadcast(evt request.Event) {
	select {
	case h.broadcast <- evt:
	default:
	}
}

// Run is the hub main loop; call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case evt := <-h.broadcast:
			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.Error("encoding watch event", err)
				continue
			}
			for client := range h.clients {
				if !client.sees(evt) {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Subscribe upgrades the connection and registers the user as a watcher.
func (h *Hub) Subscribe(ctx echo.Context, usr user.User) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return errors.Wrap(err, "upgrading watch connection")
	}

	client := &watchClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
		usr:  usr,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

// sees applies the same visibility rule as the request list.
func (c *watchClient) sees(evt request.Event) bool {
	return request.QueryFilter{}.Matches(evt.Request, c.usr)
}

func (c *watchClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// watchers never send application messages; reads only service
		// control frames and detect the close
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("watch connection closed unexpectedly", err)
			}
			return
		}
	}
}

func (c *watchClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
