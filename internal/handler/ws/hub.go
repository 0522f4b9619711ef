package ws

import (
	"net/http"
	"sync"

	"ConfluenceBoard/internal/domain/models"
	applogger "ConfluenceBoard/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub pushes freshly computed confluence tables to connected dashboards.
// New connections receive the latest table immediately; slow consumers are
// pruned so the broadcast loop never blocks.
type Hub struct {
	logger *applogger.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan []models.ConfluenceResult
	done       chan struct{}

	clients map[*client]struct{}

	mu     sync.RWMutex
	latest []models.ConfluenceResult
}

func NewHub(logger *applogger.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []models.ConfluenceResult, 16),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// Run drives the hub loop until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.mu.RLock()
			latest := h.latest
			h.mu.RUnlock()
			if latest != nil {
				c.send <- latest
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case results := <-h.broadcast:
			h.mu.Lock()
			h.latest = results
			h.mu.Unlock()

			for c := range h.clients {
				select {
				case c.send <- results:
				default:
					// slow consumer, drop it so the loop keeps moving
					delete(h.clients, c)
					close(c.send)
				}
			}

		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Stop terminates the hub loop and disconnects all clients.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast queues a table for delivery to all connected clients.
func (h *Hub) Broadcast(results []models.ConfluenceResult) {
	select {
	case h.broadcast <- results:
	default:
		if h.logger != nil {
			h.logger.Warn("broadcast queue full, dropping update")
		}
	}
}

// Latest returns the last broadcast table, nil before the first scan.
func (h *Hub) Latest() []models.ConfluenceResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// add hands a client to the hub loop. Safe after Stop: a connection
// landing during shutdown is refused instead of blocking.
func (h *Hub) add(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// remove detaches a client from the hub loop, tolerating a stopped hub.
func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.handleUpgrade)
}

func (h *Hub) handleUpgrade(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("websocket upgrade failed", applogger.Error(err))
		}
		return nil
	}

	cl := &client{
		hub:  h,
		conn: conn,
		send: make(chan []models.ConfluenceResult, 8),
	}
	if !h.add(cl) {
		conn.Close()
		return nil
	}

	go cl.writePump()
	go cl.readPump()
	return nil
}
