package monitor

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for decoupled dashboards
	},
}

// SafeConn serializes writes to a single websocket connection.
type SafeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

// WriteMessage writes under the connection lock.
func (sc *SafeConn) WriteMessage(messageType int, data []byte) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.Conn.WriteMessage(messageType, data)
}

// WSMonitor broadcasts feed events as JSON to any connected websocket
// client. It is mounted on the health server, so a degraded messaging
// connection never takes the feed down with it.
type WSMonitor struct {
	mu          sync.RWMutex
	connections map[string]*SafeConn // connection ID -> socket
}

// NewWSMonitor creates an empty websocket monitor.
func NewWSMonitor() *WSMonitor {
	return &WSMonitor{
		connections: make(map[string]*SafeConn),
	}
}

// Start implements Monitor. Listening is owned by the health server.
func (m *WSMonitor) Start() error {
	return nil
}

// Stop closes all live connections.
func (m *WSMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, conn := range m.connections {
		conn.Close()
		delete(m.connections, id)
	}
	return nil
}

// OnEvent broadcasts the event to every connected client. Dead connections
// are dropped in passing.
func (m *WSMonitor) OnEvent(ev FeedEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to marshal feed event", "error", err)
		return
	}

	m.mu.RLock()
	conns := make(map[string]*SafeConn, len(m.connections))
	for id, conn := range m.connections {
		conns[id] = conn
	}
	m.mu.RUnlock()

	for id, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Debug("Dropping feed client", "conn", id, "error", err)
			m.remove(id)
		}
	}
}

// Handler returns the HTTP handler that upgrades feed subscribers.
func (m *WSMonitor) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Feed upgrade failed", "error", err)
			return
		}

		id := uuid.NewString()
		sc := &SafeConn{Conn: conn}

		m.mu.Lock()
		m.connections[id] = sc
		m.mu.Unlock()
		slog.Info("Feed client connected", "conn", id, "remote", r.RemoteAddr)

		// Drain reads until the client goes away; the feed is one-way.
		go func() {
			defer m.remove(id)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

func (m *WSMonitor) remove(id string) {
	m.mu.Lock()
	if conn, ok := m.connections[id]; ok {
		conn.Close()
		delete(m.connections, id)
	}
	m.mu.Unlock()
}
