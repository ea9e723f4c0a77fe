package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tower-siege/internal/app"
	"tower-siege/internal/event"
)

// Server exposes one driven game session over WebSocket. Every client sees
// the same session; commands are serialised through the driver.
type Server struct {
	driver   *app.Driver
	clients  *ClientManager
	upgrader websocket.Upgrader
	timeout  time.Duration
}

func NewServer(driver *app.Driver) *Server {
	s := &Server{
		driver:  driver,
		clients: NewClientManager(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		timeout: 5 * time.Second,
	}
	driver.Game().EventDispatcher.SubscribeAll(event.ListenerFunc(s.broadcastEvent))
	return s
}

// Clients returns the connected client registry.
func (s *Server) Clients() *ClientManager {
	return s.clients
}

// ServeHTTP upgrades the request and serves the connection until it closes.
// ?codec=msgpack selects binary frames.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("failed to upgrade connection", "error", err)
		return
	}
	conn := NewConnection(ws, CodecFor(r.URL.Query().Get("codec")))
	id := uuid.NewString()
	slog.Info("client connected", "session", id, "remote", ws.RemoteAddr().String(), "codec", conn.Codec().Name())

	go conn.WritePump()
	s.clients.AddClient(id, conn)
	conn.SendMessage(ServerMessage{
		Type:    MessageTypeWelcome,
		Session: id,
		State:   s.driver.Game().Snapshot(),
	})

	conn.ReadPump(&clientHandler{server: s, session: id})

	s.clients.RemoveClient(id)
	slog.Info("client disconnected", "session", id)
}

// BroadcastState pushes the current snapshot every interval until ctx is
// cancelled. Unchanged snapshots are skipped.
func (s *Server) BroadcastState(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var last float64 = -1
	for {
		select {
		case <-ctx.Done():
			s.clients.CloseAll()
			return
		case <-ticker.C:
			st := s.driver.Game().Snapshot()
			if st.Clock == last {
				continue
			}
			last = st.Clock
			s.clients.BroadcastToAll(ServerMessage{Type: MessageTypeState, State: st})
		}
	}
}

func (s *Server) broadcastEvent(e event.Event) {
	s.clients.BroadcastToAll(ServerMessage{Type: MessageTypeEvent, Event: &e})
}

type clientHandler struct {
	server  *Server
	session string
}

// HandleMessage decodes a client frame and runs its command.
func (h *clientHandler) HandleMessage(conn *Connection, message []byte) {
	var msg ClientMessage
	if err := conn.Codec().Unmarshal(message, &msg); err != nil {
		slog.Debug("bad client message", "session", h.session, "error", err)
		conn.SendMessage(errorMessage(CodeBadMessage, err.Error()))
		return
	}
	if msg.Type != MessageTypeCommand {
		conn.SendMessage(errorMessage(CodeUnknownType, "unknown message type "+string(msg.Type)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.server.timeout)
	defer cancel()
	res, err := h.server.driver.Submit(ctx, msg.Command)
	if err != nil {
		conn.SendMessage(errorMessage(CodeServerStopping, err.Error()))
		return
	}
	reply := ServerMessage{Type: MessageTypeResult, State: res.State}
	if res.Err != nil {
		reply.Error = &ErrorMessage{Code: CodeRejected, Message: res.Err.Error()}
	}
	conn.SendMessage(reply)
}

func errorMessage(code, text string) ServerMessage {
	return ServerMessage{Type: MessageTypeError, Error: &ErrorMessage{Code: code, Message: text}}
}
