// Package ws is the websocket transport: it accepts connections, mints
// connection IDs, feeds inbound envelopes to the dispatcher, and
// delivers outbound events for it.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"fischerblitz/internal/match"
	"fischerblitz/internal/obslog"
	"fischerblitz/pkg/wire"
)

const writeTimeout = 5 * time.Second

type connection struct {
	id   match.ConnID
	conn *websocket.Conn

	// serializes writes; wsjson does not allow concurrent writers
	writeMu sync.Mutex
}

// Server implements http.Handler for the websocket endpoint and
// match.Sender for the dispatcher's outbound path.
type Server struct {
	disp           *match.Dispatcher
	allowedOrigins []string

	mu    sync.RWMutex
	conns map[match.ConnID]*connection
}

func NewServer(allowedOrigins []string) *Server {
	return &Server{
		allowedOrigins: allowedOrigins,
		conns:          make(map[match.ConnID]*connection),
	}
}

// Attach wires the dispatcher. Separate from NewServer because the
// dispatcher needs the server as its Sender first.
func (s *Server) Attach(disp *match.Dispatcher) { s.disp = disp }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  s.allowedOrigins,
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		obslog.L().Warn("ws_accept", zap.Error(err))
		return
	}

	c := &connection{id: match.ConnID(uuid.NewString()), conn: conn}
	s.register(c)
	obslog.L().Info("ws_connect", zap.String("conn", string(c.id)), zap.String("remote", r.RemoteAddr))

	s.readLoop(r.Context(), c)

	s.unregister(c.id)
	s.disp.Disconnect(c.id)
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	obslog.L().Info("ws_disconnect", zap.String("conn", string(c.id)))
}

func (s *Server) readLoop(ctx context.Context, c *connection) {
	for {
		var env wire.Envelope
		if err := wsjson.Read(ctx, c.conn, &env); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				obslog.L().Debug("ws_read", zap.String("conn", string(c.id)), zap.Error(err))
			}
			return
		}
		s.disp.Dispatch(c.id, env)
	}
}

// Send delivers one event to one connection. Delivery is best effort:
// a dead peer is detected by its read loop, not here.
func (s *Server) Send(id match.ConnID, event string, payload any) {
	s.mu.RLock()
	c, ok := s.conns[id]
	s.mu.RUnlock()
	if !ok {
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, c.conn, wire.Outbound{Event: event, Payload: payload}); err != nil {
		obslog.L().Debug("ws_write", zap.String("conn", string(id)), zap.String("event", event), zap.Error(err))
	}
}

// CloseAll force-closes every live connection; used on shutdown.
func (s *Server) CloseAll() {
	s.mu.Lock()
	conns := make([]*connection, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.conns = make(map[match.ConnID]*connection)
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutdown")
	}
}

func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

func (s *Server) register(c *connection) {
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
}

func (s *Server) unregister(id match.ConnID) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}
