// Package ws is the connect/disconnect collaborator feeding the presence
// registry: it upgrades HTTP requests to WebSocket connections, binds them
// to the authenticated user, and tears the binding down when the peer goes
// away.
package ws

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/sweeply/marketplace-be/internal/presence"
)

// wsConn adapts a raw WebSocket connection to presence.Conn. Writes are
// serialized and honor the context deadline, so a hung peer cannot stall
// a dispatching request indefinitely.
type wsConn struct {
	mu   sync.Mutex
	conn net.Conn
}

func (c *wsConn) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		defer c.conn.SetWriteDeadline(time.Time{})
	}

	return wsutil.WriteServerText(c.conn, payload)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// Gateway upgrades authenticated requests to live connections.
type Gateway struct {
	registry *presence.Registry
	logger   *slog.Logger
}

// NewGateway creates a gateway over the given presence registry.
func NewGateway(registry *presence.Registry, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry: registry,
		logger:   logger,
	}
}

// Handle upgrades the request and registers the connection as userID's
// live handle. A previous handle for the same user is closed: reconnect
// is last-write-wins.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		g.logger.Error("WebSocket upgrade failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return err
	}

	handle := &wsConn{conn: conn}
	if prev := g.registry.Register(userID, handle); prev != nil {
		prev.Close()
	}

	g.logger.Info("User connected",
		slog.String("user_id", userID),
		slog.Int("connected_users", g.registry.Count()),
	)

	go g.readLoop(userID, handle)
	return nil
}

// readLoop drains inbound frames until the peer disconnects. The server
// never acts on client data; reading only serves close/ping handling and
// disconnect detection.
func (g *Gateway) readLoop(userID string, handle *wsConn) {
	defer func() {
		g.registry.Unregister(userID, handle)
		handle.Close()
		g.logger.Info("User disconnected",
			slog.String("user_id", userID),
			slog.Int("connected_users", g.registry.Count()),
		)
	}()

	for {
		if _, _, err := wsutil.ReadClientData(handle.conn); err != nil {
			return
		}
	}
}
