package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
)

const maxMessageSize = 64 * 1024

// Gateway upgrades HTTP requests to websocket connections and runs the
// per-connection lifecycle: handshake authentication, the read loop
// feeding the dispatcher, and teardown.
type Gateway struct {
	registry   *Registry
	router     *Router
	dispatcher *Dispatcher
	resolver   *PrincipalResolver
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewGateway creates the websocket gateway.
func NewGateway(registry *Registry, router *Router, dispatcher *Dispatcher, resolver *PrincipalResolver, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		registry:   registry,
		router:     router,
		dispatcher: dispatcher,
		resolver:   resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The gateway authenticates by token, not by cookie, so
			// cross-origin upgrades carry no ambient credential.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: log.With(slog.String("component", "gateway")),
	}
}

// ServeHTTP implements the websocket endpoint.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Debug("websocket upgrade failed",
			"remote_addr", r.RemoteAddr,
			"error", err)
		return
	}

	connID := uuid.New().String()
	log := g.logger.With(slog.String("conn_id", connID))
	log.Debug("client connected", "remote_addr", r.RemoteAddr)

	client := newWSClient(conn)
	g.registry.Connect(connID, client)

	userID, err := g.resolver.Resolve(r)
	if err != nil {
		// One error event, then a forced disconnect.
		g.router.DeliverDirect(connID, EventError, ErrorPayload{
			Message: "Authentication required",
		})
		g.registry.Reject(connID)
		log.Debug("handshake rejected", "remote_addr", r.RemoteAddr)
		// Give the write pump a moment to flush the error frame.
		time.AfterFunc(time.Second, client.close)
		return
	}

	if _, err := g.registry.Authenticate(connID, userID); err != nil {
		log.Error("failed to authenticate session", "error", err)
		client.close()
		return
	}
	log.Info("user connected", "user_id", userID)

	g.router.DeliverDirect(connID, EventConnected, ConnectedPayload{
		Message:   "Connected to task service",
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})

	g.readLoop(connID, userID, conn, client, log)
}

// readLoop consumes inbound frames until the connection drops.
// Dispatch is synchronous, so a single connection's commands are
// processed strictly in the order received. Commands run against a
// background context: disconnecting cancels nothing in flight, and a
// store result arriving after teardown becomes a silent no-op delivery.
func (g *Gateway) readLoop(connID string, userID int64, conn *websocket.Conn, client *wsClient, log *slog.Logger) {
	defer func() {
		g.registry.Unregister(connID)
		client.close()
		log.Info("user disconnected", "user_id", userID)
	}()

	conn.SetReadLimit(maxMessageSize)
	ctx := logger.WithLogger(context.Background(), log)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read error", "error", err)
			}
			return
		}
		g.dispatcher.Dispatch(ctx, connID, msg)
	}
}
