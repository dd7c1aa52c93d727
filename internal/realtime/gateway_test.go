package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/taskpulse-api/internal/mocks"
	"github.com/taskpulse/taskpulse-api/internal/service/auth"
)

// newGatewayServer spins up a full gateway over an httptest server.
func newGatewayServer(t *testing.T, allowQueryUserID bool) (*httptest.Server, auth.JWTService, *mocks.MockTaskStore) {
	t.Helper()

	reg := NewRegistry(nil)
	router := NewRouter(reg, nil)
	tasks := mocks.NewMockTaskStore()
	dispatcher := NewDispatcher(tasks, reg, router, nil)
	svc := auth.NewTestJWTService(resolverTestSecret, 5*time.Minute, time.Now)
	resolver := NewPrincipalResolver(svc, allowQueryUserID)

	srv := httptest.NewServer(NewGateway(reg, router, dispatcher, resolver, nil))
	t.Cleanup(srv.Close)
	return srv, svc, tasks
}

func dialWS(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if query != "" {
		url += "?" + query
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func writeEnvelope(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Envelope{Event: event, Data: mustRaw(t, payload)}))
}

func mustRaw(t *testing.T, payload any) json.RawMessage {
	t.Helper()
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestGatewayConnectWithToken(t *testing.T) {
	srv, svc, _ := newGatewayServer(t, false)

	token, err := svc.GenerateToken(context.Background(), 42)
	require.NoError(t, err)

	conn := dialWS(t, srv, "token="+token)

	env := readEnvelope(t, conn)
	require.Equal(t, EventConnected, env.Event)

	var payload ConnectedPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "Connected to task service", payload.Message)
	assert.Equal(t, int64(42), payload.UserID)
	assert.False(t, payload.Timestamp.IsZero())
}

func TestGatewayConnectWithBearerHeader(t *testing.T) {
	srv, svc, _ := newGatewayServer(t, false)

	token, err := svc.GenerateToken(context.Background(), 7)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	env := readEnvelope(t, conn)
	require.Equal(t, EventConnected, env.Event)
}

func TestGatewayConnectWithQueryUserID(t *testing.T) {
	srv, _, _ := newGatewayServer(t, true)

	conn := dialWS(t, srv, "userId=1")

	env := readEnvelope(t, conn)
	require.Equal(t, EventConnected, env.Event)

	var payload ConnectedPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, int64(1), payload.UserID)
}

func TestGatewayRejectsUnauthenticatedHandshake(t *testing.T) {
	srv, _, _ := newGatewayServer(t, false)

	conn := dialWS(t, srv, "")

	env := readEnvelope(t, conn)
	require.Equal(t, EventError, env.Event)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "Authentication required", payload.Message)

	// The server closes shortly after the error frame; the next read
	// must fail rather than deliver further events.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestGatewayRejectsQueryUserIDWhenDisabled(t *testing.T) {
	srv, _, _ := newGatewayServer(t, false)

	conn := dialWS(t, srv, "userId=1")

	env := readEnvelope(t, conn)
	assert.Equal(t, EventError, env.Event)
}

func TestGatewayCommandRoundTrip(t *testing.T) {
	srv, _, _ := newGatewayServer(t, true)

	conn := dialWS(t, srv, "userId=1")
	readEnvelope(t, conn) // connected

	writeEnvelope(t, conn, EventCreateTask, CreateTaskPayload{Title: "Write docs"})

	// Broadcast to the user room plus the direct ack, both taskCreated.
	first := readEnvelope(t, conn)
	second := readEnvelope(t, conn)
	require.Equal(t, EventTaskCreated, first.Event)
	require.Equal(t, EventTaskCreated, second.Event)

	var payload TaskPayload
	require.NoError(t, json.Unmarshal(first.Data, &payload))
	require.NotNil(t, payload.Task)
	assert.Equal(t, "Write docs", payload.Task.Title)
	assert.Equal(t, int64(1), payload.Task.UserID)
}

func TestGatewayFansOutAcrossConnections(t *testing.T) {
	srv, _, _ := newGatewayServer(t, true)

	connA := dialWS(t, srv, "userId=1")
	readEnvelope(t, connA)
	connB := dialWS(t, srv, "userId=1")
	readEnvelope(t, connB)
	connOther := dialWS(t, srv, "userId=2")
	readEnvelope(t, connOther)

	writeEnvelope(t, connA, EventCreateTask, CreateTaskPayload{Title: "shared"})

	// The other connection of the same user sees exactly one event.
	env := readEnvelope(t, connB)
	assert.Equal(t, EventTaskCreated, env.Event)

	// A different user sees nothing.
	require.NoError(t, connOther.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := connOther.ReadMessage()
	assert.Error(t, err)
}

func TestGatewayDisconnectCleansUp(t *testing.T) {
	srv, _, _ := newGatewayServer(t, true)

	connA := dialWS(t, srv, "userId=1")
	readEnvelope(t, connA)
	connB := dialWS(t, srv, "userId=1")
	readEnvelope(t, connB)

	require.NoError(t, connB.Close())
	time.Sleep(100 * time.Millisecond)

	// Traffic still flows to the surviving connection.
	writeEnvelope(t, connA, EventCreateTask, CreateTaskPayload{Title: "after close"})
	env := readEnvelope(t, connA)
	assert.Equal(t, EventTaskCreated, env.Event)
}
