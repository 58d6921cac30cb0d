package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/pongbox/games/pong"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverEnvelope struct {
	Type     string       `json:"type"`
	ClientID string       `json:"client_id"`
	State    StateMessage `json:"state"`
	Side     string       `json:"side"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Score    int          `json:"score"`
	Player   int          `json:"player"`
	Visible  bool         `json:"visible"`
	Message  string       `json:"message"`
}

func newTestHub(t *testing.T) (*Hub, *pong.Engine, *Config) {
	t.Helper()

	cfg := &Config{port: 8080}
	hub := newHub()

	engine, err := pong.NewEngine(pong.DefaultField(), hub)
	require.NoError(t, err)
	hub.engine = engine

	ctx, cancel := context.WithCancel(context.Background())
	go hub.run(ctx, cfg)
	t.Cleanup(cancel)

	return hub, engine, cfg
}

func newTestServer(t *testing.T) (*httptest.Server, *Hub, *pong.Engine) {
	t.Helper()

	hub, engine, cfg := newTestHub(t)
	errs := make(chan error, 64)

	server := httptest.NewServer(newRouter(cfg, hub, errs))
	t.Cleanup(server.Close)

	return server, hub, engine
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(serverEnvelope) bool) serverEnvelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg serverEnvelope
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func TestWebSocketSessionInfo(t *testing.T) {
	server, _, _ := newTestServer(t)
	conn := dial(t, server)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var first serverEnvelope
	require.NoError(t, conn.ReadJSON(&first))

	assert.Equal(t, "session_info", first.Type, "The first message should describe the session")
	assert.NotEmpty(t, first.ClientID)
	assert.Equal(t, "STOPPED", first.State.Status)
	assert.Equal(t, 400.0, first.State.Field.Width)
	assert.Equal(t, 800.0, first.State.Field.Height)
	assert.Equal(t, 760.0, first.State.Near.Y)
	assert.Equal(t, 20.0, first.State.Far.Y)
	assert.Equal(t, 1, first.State.Near.Player)
	assert.Equal(t, 2, first.State.Far.Player)
	assert.Equal(t, 190.0, first.State.Ball.X)
}

func TestWebSocketKeyDownStartsAndMoves(t *testing.T) {
	server, _, engine := newTestServer(t)
	conn := dial(t, server)

	readUntil(t, conn, func(m serverEnvelope) bool { return m.Type == "session_info" })

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "keydown", Key: "ArrowLeft", Code: 37}))

	start := readUntil(t, conn, func(m serverEnvelope) bool { return m.Type == "start" })
	assert.False(t, start.Visible, "Starting should hide the start indicator")

	far := readUntil(t, conn, func(m serverEnvelope) bool { return m.Type == "racket" && m.Side == "far" })
	assert.Equal(t, 115.0, far.X)

	s := engine.Snapshot()
	assert.Equal(t, pong.Running, s.Status)
	assert.Equal(t, 115.0, s.Far.X)
	assert.Equal(t, 140.0, s.Near.X)

	engine.Tick()
	ball := readUntil(t, conn, func(m serverEnvelope) bool { return m.Type == "ball" })
	assert.Equal(t, 185.0, ball.X)
	assert.Equal(t, 385.0, ball.Y)
}

func TestWebSocketUnknownKeyStillStarts(t *testing.T) {
	server, _, engine := newTestServer(t)
	conn := dial(t, server)

	readUntil(t, conn, func(m serverEnvelope) bool { return m.Type == "session_info" })

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "keydown", Key: "x", Code: 88}))
	readUntil(t, conn, func(m serverEnvelope) bool { return m.Type == "racket" && m.Side == "far" })

	s := engine.Snapshot()
	assert.Equal(t, pong.Running, s.Status)
	assert.Equal(t, 140.0, s.Near.X)
	assert.Equal(t, 140.0, s.Far.X)
}

func TestWebSocketMirrorsToEveryViewport(t *testing.T) {
	server, _, _ := newTestServer(t)
	first := dial(t, server)
	second := dial(t, server)

	readUntil(t, first, func(m serverEnvelope) bool { return m.Type == "session_info" })
	readUntil(t, second, func(m serverEnvelope) bool { return m.Type == "session_info" })

	require.NoError(t, first.WriteJSON(ClientMessage{Type: "keydown", Key: "d"}))

	near := readUntil(t, second, func(m serverEnvelope) bool { return m.Type == "racket" && m.Side == "near" })
	assert.Equal(t, 165.0, near.X, "Other viewports should see the move")
}

func TestHubPointMessages(t *testing.T) {
	hub, engine, _ := newTestHub(t)
	client := &Client{id: "test", send: make(chan any, 1024)}
	hub.mu.Lock()
	hub.clients[client] = true
	hub.mu.Unlock()

	// Park the far racket at x=15, out of the ball's path.
	for i := 0; i < 5; i++ {
		engine.KeyDown(pong.FarLeft)
	}
	require.Equal(t, 15.0, engine.Snapshot().Far.X)

	for i := 0; i < 78; i++ {
		engine.Tick()
	}
	require.Equal(t, 1, engine.Snapshot().Near.Score, "The ball should reach the far line on tick 78")

	var score ScoreMessage
	var announce AnnounceMessage
	for len(client.send) > 0 {
		switch m := (<-client.send).(type) {
		case ScoreMessage:
			score = m
		case AnnounceMessage:
			announce = m
		}
	}

	assert.Equal(t, ScoreMessage{Type: "score", Side: "near", Player: 1, Score: 1}, score)
	assert.Equal(t, "Player 1 won a point", announce.Message)
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	hub := newHub()
	slow := &Client{id: "slow", send: make(chan any)}
	hub.clients[slow] = true

	hub.DrawBall(1, 2)

	assert.Empty(t, hub.clients, "A client that cannot take a message should be dropped")
	_, open := <-slow.send
	assert.False(t, open, "The dropped client's channel should be closed")
}

func TestHubShutdownClosesClients(t *testing.T) {
	cfg := &Config{port: 8080}
	hub := newHub()

	engine, err := pong.NewEngine(pong.DefaultField(), hub)
	require.NoError(t, err)
	hub.engine = engine

	ctx, cancel := context.WithCancel(context.Background())
	go hub.run(ctx, cfg)

	headless := &Client{id: "headless", send: make(chan any, 1)}
	hub.mu.Lock()
	hub.clients[headless] = true
	hub.mu.Unlock()

	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("Hub should stop once its context is cancelled")
	}

	assert.Empty(t, hub.clients, "Shutdown should drop every viewport")
	_, open := <-headless.send
	assert.False(t, open, "Shutdown should close a viewport's channel even without a socket")

	// Effects after shutdown reach nobody and must not panic.
	assert.NotPanics(t, func() { engine.KeyDown(pong.NearLeft) })
}
