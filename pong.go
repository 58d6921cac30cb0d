// Pongbox
//
// Two players share one keyboard in front of one browser viewport. The
// simulation runs server-side in games/pong; this file is the glue that
// turns browser key-downs into actions and engine effects into draw
// messages.
//
// Features:
// - One session per process, served at / with its websocket at /ws
// - Extra tabs mirror the same session and may also send keys
// - Every viewport gets a session_info snapshot on connect
// - Slow viewports are dropped instead of stalling the tick loop
// - In-browser QR button to open the viewport on another screen, backed by go-qrcode
// - /state returns the current snapshot as JSON

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/pongbox/games/pong"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const writeWait = 5 * time.Second

// Messages coming from clients
type ClientMessage struct {
	Type string `json:"type"`           // "keydown"
	Key  string `json:"key,omitempty"`  // KeyboardEvent.key
	Code int    `json:"code,omitempty"` // KeyboardEvent.keyCode
}

type FieldInfo struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	RacketWidth  float64 `json:"racket_width"`
	RacketHeight float64 `json:"racket_height"`
	BallSize     float64 `json:"ball_size"`
	TickMillis   int64   `json:"tick_ms"`
}

type RacketState struct {
	Side   string  `json:"side"`
	Player int     `json:"player"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Score  int     `json:"score"`
}

type BallState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StateMessage is a full snapshot of the session.
type StateMessage struct {
	Status string      `json:"status"`
	Field  FieldInfo   `json:"field"`
	Near   RacketState `json:"near"`
	Far    RacketState `json:"far"`
	Ball   BallState   `json:"ball"`
}

// SessionInfoMessage is sent immediately on connect so the client can lay
// out the field before the first draw message arrives.
type SessionInfoMessage struct {
	Type     string       `json:"type"` // "session_info"
	ClientID string       `json:"client_id"`
	State    StateMessage `json:"state"`
}

// StatusMessage is the body of /state.
type StatusMessage struct {
	State      StateMessage `json:"state"`
	Viewports  int          `json:"viewports"`
	CreatedAt  time.Time    `json:"created_at"`
	LastActive time.Time    `json:"last_active"`
}

type RacketMessage struct {
	Type string  `json:"type"` // "racket"
	Side string  `json:"side"`
	X    float64 `json:"x"`
}

type BallMessage struct {
	Type string  `json:"type"` // "ball"
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ScoreMessage struct {
	Type   string `json:"type"` // "score"
	Side   string `json:"side"`
	Player int    `json:"player"`
	Score  int    `json:"score"`
}

// VisibilityMessage shows or hides the "start" or "winner" indicator.
type VisibilityMessage struct {
	Type    string `json:"type"` // "start" or "winner"
	Visible bool   `json:"visible"`
}

type AnnounceMessage struct {
	Type    string `json:"type"` // "announce"
	Player  int    `json:"player"`
	Message string `json:"message"`
}

func stateOf(s pong.Session) StateMessage {
	racket := func(r pong.Racket) RacketState {
		return RacketState{
			Side:   r.Side.String(),
			Player: r.Side.Player(),
			X:      r.X,
			Y:      r.YUpper,
			Score:  r.Score,
		}
	}

	return StateMessage{
		Status: s.Status.String(),
		Field: FieldInfo{
			Width:        s.Field.Width,
			Height:       s.Field.Height,
			RacketWidth:  s.Field.RacketWidth,
			RacketHeight: s.Field.RacketHeight,
			BallSize:     s.Field.BallSize,
			TickMillis:   s.Field.Tick.Milliseconds(),
		},
		Near: racket(s.Near),
		Far:  racket(s.Far),
		Ball: BallState{X: s.Ball.X, Y: s.Ball.Y},
	}
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan any
}

type keyRequest struct {
	client *Client
	msg    ClientMessage
}

// Hub fans engine effects out to every connected viewport and feeds
// key-downs back in one at a time.
type Hub struct {
	engine  *pong.Engine
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	keys     chan keyRequest
	done     chan struct{}

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newHub() *Hub {
	now := time.Now()
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		keys:       make(chan keyRequest),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(ctx context.Context, cfg *Config) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			// Snapshot before taking h.mu: the engine calls back into the
			// hub while holding its own lock.
			state := stateOf(h.engine.Snapshot())

			// session_info goes into the still-empty buffer before any
			// broadcast can reach this client.
			h.mu.Lock()
			h.lastActive = time.Now()
			c.send <- SessionInfoMessage{
				Type:     "session_info",
				ClientID: c.id,
				State:    state,
			}
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()

			logf(cfg, "GAMES: Viewport %s connected (%d total)", c.id, count)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			logf(cfg, "GAMES: Viewport %s disconnected (%d total)", c.id, count)

		case kr := <-h.keys:
			h.handleKey(cfg, kr)
		}
	}
}

func (h *Hub) handleKey(cfg *Config, kr keyRequest) {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()

	action := resolveKey(kr.msg.Key, kr.msg.Code)
	if action != pong.None {
		logf(cfg, "GAMES: Viewport %s pressed %q (%s)", kr.client.id, kr.msg.Key, action)
	}

	h.engine.KeyDown(action)
}

// broadcast never blocks: a client whose buffer is full is dropped.
func (h *Hub) broadcast(msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) DrawRacket(side pong.Side, x float64) {
	h.broadcast(RacketMessage{Type: "racket", Side: side.String(), X: x})
}

func (h *Hub) DrawBall(x, y float64) {
	h.broadcast(BallMessage{Type: "ball", X: x, Y: y})
}

func (h *Hub) DrawScore(side pong.Side, score int) {
	h.broadcast(ScoreMessage{Type: "score", Side: side.String(), Player: side.Player(), Score: score})
}

func (h *Hub) ShowStart(visible bool) {
	h.broadcast(VisibilityMessage{Type: "start", Visible: visible})
}

func (h *Hub) ShowWinner(visible bool) {
	h.broadcast(VisibilityMessage{Type: "winner", Visible: visible})
}

func (h *Hub) AnnounceWinner(player int) {
	h.broadcast(AnnounceMessage{
		Type:    "announce",
		Player:  player,
		Message: fmt.Sprintf("Player %d won a point", player),
	})
}

func (h *Hub) status() StatusMessage {
	state := stateOf(h.engine.Snapshot())

	h.mu.RLock()
	defer h.mu.RUnlock()

	return StatusMessage{
		State:      state,
		Viewports:  len(h.clients),
		CreatedAt:  h.createdAt,
		LastActive: h.lastActive,
	}
}

// closeAll disconnects every viewport (used on shutdown).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		// The server's read timeout would otherwise end long-lived sockets.
		_ = conn.SetReadDeadline(time.Time{})

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan any, 64),
		}

		logf(cfg, "SERVE: Websocket %s for %s", client.id, realIP(r))

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "keydown":
			select {
			case h.keys <- keyRequest{client: c, msg: msg}:
			case <-h.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func serveState(cfg *Config, hub *Hub, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := json.Marshal(hub.status())
		if err != nil {
			errs <- err
			http.Error(w, "state unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

// QR handler: generates a PNG QR code for the viewport URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../qr; strip the trailing "qr" to get the viewport URL.
		path := strings.TrimSuffix(r.URL.Path, "qr")

		url := scheme + "://" + r.Host + path

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// registerPongGame sets up routes so that:
//   - $prefix/ws     → WebSocket for the session
//   - $prefix/qr     → PNG QR code for the viewport URL
//   - $prefix/state  → JSON snapshot of the session
func registerPongGame(cfg *Config, hub *Hub, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/ws", serveWS(cfg, hub))

	mux.GET(cfg.prefix+"/qr", qrHandler(cfg))

	mux.GET(cfg.prefix+"/state", serveState(cfg, hub, errs))
}
