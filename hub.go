/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Seednode/jeopardy/games/jeopardy"
)

const maxMessageSize = 4096

// Messages coming from clients
type ClientMessage struct {
	Type string `json:"type"`          // "start", "reveal"
	Col  *int   `json:"col,omitempty"` // reveal
	Row  *int   `json:"row,omitempty"` // reveal
}

// BoardStateMessage carries the whole board as it should be drawn.
type BoardStateMessage struct {
	Type string `json:"type"` // "board_state"
	jeopardy.View
}

// ErrorMessage is sent only to the client whose command failed.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type command struct {
	client *Client
	msg    ClientMessage
}

type setupResult struct {
	gen   uint64
	board *jeopardy.Board
	err   error
}

// Hub runs one game. Its run goroutine is the only owner of game; board
// setups happen elsewhere and come back through results.
type Hub struct {
	id      string
	builder *jeopardy.Builder
	game    *jeopardy.Game

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	commands chan command
	results  chan setupResult
	views    chan chan jeopardy.View
	quit     chan struct{}

	cancelSetup context.CancelFunc

	mu         sync.RWMutex
	closed     bool
	createdAt  time.Time
	lastActive time.Time
	stopOnce   sync.Once
}

func newHub(gameID string, builder *jeopardy.Builder) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		builder:    builder,
		game:       jeopardy.NewGame(),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		commands:   make(chan command),
		results:    make(chan setupResult),
		views:      make(chan chan jeopardy.View),
		quit:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(cfg *Config) {
	defer func() {
		if h.cancelSetup != nil {
			h.cancelSetup()
		}
	}()

	for {
		select {
		case <-h.quit:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			if h.closed {
				close(c.send)
				_ = c.conn.Close()
				h.mu.Unlock()
				continue
			}
			h.clients[c] = true
			h.sendLocked(c, h.stateMessage())
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case cmd := <-h.commands:
			h.handleCommand(cfg, cmd)

		case res := <-h.results:
			h.handleResult(cfg, res)

		case reply := <-h.views:
			reply <- h.game.Snapshot()
		}
	}
}

func (h *Hub) stateMessage() BoardStateMessage {
	return BoardStateMessage{
		Type: "board_state",
		View: h.game.Snapshot(),
	}
}

func (h *Hub) handleCommand(cfg *Config, cmd command) {
	h.touch()

	switch cmd.msg.Type {
	case "start":
		h.startSetup(cfg)

	case "reveal":
		if cmd.msg.Col == nil || cmd.msg.Row == nil {
			h.sendError(cmd.client, "reveal needs both col and row")
			return
		}
		col, row := *cmd.msg.Col, *cmd.msg.Row

		rev, err := h.game.Reveal(col, row)
		if err != nil {
			logf(cfg, "GAMES: Rejected reveal (%d,%d) in %s: %v", col, row, h.id, err)
			h.sendError(cmd.client, err.Error())
			return
		}
		if !rev.Changed {
			return
		}

		logf(cfg, "GAMES: Showing %s at (%d,%d) in %s", rev.Showing, col, row, h.id)
		h.broadcastState()

	default:
		h.sendError(cmd.client, "unknown command "+cmd.msg.Type)
	}
}

// startSetup throws away the current board and builds a new one in the
// background. Any setup still in flight is cancelled, and its result, if
// it arrives anyway, no longer matches the game's generation.
func (h *Hub) startSetup(cfg *Config) {
	if h.cancelSetup != nil {
		h.cancelSetup()
	}

	gen := h.game.Begin()

	ctx, cancel := context.WithCancel(context.Background())
	h.cancelSetup = cancel

	logf(cfg, "GAMES: Building board %d for %s", gen, h.id)

	go func() {
		defer cancel()

		board, err := h.builder.Build(ctx)

		select {
		case h.results <- setupResult{gen: gen, board: board, err: err}:
		case <-h.quit:
		}
	}()

	h.broadcastState()
}

func (h *Hub) handleResult(cfg *Config, res setupResult) {
	if !h.game.Apply(res.gen, res.board, res.err) {
		logf(cfg, "GAMES: Dropped stale board %d for %s", res.gen, h.id)
		return
	}

	if res.err != nil {
		logf(cfg, "ERROR: Board %d for %s failed: %v", res.gen, h.id, res.err)
	} else {
		logf(cfg, "GAMES: Board %d ready for %s", res.gen, h.id)
	}

	h.touch()
	h.broadcastState()
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActive
}

func (h *Hub) broadcastState() {
	msg := h.stateMessage()

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

func (h *Hub) sendError(c *Client, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}

	h.sendLocked(c, ErrorMessage{Type: "error", Message: text})
}

// sendLocked drops clients that can't keep up. Assumes h.mu is held.
func (h *Hub) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) submit(cmd command) bool {
	select {
	case h.commands <- cmd:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.quit:
	}
}

// view asks the run goroutine for a snapshot.
func (h *Hub) view() (jeopardy.View, bool) {
	reply := make(chan jeopardy.View, 1)

	select {
	case h.views <- reply:
	case <-h.quit:
		return jeopardy.View{}, false
	}

	select {
	case v := <-reply:
		return v, true
	case <-h.quit:
		return jeopardy.View{}, false
	}
}

// closeAll stops the hub and disconnects all of its clients.
func (h *Hub) closeAll() {
	h.stopOnce.Do(func() {
		close(h.quit)

		h.mu.Lock()
		defer h.mu.Unlock()

		h.closed = true
		for c := range h.clients {
			close(c.send)
			_ = c.conn.Close()
			delete(h.clients, c)
		}
	})
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if !h.submit(command{client: c, msg: msg}) {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
