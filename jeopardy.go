/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Jeopardy
//
// Six random categories from a jService-compatible trivia API, five clues
// each. Clicking a cell shows its question, clicking again shows the answer,
// and further clicks do nothing. Start/Restart throws the board away and
// builds a new one.
//
// Features:
// - WebSockets per game ID: /jeopardy/:gameid and /jeopardy/:gameid/ws
// - Board setup runs in the background; restarts supersede older setups
// - JSON snapshot of the board at /jeopardy/:gameid/state
// - QR code for the current game at /jeopardy/:gameid/qr, backed by go-qrcode
// - Signed resume cookie so / returns to a game that is still running
// - Games auto-reaped after configurable idle timeout

package main

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/jeopardy/games/jeopardy"
)

const (
	gamePath         = "/jeopardy"
	gameIDLength     = 8
	maxGameIDLength  = 32
	resumeCookieName = "jeopardy_game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func validGameID(id string) bool {
	if id == "" || len(id) > maxGameIDLength {
		return false
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}

func newResumeCodec() (*securecookie.SecureCookie, error) {
	hashKey := securecookie.GenerateRandomKey(32)
	blockKey := securecookie.GenerateRandomKey(32)
	if hashKey == nil || blockKey == nil {
		return nil, errors.New("failed to generate cookie keys")
	}

	return securecookie.New(hashKey, blockKey), nil
}

// GameManager holds a set of hubs keyed by game ID, so each
// /jeopardy/$gameid is its own board.
type GameManager struct {
	cfg     *Config
	builder *jeopardy.Builder
	cookies *securecookie.SecureCookie

	mu   sync.Mutex
	hubs map[string]*Hub

	done     chan struct{}
	stopOnce sync.Once
}

func newGameManager(cfg *Config, builder *jeopardy.Builder, cookies *securecookie.SecureCookie) *GameManager {
	gm := &GameManager{
		cfg:     cfg,
		builder: builder,
		cookies: cookies,
		hubs:    make(map[string]*Hub),
		done:    make(chan struct{}),
	}
	if cfg.sessionTimeout > 0 {
		go gm.reaperLoop(cfg.sessionTimeout)
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.builder)
	gm.hubs[gameID] = hub
	go hub.run(gm.cfg)

	logf(gm.cfg, "GAMES: Opened game %s", gameID)

	return hub
}

func (gm *GameManager) lookup(gameID string) (*Hub, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	hub, ok := gm.hubs[gameID]
	return hub, ok
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const max = byte(255 - (256 % len(letters)))

	for {
		out := make([]byte, 0, gameIDLength)
		buf := make([]byte, gameIDLength*2)

		for len(out) < gameIDLength {
			if _, err := rand.Read(buf); err != nil {
				panic("crypto/rand failure: " + err.Error())
			}
			for _, b := range buf {
				if b <= max && len(out) < gameIDLength {
					out = append(out, letters[int(b)%len(letters)])
				}
			}
		}

		if _, exists := gm.lookup(string(out)); !exists {
			return string(out)
		}
	}
}

// reap closes every hub idle since before cutoff and returns how many.
func (gm *GameManager) reap(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(gm.hubs, id)
			go hub.closeAll()
			reaped++
			logf(gm.cfg, "GAMES: Reaped idle game %s", id)
		}
	}

	return reaped
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop(idleTimeout time.Duration) {
	ticker := time.NewTicker(idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-idleTimeout))
		}
	}
}

// stop ends the reaper and every running game.
func (gm *GameManager) stop() {
	gm.stopOnce.Do(func() {
		close(gm.done)

		gm.mu.Lock()
		defer gm.mu.Unlock()

		for id, hub := range gm.hubs {
			delete(gm.hubs, id)
			hub.closeAll()
		}
	})
}

func (gm *GameManager) setResumeCookie(w http.ResponseWriter, gameID string) {
	encoded, err := gm.cookies.Encode(resumeCookieName, gameID)
	if err != nil {
		logf(gm.cfg, "ERROR: Encoding resume cookie for %s: %v", gameID, err)
		return
	}

	cookie := &http.Cookie{
		Name:     resumeCookieName,
		Value:    encoded,
		Path:     gm.cfg.prefix + "/",
		HttpOnly: true,
		Secure:   gm.cfg.scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	}
	if gm.cfg.sessionTimeout > 0 {
		cookie.MaxAge = int(gm.cfg.sessionTimeout.Seconds())
	}

	http.SetCookie(w, cookie)
}

// resumeGameID returns the game in the request's resume cookie, if that
// game is still running.
func (gm *GameManager) resumeGameID(r *http.Request) (string, bool) {
	c, err := r.Cookie(resumeCookieName)
	if err != nil {
		return "", false
	}

	var gameID string
	if err := gm.cookies.Decode(resumeCookieName, c.Value, &gameID); err != nil {
		return "", false
	}
	if !validGameID(gameID) {
		return "", false
	}

	if _, ok := gm.lookup(gameID); !ok {
		return "", false
	}

	return gameID, true
}

// serveWS picks the hub based on :gameid and pumps messages until the
// connection or the hub goes away.
func serveWS(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Upgrading %s for %s: %v", gameID, realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
		}

		hub := gm.getHub(gameID)
		if !hub.join(client) {
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: %s connected to %s", realIP(r), gameID)

		go client.writePump()
		client.readPump(hub)
	}
}

func serveGamePage(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.NotFound(w, r)
			return
		}

		data, err := assets.ReadFile("assets/jeopardy/index.html")
		if err != nil {
			errs <- err
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}

		gm.setResumeCookie(w, gameID)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		if _, err := w.Write(data); err != nil {
			errs <- err
		}
	}
}

func serveState(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		hub, ok := gm.lookup(ps.ByName("gameid"))
		if !ok {
			http.Error(w, "no such game", http.StatusNotFound)
			return
		}

		view, ok := hub.view()
		if !ok {
			http.Error(w, "game has ended", http.StatusGone)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(BoardStateMessage{Type: "board_state", View: view}); err != nil {
			errs <- err
		}
	}
}

// qrHandler generates a PNG QR code for the current game URL.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

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

// redirectNewGame handles GET /jeopardy by generating a new random game ID
// and redirecting to /jeopardy/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s%s/%s for %s", cfg.prefix, path, gameID, realIP(r))
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerJeopardyGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/state    → JSON snapshot of that game's board
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerJeopardyGame(cfg *Config, path string, gm *GameManager, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))
	mux.GET(cfg.prefix+path+"/:gameid", serveGamePage(cfg, gm, errs))
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWS(cfg, gm))
	mux.GET(cfg.prefix+path+"/:gameid/state", serveState(cfg, gm, errs))
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))
}
