// This file is part of eosd.
//
// eosd is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// eosd is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with eosd.  If not, see <https://www.gnu.org/licenses/>.

// Package debugserver is an optional, host-side HTTP front end for
// inspecting a running Game from outside the process: a JSON snapshot of
// every sprite over a websocket, and (when wired) a Prometheus /metrics
// endpoint. None of this touches the deterministic core; a Game never
// imports this package, it is only ever driven from the outside by a CLI
// that chooses to start one.
package debugserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/kurokoma/eosd/game"
	"github.com/kurokoma/eosd/telemetry"
)

// SpriteView is the JSON shape streamed to a connected debug client, a
// deliberately thin projection of game.Sprite3 (no internal pointers, no
// interpolator state).
type SpriteView struct {
	X       float32  `json:"x"`
	Y       float32  `json:"y"`
	Z       float32  `json:"z"`
	Frame   uint16   `json:"frame"`
	Visible bool     `json:"visible"`
	Color   [4]uint8 `json:"color"`
}

// Server mounts inspection endpoints over a running Game.
type Server struct {
	game    *game.Game
	metrics *telemetry.Metrics

	// snapshotRate bounds how often a single websocket client receives a
	// new snapshot, independent of the simulation's own 60Hz frame clock;
	// a slow client should not be able to make the server buffer frames.
	snapshotRate rate.Limit

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a Server over g. metrics may be nil to skip mounting /metrics.
func New(g *game.Game, metrics *telemetry.Metrics) *Server {
	return &Server{
		game:         g,
		metrics:      metrics,
		snapshotRate: rate.Every(16 * time.Millisecond), // ~60Hz ceiling per client
		clients:      make(map[*websocket.Conn]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler builds the chi router backing this server: request logging and
// CORS (so a browser-based debug UI on a different origin can connect),
// /healthz, an optional /metrics, and /ws for the sprite-snapshot stream.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	r.Get("/ws", s.serveWS)

	return r
}

// ListenAndServe starts serving the router at addr. Blocks until the
// listener fails or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	limiter := rate.NewLimiter(s.snapshotRate, 1)
	ctx := r.Context()
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		sprites := s.game.Sprites()
		view := make([]SpriteView, len(sprites))
		for i, sp := range sprites {
			view[i] = SpriteView{
				X: sp.X, Y: sp.Y, Z: sp.Z,
				Frame:   sp.Sprite.Frame,
				Visible: sp.Sprite.Visible,
				Color:   sp.Sprite.Color,
			}
		}
		payload, err := json.Marshal(view)
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// ClientCount reports how many websocket clients are currently connected.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
