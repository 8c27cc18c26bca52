package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

// Server bundles the long-lived pieces owned by one process.
type Server struct {
	cfg     Config
	rooms   *Registry
	conns   *ConnManager
	gateway *Gateway
	loop    *GameLoop
	limiter *ipRateLimiter
}

// NewServer wires a registry, gateway and game loop for cfg.
func NewServer(cfg Config) *Server {
	v := Validator{Slack: SpawnPadding}
	rooms := NewRegistry(RoomCapacity, v, v)
	return &Server{
		cfg:     cfg,
		rooms:   rooms,
		conns:   NewConnManager(),
		gateway: NewGateway(rooms),
		loop:    NewGameLoop(rooms),
		limiter: newIPRateLimiter(IPCooldownSec * time.Second),
	}
}

// Routes returns the HTTP handler for the websocket endpoint, the room
// listing, the protocol schema and the static client.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, s.handleWS)
	mux.HandleFunc(RoomsPath, s.handleRooms)
	mux.HandleFunc(SchemaPath, handleSchema)
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Static)))
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	// Extract client IP (handle X-Forwarded-For for reverse proxies)
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip, _, _ = net.SplitHostPort(r.RemoteAddr)
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	// Check limits after upgrade so client can receive error messages
	if s.conns.Count() >= s.cfg.MaxConns {
		sendErrorAndClose(ws, "Server full. Please try again later.")
		return
	}
	if !s.limiter.allow(ip) {
		sendErrorAndClose(ws, "Too many connections. Please wait a moment.")
		return
	}

	codecName := r.URL.Query().Get("codec")
	if codecName == "" {
		codecName = s.cfg.Codec
	}
	conn := NewConn(ws, codecFor(codecName))
	s.conns.Add(conn)
	log.Printf("player connected: %s (%s)", conn.ID(), conn.codec.Name())

	// Blocking read loop until client disconnects
	conn.ReadLoop(s.gateway, func(c *Conn) {
		s.conns.Remove(c.ID())
		log.Printf("player disconnected: %s", c.ID())
	})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.rooms.List()); err != nil {
		log.Printf("rooms encode error: %v", err)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.Routes(),
	}

	go s.loop.Run(ctx)
	go s.limiter.cleanup(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s (map %.0fx%.0f, %d per room)", srv.Addr, MapWidth, MapHeight, RoomCapacity)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Hijacked websocket connections aren't tracked by http.Server
	s.conns.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewServer(cfg).Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
