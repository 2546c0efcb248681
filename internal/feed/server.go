package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/philipparndt/mapmeasure/version"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server exposes a hub over HTTP.
//
//	/ws       websocket: overlay and log updates out, Request messages in
//	/overlay  current overlay as GeoJSON
//	/log      current drawing log as JSON
//	/version  build metadata
type Server struct {
	hub *Hub
	srv *http.Server
}

// NewServer creates a server for the hub listening on addr
func NewServer(addr string, hub *Hub) *Server {
	s := &Server{hub: hub}
	s.srv = &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	return s
}

// Handler returns the HTTP routes of the feed
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	mux.HandleFunc("/overlay", s.overlayHandler)
	mux.HandleFunc("/log", s.logHandler)
	mux.HandleFunc("/version", s.versionHandler)
	return mux
}

// ListenAndServe runs the hub and the HTTP server until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	go s.hub.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		s.hub.logger.Info("listening", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.logger.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}

	c := &client{
		hub:    s.hub,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		remote: r.RemoteAddr,
	}
	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

func (s *Server) overlayHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	data, err := s.hub.sess.Store().Snapshot().MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

func (s *Server) logHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.hub.sess.Log().All())
}

func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Get())
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	remote string
}

// enqueue queues a message without blocking the dispatcher
func (c *client) enqueue(m Message) bool {
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, msg, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.logger.Debug("read error", slog.String("remote", c.remote), slog.Any("err", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			c.hub.logger.Debug("invalid JSON", slog.String("remote", c.remote), slog.Any("err", err))
			continue
		}
		select {
		case c.hub.requests <- request{from: c, req: req}:
		case <-c.hub.done:
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case m, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(m); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
