// Package feed publishes the overlay and the drawing log over a websocket
// and accepts interaction events from remote clients.
//
// All events are applied by a single dispatcher goroutine, so the session
// never sees concurrent input.
package feed

import (
	"context"
	"log/slog"

	"github.com/paulmach/orb/geojson"
	"github.com/philipparndt/mapmeasure/internal/drawlog"
	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/internal/script"
	"github.com/philipparndt/mapmeasure/internal/session"
)

// Message types sent to clients
const (
	TypeOverlay = "overlay"
	TypeLog     = "log"
	TypeResult  = "result"
)

// Message is sent from the server to clients
type Message struct {
	Type     string                     `json:"type"`
	Revision uint64                     `json:"revision,omitempty"`
	Overlay  *geojson.FeatureCollection `json:"overlay,omitempty"`
	Entries  []drawlog.Entry            `json:"entries,omitempty"`
	// Result fields
	Seq   int    `json:"seq,omitempty"`
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
	State string `json:"state,omitempty"`
	Tip   string `json:"tip,omitempty"`
}

// Request is an interaction event sent by a client
type Request struct {
	Seq int `json:"seq,omitempty"`
	script.Step
}

type request struct {
	from *client
	req  Request
}

const sendBuffer = 32

// Hub owns a session and fans its changes out to the connected clients
type Hub struct {
	sess   *session.Session
	logger *slog.Logger

	requests   chan request
	register   chan *client
	unregister chan *client
	clients    map[*client]struct{}
	done       chan struct{}

	// set by store and log listeners, which run on the dispatcher goroutine
	overlayDirty bool
	logDirty     bool
	revision     uint64
}

// NewHub creates a hub for the session. Run must be called to process events.
func NewHub(s *session.Session) *Hub {
	h := &Hub{
		sess:       s,
		logger:     log.WithComponent("feed"),
		requests:   make(chan request),
		register:   make(chan *client),
		unregister: make(chan *client),
		clients:    make(map[*client]struct{}),
		done:       make(chan struct{}),
	}
	s.Store().Subscribe(func(c overlay.Change) {
		h.overlayDirty = true
		h.revision = c.Revision
	})
	s.Log().Subscribe(func([]drawlog.Entry) {
		h.logDirty = true
	})
	return h
}

// Run processes client registrations and events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.logger.Debug("dispatcher started")
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				h.drop(c)
			}
			h.logger.Debug("dispatcher stopped")
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("client connected", slog.String("remote", c.remote), slog.Int("clients", len(h.clients)))
			c.enqueue(h.overlayMessage())
			c.enqueue(h.logMessage())
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Info("client disconnected", slog.String("remote", c.remote), slog.Int("clients", len(h.clients)))
			}
		case r := <-h.requests:
			h.handle(r)
		}
	}
}

func (h *Hub) handle(r request) {
	result := Message{Type: TypeResult, Seq: r.req.Seq, OK: true}

	e, err := r.req.Event(h.sess)
	if err == nil {
		err = h.sess.Dispatch(e)
	}
	if err != nil {
		result.OK = false
		result.Error = err.Error()
		h.logger.Debug("request rejected", slog.String("action", r.req.Action), slog.Any("err", err))
	}
	result.State = h.sess.State().String()
	result.Tip = h.sess.Preview().Tip

	if _, ok := h.clients[r.from]; ok {
		if !r.from.enqueue(result) {
			h.drop(r.from)
		}
	}
	h.flush()
}

// flush sends what changed while handling the last event
func (h *Hub) flush() {
	if h.overlayDirty {
		h.overlayDirty = false
		h.broadcast(h.overlayMessage())
	}
	if h.logDirty {
		h.logDirty = false
		h.broadcast(h.logMessage())
	}
}

func (h *Hub) broadcast(m Message) {
	for c := range h.clients {
		if !c.enqueue(m) {
			h.logger.Warn("dropping slow client", slog.String("remote", c.remote))
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) overlayMessage() Message {
	return Message{Type: TypeOverlay, Revision: h.revision, Overlay: h.sess.Store().Snapshot()}
}

func (h *Hub) logMessage() Message {
	return Message{Type: TypeLog, Entries: h.sess.Log().All()}
}
