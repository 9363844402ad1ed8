// Package daemon is the transport between the browser extension and the
// session tracker. The extension holds one long-lived WebSocket and streams
// tab lifecycle messages; a single socket reader preserves the browser's
// event order onto the tracker channel.
package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/dwell/internal/tracker"
)

// Server accepts extension connections on /events and serves a liveness
// probe on /status.
type Server struct {
	addr      string
	registry  *TabRegistry
	events    chan<- tracker.Event
	log       *logrus.Entry
	upgrader  websocket.Upgrader
	startedAt time.Time

	// done is closed when the daemon shuts down; sends to events abort on
	// it so a websocket reader can never outlive the tracker goroutine.
	done chan struct{}
}

// NewServer creates a Server that feeds decoded events into events and
// keeps registry in sync with the extension's tab state.
func NewServer(addr string, registry *TabRegistry, events chan<- tracker.Event, log *logrus.Entry) *Server {
	return &Server{
		addr:     addr,
		registry: registry,
		events:   events,
		log:      log,
		upgrader: websocket.Upgrader{
			// Local-only daemon; the extension connects from an extension
			// origin, so the default same-origin check would reject it.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// Handler returns the daemon's HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

// ListenAndServe runs the daemon until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		close(s.done)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.log.WithField("addr", s.addr).Info("daemon listening")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleEvents upgrades the connection and pumps extension messages into
// the tracker channel until the socket closes. A closed socket means the
// extension is gone, so a suspend event flushes every open session.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.log.WithField("remote", r.RemoteAddr).Info("extension connected")

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Warn("extension connection lost")
			} else {
				s.log.Info("extension disconnected")
			}
			s.emit(tracker.Event{Type: tracker.EventSuspend})
			return
		}
		s.dispatch(msg)
	}
}

// dispatch updates the tab registry and forwards the event. Registry writes
// happen before the event is queued so a lookup triggered by this event
// observes at least this message's state.
func (s *Server) dispatch(msg Message) {
	switch msg.Type {
	case "tab_snapshot":
		s.registry.ReplaceAll(msg.Tabs)
	case "tab_activated":
		s.emit(tracker.Event{Type: tracker.EventTabActivated, TabID: msg.TabID})
	case "tab_updated":
		s.registry.Put(msg.TabID, tracker.TabInfo{URL: msg.URL, Active: msg.Active})
		s.emit(tracker.Event{Type: tracker.EventTabUpdated, TabID: msg.TabID, URL: msg.URL, Active: msg.Active})
	case "tab_removed":
		// Removing from the registry first means an earlier queued
		// activation for this tab fails its lookup, which is the accepted
		// "tab vanished" race.
		s.registry.Remove(msg.TabID)
		s.emit(tracker.Event{Type: tracker.EventTabRemoved, TabID: msg.TabID})
	case "window_focus":
		s.emit(tracker.Event{Type: tracker.EventWindowFocus, WindowID: msg.WindowID})
	case "suspend":
		s.emit(tracker.Event{Type: tracker.EventSuspend})
	default:
		s.log.WithField("type", msg.Type).Warn("unknown message type")
	}
}

// emit queues ev for the tracker, giving up once the daemon is shutting
// down and nothing drains the channel anymore.
func (s *Server) emit(ev tracker.Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// statusResponse is the JSON body of GET /status.
type statusResponse struct {
	Running       bool    `json:"running"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	OpenTabs      int     `json:"open_tabs"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{ //nolint:errcheck
		Running:       true,
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		OpenTabs:      s.registry.Len(),
	})
}
