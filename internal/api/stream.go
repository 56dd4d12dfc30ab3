package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/talgya/ufo-command/internal/events"
)

const (
	maxStreamConns = 8
	streamBuffer   = 64
	catchUpEvents  = 50
	pingInterval   = 15 * time.Second
	writeTimeout   = 5 * time.Second
)

type messageKind string

const (
	kindEvents messageKind = "events" // New events were appended
	kindRewind messageKind = "rewind" // An undo dropped events at and after Next
)

// streamMessage is one websocket frame.
type streamMessage struct {
	Kind   messageKind        `json:"kind"`
	Turn   int                `json:"turn"`
	Events []events.GameEvent `json:"events,omitempty"`
	Next   int                `json:"next"`
}

// hub fans committed batches out to stream subscribers. A subscriber that
// falls streamBuffer messages behind is dropped.
type hub struct {
	mu     sync.Mutex
	subs   map[int]chan streamMessage
	nextID int
	conns  atomic.Int32
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan streamMessage)}
}

func (h *hub) subscribe() (int, <-chan streamMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan streamMessage, streamBuffer)
	h.subs[id] = ch
	return id, ch
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		close(ch)
		delete(h.subs, id)
	}
}

func (h *hub) publish(m streamMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- m:
		default:
			slog.Warn("stream subscriber too slow, dropping", "sub_id", id)
			close(ch)
			delete(h.subs, id)
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

// handleStream upgrades to a websocket, sends recent events as catch-up and
// then every commit as it happens. ?since= picks the first catch-up event.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.hub.conns.Add(1) > maxStreamConns {
		s.hub.conns.Add(-1)
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer s.hub.conns.Add(-1)

	next := s.Session.NextEventID()
	since, err := intParam(r, "since", max(0, next-catchUpEvents))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("stream accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	subID, ch := s.hub.subscribe()
	defer s.hub.unsubscribe(subID)

	// Reads are only for control frames; a closed client cancels ctx.
	ctx := conn.CloseRead(r.Context())

	catchUp := s.Session.Events(since)
	last := since - 1
	if len(catchUp) > 0 {
		last = catchUp[len(catchUp)-1].ID
	}
	if err := send(ctx, conn, streamMessage{
		Kind:   kindEvents,
		Turn:   s.Session.Head().Turn(),
		Events: catchUp,
		Next:   last + 1,
	}); err != nil {
		return
	}
	slog.Info("stream client connected", "sub_id", subID, "since", since)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case m, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "stream closed")
				return
			}
			switch m.Kind {
			case kindRewind:
				last = m.Next - 1
			case kindEvents:
				m.Events = after(m.Events, last)
				if len(m.Events) == 0 {
					continue
				}
				last = m.Events[len(m.Events)-1].ID
			}
			if err := send(ctx, conn, m); err != nil {
				slog.Debug("stream write failed", "sub_id", subID, "error", err)
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// after drops events already sent during catch-up.
func after(evs []events.GameEvent, last int) []events.GameEvent {
	for i, e := range evs {
		if e.ID > last {
			return evs[i:]
		}
	}
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, m streamMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, m)
}
