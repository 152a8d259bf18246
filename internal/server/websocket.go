package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscriberBuffer is how many unsent messages a slow client may queue
// before further updates are dropped for it.
const subscriberBuffer = 16

type subscriber struct {
	send chan []byte
}

// hub fans game updates out to websocket subscribers.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[*subscriber]struct{})}
}

func (h *hub) subscribe(gameID string) *subscriber {
	sub := &subscriber{send: make(chan []byte, subscriberBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*subscriber]struct{})
	}
	h.subs[gameID][sub] = struct{}{}
	return sub
}

func (h *hub) unsubscribe(gameID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[gameID][sub]; !ok {
		return
	}
	delete(h.subs[gameID], sub)
	if len(h.subs[gameID]) == 0 {
		delete(h.subs, gameID)
	}
	close(sub.send)
}

func (h *hub) broadcast(gameID string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[gameID] {
		select {
		case sub.send <- data:
		default:
		}
	}
}

// sendTo queues msg for one subscriber only.
func (h *hub) sendTo(sub *subscriber, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case sub.send <- data:
	default:
	}
}

// handleWebsocket streams a game. The current view is sent on connect and
// after every move; text frames from the client are played as moves.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, st, err := s.loadSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := s.logger.With(zap.Stringer("game", id))
	sub := s.hub.subscribe(id.String())
	defer s.hub.unsubscribe(id.String(), sub)
	s.hub.sendTo(sub, Response{Status: http.StatusOK, Body: newGameView(sess, st, nil)})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for data := range sub.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read failed", zap.Error(err))
			}
			break
		}
		if kind != websocket.TextMessage {
			continue
		}
		if _, err := s.play(ctx, id, strings.TrimSpace(string(data))); err != nil {
			s.hub.sendTo(sub, Response{Status: statusFor(err), Body: ErrorResponse{Error: err.Error()}})
		}
	}

	s.hub.unsubscribe(id.String(), sub)
	<-done
}
