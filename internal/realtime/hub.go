package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Topic names used across the application. Per-user topics append the user
// ID after a colon, e.g. "user_stats:42".
const (
	TopicUserStats   = "user_stats"
	TopicLeaderboard = "leaderboard"
	TopicFlashDeals  = "flash_deals"
)

// UserTopic builds the per-user stats topic name.
func UserTopic(userID string) string {
	return TopicUserStats + ":" + userID
}

// Message is a single event pushed to topic subscribers.
type Message struct {
	Topic   string      `json:"topic"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

const subscriberBuffer = 16

// Hub fan-outs published messages to topic subscribers. Publishing never
// blocks; a subscriber that cannot keep up loses messages rather than
// stalling the publisher.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[chan Message]struct{}
	logger zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[chan Message]struct{}),
		logger: logger.With().Str("component", "realtime-hub").Logger(),
	}
}

// Subscribe registers a subscriber on a topic. The returned cancel function
// removes the subscription and closes the channel; it is safe to call more
// than once.
func (h *Hub) Subscribe(topic string) (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)

	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan Message]struct{})
		h.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.topics[topic]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.topics, topic)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers a message to every current subscriber of its topic.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.topics[msg.Topic] {
		select {
		case ch <- msg:
		default:
			h.logger.Warn().Str("topic", msg.Topic).Msg("dropping message for slow subscriber")
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// ServeWS upgrades the request to a WebSocket and streams the given topic to
// the client until either side disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	msgs, cancel := h.Subscribe(topic)
	defer cancel()
	defer conn.Close()

	h.logger.Debug().Str("topic", topic).Str("remote", r.RemoteAddr).Msg("websocket subscriber connected")

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	// Drain the read side so close frames and pongs are processed.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error().Err(err).Str("topic", topic).Msg("failed to encode message")
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
