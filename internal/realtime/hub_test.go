package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishFansOut(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	a, cancelA := hub.Subscribe(TopicLeaderboard)
	defer cancelA()
	b, cancelB := hub.Subscribe(TopicLeaderboard)
	defer cancelB()
	other, cancelOther := hub.Subscribe(TopicFlashDeals)
	defer cancelOther()

	hub.Publish(Message{Topic: TopicLeaderboard, Event: "standings_changed"})

	for _, ch := range []<-chan Message{a, b} {
		select {
		case msg := <-ch:
			assert.Equal(t, "standings_changed", msg.Event)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the message")
		}
	}

	select {
	case <-other:
		t.Fatal("message leaked to an unrelated topic")
	default:
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	ch, cancel := hub.Subscribe(TopicFlashDeals)
	cancel()
	// Cancel is idempotent.
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "cancel closes the channel")

	// Publishing after cancel must not panic.
	hub.Publish(Message{Topic: TopicFlashDeals, Event: "catalog_updated"})
}

func TestHubSlowSubscriberLosesMessages(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	ch, cancel := hub.Subscribe(TopicLeaderboard)
	defer cancel()

	// Overflow the buffer without draining; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(Message{Topic: TopicLeaderboard, Event: "standings_changed"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestUserTopic(t *testing.T) {
	assert.Equal(t, "user_stats:u1", UserTopic("u1"))
}

func TestServeWSDeliversMessages(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, TopicFlashDeals)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the subscription to register before publishing.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.topics[TopicFlashDeals]) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(Message{Topic: TopicFlashDeals, Event: "catalog_updated"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"catalog_updated"`)
}
