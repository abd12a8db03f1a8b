package notifications

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func httpHandler(hub *Hub, userID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(userID, w, r)
	})
}

func TestHubBroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub()

	server := httptest.NewServer(httpHandler(hub, "user-1"))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers("user-1") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast("user-1", Event{Event: "notification.created", NotificationID: "n-1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "notification.created", event.Event)
	require.Equal(t, "n-1", event.NotificationID)
}

func TestHubBroadcastIgnoresOtherUsers(t *testing.T) {
	hub := NewHub()

	server := httptest.NewServer(httpHandler(hub, "user-1"))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers("user-1") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast("user-2", Event{Event: "notification.created", NotificationID: "n-2"})
	hub.Broadcast("user-1", Event{Event: "notification.created", NotificationID: "n-1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "n-1", event.NotificationID)
}

func TestHubSubscriberCountDropsOnClose(t *testing.T) {
	hub := NewHub()

	server := httptest.NewServer(httpHandler(hub, "user-1"))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}

	require.Eventually(t, func() bool {
		return hub.Subscribers("user-1") == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers("user-1") == 0
	}, time.Second, 10*time.Millisecond)
}
