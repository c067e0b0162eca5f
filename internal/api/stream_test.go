package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/graham/internal/strategy"
	"github.com/wonny/graham/pkg/logger"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub(logger.NewNop())
	server := httptest.NewServer(NewRouter(Handlers{Stream: hub}, logger.NewNop()))
	defer server.Close()
	defer hub.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(strategy.Event{
		Type: strategy.EventSelectionUpdated,
		Hook: "before_trading_start",
		Data: map[string]interface{}{"stocks": []string{"XOM"}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "selection_updated", event["type"])
	assert.Equal(t, "before_trading_start", event["hook"])
}

func TestHub_DisconnectAndClose(t *testing.T) {
	hub := NewHub(logger.NewNop())
	server := httptest.NewServer(NewRouter(Handlers{Stream: hub}, logger.NewNop()))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/events"

	first, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer second.Close()

	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	first.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Count())

	// 서버가 연결을 닫음
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = second.ReadMessage()
	assert.Error(t, err)

	// 종료 후 Publish는 무시
	hub.Publish(strategy.Event{Type: strategy.EventRebalanced})
}
