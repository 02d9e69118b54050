package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/events"
)

func dialWebSocket(t *testing.T, handler *WebSocketHandler) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(handler.HandleWebSocket))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketHandler_ForwardsDatasetEvents(t *testing.T) {
	logger := arbor.NewLogger()
	eventService := events.NewService(logger)
	defer eventService.Close()

	handler := NewWebSocketHandler(eventService, logger, &common.WebSocketConfig{})
	conn := dialWebSocket(t, handler)

	hello := readMessage(t, conn)
	assert.Equal(t, MessageConnected, hello.Type)
	assert.Equal(t, handler.ServerInstanceID(), hello.ServerInstanceID)
	assert.Equal(t, 1, handler.ClientCount())

	require.NoError(t, eventService.PublishSync(context.Background(), interfaces.Event{
		Type:    interfaces.EventDatasetReloaded,
		Payload: models.DatasetEvent{SnapshotID: "snap_1", Source: "policies.csv", RecordsLoaded: 4},
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, string(interfaces.EventDatasetReloaded), msg.Type)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "snap_1", payload["snapshot_id"])
	assert.Equal(t, 4.0, payload["records_loaded"])
}

func TestWebSocketHandler_ThrottlesReloadsNotFailures(t *testing.T) {
	logger := arbor.NewLogger()
	handler := NewWebSocketHandler(nil, logger, &common.WebSocketConfig{Throttle: "1h"})
	conn := dialWebSocket(t, handler)
	readMessage(t, conn)

	handler.BroadcastDatasetEvent(interfaces.EventDatasetReloaded, models.DatasetEvent{SnapshotID: "snap_1"})
	handler.BroadcastDatasetEvent(interfaces.EventDatasetReloaded, models.DatasetEvent{SnapshotID: "snap_2"})
	handler.BroadcastDatasetEvent(interfaces.EventDatasetReloadFailed, models.DatasetEvent{Error: "missing column"})

	first := readMessage(t, conn)
	assert.Equal(t, string(interfaces.EventDatasetReloaded), first.Type)
	assert.Equal(t, "snap_1", first.Payload.(map[string]interface{})["snapshot_id"])

	second := readMessage(t, conn)
	assert.Equal(t, string(interfaces.EventDatasetReloadFailed), second.Type, "second reload was throttled")
}
