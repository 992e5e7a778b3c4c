package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arch-spatula/jmc/internal/editor"
	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEditorServer(t *testing.T) *httptest.Server {
	_, restaurantService := setupRestaurantControllerTest(t)
	ctx := context.Background()
	require.NoError(t, restaurantService.Create(ctx, testRecord("김밥천국")))

	hub := editor.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	ctrl := NewEditorController(hub, restaurantService, []string{"http://localhost:5173"})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws/editor", ctrl.Connect)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func dialEditor(t *testing.T, server *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/editor"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn) editor.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg editor.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestEditorController_SnapshotOnConnect(t *testing.T) {
	server := setupEditorServer(t)

	conn := dialEditor(t, server, nil)

	msg := readServerMessage(t, conn)
	assert.Equal(t, editor.MsgSnapshot, msg.Type)
	require.Len(t, msg.Rows, 1)
	assert.Equal(t, "김밥천국", msg.Rows[0].Cells.Name)
}

func TestEditorController_SaveNotifiesOtherSessions(t *testing.T) {
	server := setupEditorServer(t)

	writer := dialEditor(t, server, nil)
	watcher := dialEditor(t, server, nil)
	readServerMessage(t, writer)
	readServerMessage(t, watcher)

	require.NoError(t, writer.WriteJSON(editor.ClientMessage{Type: editor.MsgSnapshot}))
	snapshot := readServerMessage(t, writer)
	rowID := snapshot.Rows[0].ID

	require.NoError(t, writer.WriteJSON(editor.ClientMessage{
		Type:  editor.MsgEdit,
		RowID: rowID,
		Field: sheet.FieldVisited,
		Input: sheet.Input{Checked: true},
	}))
	row := readServerMessage(t, writer)
	assert.Equal(t, editor.MsgRow, row.Type)
	assert.Equal(t, sheet.StatusUpdated, row.Row.Status)

	require.NoError(t, writer.WriteJSON(editor.ClientMessage{Type: editor.MsgSave}))
	assert.Equal(t, editor.MsgSaved, readServerMessage(t, writer).Type)
	reloaded := readServerMessage(t, writer)
	assert.Equal(t, editor.MsgSnapshot, reloaded.Type)
	assert.True(t, reloaded.Rows[0].Cells.Visited)

	assert.Equal(t, editor.MsgDataChanged, readServerMessage(t, watcher).Type)
}

func TestEditorController_RejectsUnknownOrigin(t *testing.T) {
	server := setupEditorServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/editor"
	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
