package controller

import (
	"net/http"

	"github.com/arch-spatula/jmc/internal/editor"
	"github.com/arch-spatula/jmc/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type EditorController struct {
	hub      *editor.Hub
	store    editor.Store
	upgrader websocket.Upgrader
}

// NewEditorController accepts connections whose Origin is in allowedOrigins.
// Requests without an Origin header (non-browser clients) are always accepted.
func NewEditorController(hub *editor.Hub, store editor.Store, allowedOrigins []string) *EditorController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &EditorController{
		hub:   hub,
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Connect 편집 세션 WebSocket 연결
// GET /ws/editor
// 토큰은 쿼리 파라미터로 받는다 (미들웨어에서 인증)
func (ctrl *EditorController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	session := editor.NewSession(ctrl.hub, conn, ctrl.store)
	ctrl.hub.Register(session)

	go session.WritePump()

	if err := session.Open(); err != nil {
		log.Error("Failed to open editor session", err, map[string]interface{}{
			"session_id": session.ID,
		})
		ctrl.hub.Unregister(session)
		return
	}

	go session.ReadPump()

	log.Info("Editor session established", map[string]interface{}{
		"session_id": session.ID,
	})
}
