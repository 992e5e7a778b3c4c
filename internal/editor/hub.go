package editor

import (
	"encoding/json"
	"sync"

	"github.com/arch-spatula/jmc/pkg/logger"
)

// broadcastMessage 다른 세션 전체에 보낼 메시지
type broadcastMessage struct {
	data     []byte
	exceptID string // 보낸 세션은 제외
}

// Hub 편집 세션 관리자
type Hub struct {
	sessions map[string]*Session

	register   chan *Session
	unregister chan *Session
	broadcast  chan *broadcastMessage
	quit       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]*Session),
		register:   make(chan *Session, 64),
		unregister: make(chan *Session, 64),
		broadcast:  make(chan *broadcastMessage, 256),
		quit:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case session := <-h.register:
			h.mu.Lock()
			h.sessions[session.ID] = session
			total := len(h.sessions)
			h.mu.Unlock()
			logger.Info("Editor session registered", map[string]interface{}{
				"session_id":     session.ID,
				"total_sessions": total,
			})

		case session := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.sessions[session.ID]; ok {
				delete(h.sessions, session.ID)
				session.close()
			}
			remaining := len(h.sessions)
			h.mu.Unlock()
			logger.Info("Editor session unregistered", map[string]interface{}{
				"session_id":         session.ID,
				"remaining_sessions": remaining,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for id, session := range h.sessions {
				if id == message.exceptID {
					continue
				}
				if !session.push(message.data) {
					// Send 채널이 막혀있음 - 비동기로 정리
					go h.Unregister(session)
					logger.Warn("Editor session send buffer full, disconnecting", map[string]interface{}{
						"session_id": id,
					})
				}
			}
			h.mu.RUnlock()

		case <-h.quit:
			h.mu.Lock()
			for id, session := range h.sessions {
				session.close()
				delete(h.sessions, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every session and ends Run
func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) Register(session *Session) {
	h.register <- session
}

func (h *Hub) Unregister(session *Session) {
	select {
	case h.unregister <- session:
	case <-h.quit:
	}
}

// Broadcast sends message to every session except exceptID
func (h *Hub) Broadcast(message ServerMessage, exceptID string) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal broadcast message", err)
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{data: data, exceptID: exceptID}:
	default:
		logger.Warn("Editor broadcast channel full, message dropped", map[string]interface{}{
			"type": message.Type,
		})
	}
}

// Count returns the number of registered sessions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
