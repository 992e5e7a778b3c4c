package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/arch-spatula/jmc/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// 편집 이벤트는 하나도 버리지 않는다 (개수 제한 없음, 크기만 제한)
	maxMessageSize = 256 * 1024

	sendBufferSize = 256
)

// Store 세션이 사용하는 저장소 (service.RestaurantService가 구현)
type Store interface {
	GetAll(ctx context.Context) ([]sheet.Record, error)
	SaveBatch(ctx context.Context, payload sheet.Payload) error
	Recommend(ctx context.Context) (*sheet.Record, error)
}

// Session 편집 세션 하나. 연결마다 자기 Table을 가진다
type Session struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	store       Store
	table       *sheet.Table
	coordinator *sheet.Coordinator

	ctx    context.Context
	cancel context.CancelFunc

	saving atomic.Bool

	mu     sync.Mutex // Send close 보호
	closed bool
}

// NewSession creates a session; conn may be nil when driven directly
func NewSession(hub *Hub, conn *websocket.Conn, store Store) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	table := sheet.NewTable()
	return &Session{
		ID:          uuid.NewString(),
		Hub:         hub,
		Conn:        conn,
		Send:        make(chan []byte, sendBufferSize),
		store:       store,
		table:       table,
		coordinator: sheet.NewCoordinator(store, store.GetAll),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Open loads the persisted records into the session table and sends a snapshot
func (s *Session) Open() error {
	records, err := s.store.GetAll(s.ctx)
	if err != nil {
		return fmt.Errorf("load restaurants: %w", err)
	}
	s.table.Reset(records)
	s.reply(snapshotMessage(s.table.Rows()))
	return nil
}

// Table exposes the session table
func (s *Session) Table() *sheet.Table {
	return s.table
}

// Handle applies one client message to the session table
func (s *Session) Handle(msg ClientMessage) {
	var err error

	switch msg.Type {
	case MsgAddRow:
		id := s.table.AddRow()
		s.replyRow(id)
	case MsgAddMenu:
		if _, err = s.table.AddMenu(msg.RowID); err == nil {
			s.replyRow(msg.RowID)
		}
	case MsgEdit:
		if err = s.table.Edit(msg.RowID, msg.Field, msg.Input); err == nil {
			s.replyRow(msg.RowID)
		}
	case MsgEditMenu:
		if err = s.table.EditMenu(msg.RowID, msg.MenuID, msg.Field, msg.Input); err == nil {
			s.replyRow(msg.RowID)
		}
	case MsgToggleDelete:
		if err = s.table.ToggleDelete(msg.RowID, msg.Checked); err == nil {
			s.replyRow(msg.RowID)
		}
	case MsgToggleDeleteAll:
		s.table.ToggleDeleteAll(msg.Checked)
		s.reply(snapshotMessage(s.table.Rows()))
	case MsgToggleMenuDelete:
		if err = s.table.ToggleMenuDelete(msg.RowID, msg.MenuID, msg.Checked); err == nil {
			s.replyRow(msg.RowID)
		}
	case MsgSave:
		s.save()
	case MsgRecommend:
		s.recommend()
	case MsgSnapshot:
		s.reply(snapshotMessage(s.table.Rows()))
	default:
		err = fmt.Errorf("알 수 없는 요청입니다: %s", msg.Type)
	}

	if err != nil {
		logger.Warn("Editor message rejected", map[string]interface{}{
			"session_id": s.ID,
			"type":       msg.Type,
			"error":      err.Error(),
		})
		s.reply(errorMessage(err.Error()))
	}
}

// save submits in the background so the table stays editable meanwhile
func (s *Session) save() {
	if !s.saving.CompareAndSwap(false, true) {
		s.reply(errorMessage("이미 저장 중입니다"))
		return
	}

	go func() {
		defer s.saving.Store(false)

		outcome := s.coordinator.Submit(s.ctx, s.table)
		if outcome.Saved {
			s.Hub.Broadcast(ServerMessage{Type: MsgDataChanged}, s.ID)
		}
		if outcome.Err != nil {
			s.reply(errorMessage(outcome.Message()))
			return
		}
		s.reply(ServerMessage{Type: MsgSaved})
		s.reply(snapshotMessage(s.table.Rows()))
	}()
}

func (s *Session) recommend() {
	rec, err := s.store.Recommend(s.ctx)
	if err != nil {
		s.reply(errorMessage(err.Error()))
		return
	}
	if rec == nil {
		s.reply(errorMessage("추천할 식당이 없습니다"))
		return
	}

	msg := ServerMessage{Type: MsgHighlight, Record: rec}
	if id, ok := s.table.Find(rec.Name); ok {
		msg.RowID = id
	}
	s.reply(msg)
}

func (s *Session) replyRow(rowID string) {
	if row, ok := s.table.Row(rowID); ok {
		s.reply(rowMessage(row))
	}
}

func (s *Session) reply(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal editor message", err, map[string]interface{}{
			"session_id": s.ID,
		})
		return
	}
	if !s.push(data) {
		logger.Warn("Editor reply dropped", map[string]interface{}{
			"session_id": s.ID,
			"type":       msg.Type,
		})
	}
}

// push enqueues without blocking; false when closed or full
func (s *Session) push(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.Send <- data:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	close(s.Send)
}

// ReadPump 클라이언트로부터 메시지 읽기
func (s *Session) ReadPump() {
	defer func() {
		s.Hub.Unregister(s)
		s.Conn.Close()
	}()

	s.Conn.SetReadLimit(maxMessageSize)
	s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	s.Conn.SetPongHandler(func(string) error {
		s.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Editor websocket read error", err, map[string]interface{}{
					"session_id": s.ID,
				})
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.reply(errorMessage("잘못된 요청입니다"))
			continue
		}
		s.Handle(msg)
	}
}

// WritePump 클라이언트로 메시지 쓰기
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.Send:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Error("Failed to write editor message", err, map[string]interface{}{
					"session_id": s.ID,
				})
				return
			}

		case <-ticker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
