package editor

import (
	"github.com/arch-spatula/jmc/internal/sheet"
)

// 클라이언트 -> 서버 메시지 종류
const (
	MsgAddRow           = "add_row"
	MsgAddMenu          = "add_menu"
	MsgEdit             = "edit"
	MsgEditMenu         = "edit_menu"
	MsgToggleDelete     = "toggle_delete"
	MsgToggleDeleteAll  = "toggle_delete_all"
	MsgToggleMenuDelete = "toggle_menu_delete"
	MsgSave             = "save"
	MsgRecommend        = "recommend"
	MsgSnapshot         = "snapshot"
)

// 서버 -> 클라이언트 메시지 종류
const (
	MsgRow         = "row"
	MsgSaved       = "saved"
	MsgError       = "error"
	MsgHighlight   = "highlight"
	MsgDataChanged = "data_changed"
)

// ClientMessage 브라우저에서 올라오는 편집 이벤트
type ClientMessage struct {
	Type    string      `json:"type"`
	RowID   string      `json:"row_id,omitempty"`
	MenuID  string      `json:"menu_id,omitempty"`
	Field   sheet.Field `json:"field,omitempty"`
	Input   sheet.Input `json:"input"`
	Checked bool        `json:"checked,omitempty"`
}

// ServerMessage 세션이 내려보내는 메시지. Type에 따라 일부 필드만 채워진다
type ServerMessage struct {
	Type    string        `json:"type"`
	Rows    []sheet.Row   `json:"rows,omitempty"`
	Row     *sheet.Row    `json:"row,omitempty"`
	RowID   string        `json:"row_id,omitempty"`
	Record  *sheet.Record `json:"record,omitempty"`
	Message string        `json:"message,omitempty"`
}

func snapshotMessage(rows []sheet.Row) ServerMessage {
	return ServerMessage{Type: MsgSnapshot, Rows: rows}
}

func rowMessage(row sheet.Row) ServerMessage {
	return ServerMessage{Type: MsgRow, Row: &row}
}

func errorMessage(message string) ServerMessage {
	return ServerMessage{Type: MsgError, Message: message}
}
