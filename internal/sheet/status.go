package sheet

// RowStatus 식당 행의 라이프사이클 상태
type RowStatus string

const (
	StatusClean   RowStatus = ""        // 로드 이후 변경 없음
	StatusNew     RowStatus = "new"     // 새로 추가된 행
	StatusUpdated RowStatus = "updated" // 수정된 행
	StatusDeleted RowStatus = "deleted" // 삭제 예정 행
)

// MenuStatus 메뉴 행의 상태 (부모 전파 여부 판단용, 저장 payload에는 포함되지 않음)
type MenuStatus string

const (
	MenuClean   MenuStatus = ""
	MenuNew     MenuStatus = "new-menu"
	MenuUpdated MenuStatus = "updated-menu"
)

// EventKind 행에 발생한 편집 이벤트 종류
type EventKind int

const (
	EventEdit             EventKind = iota // 텍스트/contenteditable 입력
	EventChange                            // 평점 select, 방문 체크박스 변경
	EventDeleteToggle                      // 식당 행 삭제 체크박스
	EventMenuDeleteToggle                  // 메뉴 행 삭제 체크박스
)

func (k EventKind) String() string {
	switch k {
	case EventEdit:
		return "edit"
	case EventChange:
		return "change"
	case EventDeleteToggle:
		return "delete-toggle"
	case EventMenuDeleteToggle:
		return "menu-delete-toggle"
	default:
		return "unknown"
	}
}

// NextRowStatus 식당 행의 다음 상태를 계산한다.
// checked는 EventDeleteToggle에서만 의미가 있다.
func NextRowStatus(cur RowStatus, kind EventKind, checked bool) RowStatus {
	switch kind {
	case EventEdit, EventChange:
		if cur == StatusClean {
			return StatusUpdated
		}
		return cur
	case EventDeleteToggle:
		if checked {
			return StatusDeleted
		}
		return StatusClean
	default:
		return cur
	}
}

// NextMenuStatus 메뉴 행의 다음 상태를 계산한다.
// 메뉴 삭제 체크박스는 메뉴 자신의 상태를 바꾸지 않는다.
func NextMenuStatus(cur MenuStatus, kind EventKind) MenuStatus {
	switch kind {
	case EventEdit, EventChange:
		if cur == MenuClean {
			return MenuUpdated
		}
		return cur
	default:
		return cur
	}
}

// CascadeToParent 메뉴 이벤트가 부모 식당 행에 주는 영향.
// 부모가 변경 없음 상태일 때만 updated로 올리고, 나머지는 그대로 둔다.
func CascadeToParent(parent RowStatus) RowStatus {
	if parent == StatusClean {
		return StatusUpdated
	}
	return parent
}
