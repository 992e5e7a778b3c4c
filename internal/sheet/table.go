package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrRowNotFound  = errors.New("row not found")
	ErrMenuNotFound = errors.New("menu row not found")
	ErrUnknownField = errors.New("unknown field")
)

// Field 편집 가능한 셀 이름 (화면의 data-field 값과 같다)
type Field string

const (
	FieldName        Field = "name"
	FieldRating      Field = "rating"
	FieldCategories  Field = "categories"
	FieldKakaoURL    Field = "kakao_url"
	FieldVisited     Field = "visited"
	FieldDescription Field = "description"

	FieldMenuName        Field = "menu-name"
	FieldMenuRating      Field = "menu-rating"
	FieldMenuPrice       Field = "menu-price"
	FieldMenuDescription Field = "menu-description"
	FieldMenuVisited     Field = "menu-visited"
)

// EventKind returns the event a change of this cell raises: select and
// checkbox controls fire change, everything else fires edit.
func (f Field) EventKind() EventKind {
	switch f {
	case FieldRating, FieldVisited, FieldMenuRating, FieldMenuVisited:
		return EventChange
	default:
		return EventEdit
	}
}

// Input 셀 하나에 들어온 새 원시 값. 셀 종류에 맞는 항목만 사용한다.
type Input struct {
	Text    string   `json:"text,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Checked bool     `json:"checked,omitempty"`
}

// RowCells 식당 행의 화면 상태
type RowCells struct {
	Name        string   `json:"name"`
	Rating      string   `json:"rating"` // select value, 빈 값이면 컨트롤 없음
	Categories  []string `json:"categories"`
	KakaoURL    string   `json:"kakao_url"`
	Visited     bool     `json:"visited"`
	Description string   `json:"description"` // contenteditable markup
	Delete      bool     `json:"delete"`
}

// MenuCells 메뉴 행의 화면 상태
type MenuCells struct {
	Name        string `json:"name"`
	Rating      string `json:"rating"`
	Price       string `json:"price"` // 표시용 문자열 (예: "9,000")
	Description string `json:"description"`
	Visited     bool   `json:"visited"`
	Delete      bool   `json:"delete"`
}

// MenuRow 식당 행에 속한 메뉴 행
type MenuRow struct {
	ID     string     `json:"id"`
	Status MenuStatus `json:"status"`
	Cells  MenuCells  `json:"cells"`
}

// Row 최상위 식당 행. Menus는 이 행이 소유한 메뉴 행들이다.
type Row struct {
	ID           string     `json:"id"`
	OriginalName string     `json:"original_name,omitempty"` // 저장된 데이터에서 로드된 행만 가진다
	Status       RowStatus  `json:"status"`
	Cells        RowCells   `json:"cells"`
	Menus        []*MenuRow `json:"menus"`
}

// Table is the editable grid: an ordered list of restaurant rows, each owning
// its menu rows. All methods are safe for concurrent use.
type Table struct {
	mu   sync.Mutex
	rows []*Row
}

func NewTable() *Table {
	return &Table{}
}

// LoadTable builds a clean table from persisted records.
func LoadTable(records []Record) *Table {
	t := NewTable()
	t.Reset(records)
	return t
}

// Reset discards every row and status and re-renders from records.
func (t *Table) Reset(records []Record) {
	rows := make([]*Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, loadedRow(record))
	}

	t.mu.Lock()
	t.rows = rows
	t.mu.Unlock()
}

func loadedRow(record Record) *Row {
	row := &Row{
		ID:           uuid.NewString(),
		OriginalName: record.Name,
		Status:       StatusClean,
		Cells: RowCells{
			Name:        record.Name,
			Rating:      formatRating(record.Rating),
			Categories:  append([]string{}, record.Categories...),
			KakaoURL:    record.KakaoURL,
			Visited:     record.Visited,
			Description: RenderMultiline(record.Description),
		},
		Menus: make([]*MenuRow, 0, len(record.Menus)),
	}
	for _, menu := range record.Menus {
		row.Menus = append(row.Menus, &MenuRow{
			ID:     uuid.NewString(),
			Status: MenuClean,
			Cells: MenuCells{
				Name:        menu.Name,
				Rating:      formatRating(menu.Rating),
				Price:       FormatPrice(menu.Price),
				Description: RenderMultiline(menu.Description),
				Visited:     menu.Visited,
			},
		})
	}
	return row
}

func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

// AddRow inserts an empty new row at the top of the table and returns its id.
func (t *Table) AddRow() string {
	row := &Row{
		ID:     uuid.NewString(),
		Status: StatusNew,
		Cells: RowCells{
			Rating:     formatRating(0),
			Categories: []string{},
		},
		Menus: []*MenuRow{},
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append([]*Row{row}, t.rows...)
	return row.ID
}

// AddMenu appends an empty new menu row under the given restaurant row.
func (t *Table) AddMenu(rowID string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, err := t.row(rowID)
	if err != nil {
		return "", err
	}
	menu := &MenuRow{
		ID:     uuid.NewString(),
		Status: MenuNew,
		Cells:  MenuCells{Rating: formatRating(0)},
	}
	row.Menus = append(row.Menus, menu)
	return menu.ID, nil
}

// Edit stores a new cell value on a restaurant row and applies the
// matching transition.
func (t *Table) Edit(rowID string, field Field, in Input) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, err := t.row(rowID)
	if err != nil {
		return err
	}

	switch field {
	case FieldName:
		row.Cells.Name = in.Text
	case FieldRating:
		row.Cells.Rating = in.Text
	case FieldCategories:
		row.Cells.Categories = append([]string{}, in.Tags...)
	case FieldKakaoURL:
		row.Cells.KakaoURL = in.Text
	case FieldVisited:
		row.Cells.Visited = in.Checked
	case FieldDescription:
		row.Cells.Description = in.Text
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	row.Status = NextRowStatus(row.Status, field.EventKind(), false)
	return nil
}

// EditMenu stores a new cell value on a menu row, bumps the menu status and
// cascades to the owning restaurant row.
func (t *Table) EditMenu(rowID, menuID string, field Field, in Input) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, menu, err := t.menu(rowID, menuID)
	if err != nil {
		return err
	}

	switch field {
	case FieldMenuName:
		menu.Cells.Name = in.Text
	case FieldMenuRating:
		menu.Cells.Rating = in.Text
	case FieldMenuPrice:
		menu.Cells.Price = in.Text
	case FieldMenuDescription:
		menu.Cells.Description = in.Text
	case FieldMenuVisited:
		menu.Cells.Visited = in.Checked
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	menu.Status = NextMenuStatus(menu.Status, field.EventKind())
	row.Status = CascadeToParent(row.Status)
	return nil
}

// ToggleDelete sets or clears a restaurant row's delete checkbox.
func (t *Table) ToggleDelete(rowID string, checked bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, err := t.row(rowID)
	if err != nil {
		return err
	}
	toggleDelete(row, checked)
	return nil
}

// ToggleDeleteAll applies the header "check all" box to every row.
func (t *Table) ToggleDeleteAll(checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		toggleDelete(row, checked)
	}
}

func toggleDelete(row *Row, checked bool) {
	row.Cells.Delete = checked
	row.Status = NextRowStatus(row.Status, EventDeleteToggle, checked)
}

// ToggleMenuDelete sets or clears a menu row's delete checkbox. The menu's
// own status is untouched; the parent always receives the cascade.
func (t *Table) ToggleMenuDelete(rowID, menuID string, checked bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, menu, err := t.menu(rowID, menuID)
	if err != nil {
		return err
	}
	menu.Cells.Delete = checked
	menu.Status = NextMenuStatus(menu.Status, EventMenuDeleteToggle)
	row.Status = CascadeToParent(row.Status)
	return nil
}

// Find returns the id of the first row identified by name, matching the
// original name first and the current name cell otherwise.
func (t *Table) Find(name string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		if row.OriginalName != "" && row.OriginalName == name {
			return row.ID, true
		}
	}
	for _, row := range t.rows {
		if ReadText(row.Cells.Name) == name {
			return row.ID, true
		}
	}
	return "", false
}

// Rows returns a deep copy of the current rows in table order.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, copyRow(row))
	}
	return rows
}

// Row returns a copy of one row.
func (t *Table) Row(rowID string) (Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, err := t.row(rowID)
	if err != nil {
		return Row{}, false
	}
	return copyRow(row), true
}

func copyRow(row *Row) Row {
	cp := *row
	cp.Cells.Categories = append([]string{}, row.Cells.Categories...)
	cp.Menus = make([]*MenuRow, 0, len(row.Menus))
	for _, menu := range row.Menus {
		m := *menu
		cp.Menus = append(cp.Menus, &m)
	}
	return cp
}

// Len returns the number of restaurant rows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *Table) row(rowID string) (*Row, error) {
	for _, row := range t.rows {
		if row.ID == rowID {
			return row, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
}

func (t *Table) menu(rowID, menuID string) (*Row, *MenuRow, error) {
	row, err := t.row(rowID)
	if err != nil {
		return nil, nil, err
	}
	for _, menu := range row.Menus {
		if menu.ID == menuID {
			return row, menu, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrMenuNotFound, menuID)
}
