package sheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_EmptyTable(t *testing.T) {
	payload := NewTable().Collect()

	assert.Equal(t, NewPayload(), payload)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"new":[],"update":[],"delete":[]}`, string(raw))
}

func TestCollect_NewRow(t *testing.T) {
	table := NewTable()
	id := table.AddRow()
	require.NoError(t, table.Edit(id, FieldName, Input{Text: "새식당"}))
	require.NoError(t, table.Edit(id, FieldRating, Input{Text: "4"}))
	require.NoError(t, table.Edit(id, FieldCategories, Input{Tags: []string{"한식"}}))
	require.NoError(t, table.Edit(id, FieldKakaoURL, Input{Text: "https://a.com"}))

	payload := table.Collect()

	require.Len(t, payload.New, 1)
	assert.Empty(t, payload.Update)
	assert.Empty(t, payload.Delete)
	assert.Equal(t, Record{
		Name:       "새식당",
		Rating:     4,
		Categories: []string{"한식"},
		KakaoURL:   "https://a.com",
		Menus:      []Menu{},
	}, payload.New[0])
}

func TestCollect_UpdatedRowWithMenu(t *testing.T) {
	table := LoadTable([]Record{{Name: "라멘집", Categories: []string{"일식"}, KakaoURL: "https://b.com"}})
	id := table.Rows()[0].ID
	menuID, err := table.AddMenu(id)
	require.NoError(t, err)
	require.NoError(t, table.EditMenu(id, menuID, FieldMenuName, Input{Text: "라멘"}))
	require.NoError(t, table.EditMenu(id, menuID, FieldMenuPrice, Input{Text: "9,000"}))

	payload := table.Collect()

	assert.Empty(t, payload.New)
	require.Len(t, payload.Update, 1)
	require.Len(t, payload.Update[0].Menus, 1)
	assert.Equal(t, "라멘", payload.Update[0].Menus[0].Name)
	assert.Equal(t, 9000, payload.Update[0].Menus[0].Price)
}

func TestCollect_DeletedRowUsesOriginalName(t *testing.T) {
	table := LoadTable([]Record{{Name: "원래이름"}})
	id := table.Rows()[0].ID
	require.NoError(t, table.Edit(id, FieldName, Input{Text: "표시이름"}))
	require.NoError(t, table.ToggleDelete(id, true))

	payload := table.Collect()

	assert.Equal(t, []string{"원래이름"}, payload.Delete)
	assert.Empty(t, payload.Update)
}

func TestCollect_DeletedNewRow(t *testing.T) {
	table := NewTable()
	named := table.AddRow()
	require.NoError(t, table.Edit(named, FieldName, Input{Text: "  임시식당 "}))
	require.NoError(t, table.ToggleDelete(named, true))
	unnamed := table.AddRow()
	require.NoError(t, table.ToggleDelete(unnamed, true))

	payload := table.Collect()

	// 이름 없는 행은 삭제 목록에서 빠진다
	assert.Equal(t, []string{"임시식당"}, payload.Delete)
	assert.Empty(t, payload.New)
}

func TestCollect_OrderAndDuplicatesPassThrough(t *testing.T) {
	table := LoadTable([]Record{{Name: "가"}, {Name: "나"}, {Name: "다"}})
	rows := table.Rows()
	require.NoError(t, table.Edit(rows[2].ID, FieldVisited, Input{Checked: true}))
	require.NoError(t, table.Edit(rows[0].ID, FieldName, Input{Text: "다"}))
	require.NoError(t, table.ToggleDelete(rows[1].ID, true))

	payload := table.Collect()

	require.Len(t, payload.Update, 2)
	assert.Equal(t, "다", payload.Update[0].Name)
	assert.Equal(t, "다", payload.Update[1].Name)
	assert.Equal(t, []string{"나"}, payload.Delete)
}

func TestCollect_UndeletedMenuReappears(t *testing.T) {
	table := LoadTable([]Record{{Name: "식당", Menus: []Menu{{Name: "A"}, {Name: "B"}}}})
	row := table.Rows()[0]

	require.NoError(t, table.ToggleMenuDelete(row.ID, row.Menus[1].ID, true))
	assert.Len(t, table.Collect().Update[0].Menus, 1)

	require.NoError(t, table.ToggleMenuDelete(row.ID, row.Menus[1].ID, false))
	require.NoError(t, table.EditMenu(row.ID, row.Menus[1].ID, FieldMenuName, Input{Text: "B2"}))

	menus := table.Collect().Update[0].Menus
	require.Len(t, menus, 2)
	assert.Equal(t, "B2", menus[1].Name)
}

func TestCollect_CleanRowsExcluded(t *testing.T) {
	table := LoadTable([]Record{{Name: "가", Menus: []Menu{{Name: "메뉴"}}}})
	table.AddMenu(table.Rows()[0].ID)

	assert.True(t, table.Collect().IsEmpty())
}
