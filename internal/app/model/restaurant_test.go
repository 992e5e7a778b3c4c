package model

import (
	"testing"

	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRestaurant() Restaurant {
	return Restaurant{
		Name:       "라멘집",
		Rating:     4.5,
		Categories: StringArray{"일식"},
		KakaoURL:   "https://place.map.kakao.com/1",
		Menus:      []Menu{{Name: "라멘", Price: 9000, Rating: 4}},
	}
}

func TestRestaurant_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Restaurant)
		wantErr string
	}{
		{name: "valid", modify: func(r *Restaurant) {}},
		{name: "empty categories allowed", modify: func(r *Restaurant) { r.Categories = StringArray{} }},
		{name: "missing name", modify: func(r *Restaurant) { r.Name = "" }, wantErr: "name은 필수입니다"},
		{name: "rating too high", modify: func(r *Restaurant) { r.Rating = 5.5 }, wantErr: "0~5"},
		{name: "negative rating", modify: func(r *Restaurant) { r.Rating = -1 }, wantErr: "0~5"},
		{name: "rating step", modify: func(r *Restaurant) { r.Rating = 3.3 }, wantErr: "0.5 단위"},
		{name: "nil categories", modify: func(r *Restaurant) { r.Categories = nil }, wantErr: "categories"},
		{name: "missing kakao url", modify: func(r *Restaurant) { r.KakaoURL = "" }, wantErr: "kakao_url"},
		{name: "menu without name", modify: func(r *Restaurant) { r.Menus[0].Name = "" }, wantErr: "메뉴 이름"},
		{name: "negative menu price", modify: func(r *Restaurant) { r.Menus[0].Price = -1 }, wantErr: "가격"},
		{name: "menu rating step", modify: func(r *Restaurant) { r.Menus[0].Rating = 4.2 }, wantErr: "menus[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRestaurant()
			tt.modify(&r)

			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStringArray_ValueAndScan(t *testing.T) {
	value, err := StringArray{"한식", "분식"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["한식","분식"]`, value)

	value, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	var s StringArray
	require.NoError(t, s.Scan([]byte(`["일식"]`)))
	assert.Equal(t, StringArray{"일식"}, s)
	require.NoError(t, s.Scan(`["중식"]`))
	assert.Equal(t, StringArray{"중식"}, s)
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, StringArray{}, s)
	assert.Error(t, s.Scan(42))
}

func TestRecordConversion(t *testing.T) {
	rec := sheet.Record{
		Name:        "식당",
		Rating:      3,
		Categories:  []string{"한식"},
		KakaoURL:    "https://a.com",
		Visited:     true,
		Description: "설명\n둘째 줄",
		Menus: []sheet.Menu{
			{Name: "A", Price: 1000},
			{Name: "B", Price: 2000, Visited: true},
		},
	}

	r := FromRecord(rec)
	assert.Equal(t, 0, r.Menus[0].Position)
	assert.Equal(t, 1, r.Menus[1].Position)
	assert.Equal(t, rec, r.ToRecord())
}

func TestToRecord_EmptyMenusNotNil(t *testing.T) {
	r := Restaurant{Name: "식당", Categories: StringArray{}}

	rec := r.ToRecord()
	assert.NotNil(t, rec.Menus)
	assert.NotNil(t, rec.Categories)
}
