package workbook

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/xuri/excelize/v2"
)

const (
	RestaurantSheet = "restaurants"
	MenuSheet       = "menus"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	restaurantHeaders = []string{"이름", "평점", "카테고리", "카카오맵", "방문", "설명"}
	menuHeaders       = []string{"식당", "메뉴", "평점", "가격", "설명", "방문"}
)

// Encode writes records into an xlsx workbook with a restaurant sheet and a menu sheet
func Encode(records []sheet.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RestaurantSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(MenuSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, RestaurantSheet, restaurantHeaders, headerStyle); err != nil {
		return nil, err
	}
	if err := writeHeader(f, MenuSheet, menuHeaders, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(RestaurantSheet, "A", "A", 20)
	f.SetColWidth(RestaurantSheet, "C", "D", 30)
	f.SetColWidth(RestaurantSheet, "F", "F", 40)
	f.SetColWidth(MenuSheet, "A", "B", 20)
	f.SetColWidth(MenuSheet, "E", "E", 40)

	menuRow := 2
	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			rec.Name,
			rec.Rating,
			strings.Join(rec.Categories, ", "),
			rec.KakaoURL,
			rec.Visited,
			rec.Description,
		}
		if err := f.SetSheetRow(RestaurantSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write restaurant %q: %w", rec.Name, err)
		}

		for _, m := range rec.Menus {
			cell, _ := excelize.CoordinatesToCellName(1, menuRow)
			values := []interface{}{rec.Name, m.Name, m.Rating, m.Price, m.Description, m.Visited}
			if err := f.SetSheetRow(MenuSheet, cell, &values); err != nil {
				return nil, fmt.Errorf("write menu %q: %w", m.Name, err)
			}
			menuRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheetName string, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &values); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheetName, "A1", last, style)
}

// Decode reads records written by Encode. The menu sheet is optional.
func Decode(r io.Reader) ([]sheet.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheetName := RestaurantSheet
	if idx, _ := f.GetSheetIndex(RestaurantSheet); idx < 0 {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	records := []sheet.Record{}
	byName := map[string]int{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := cellAt(row, 0)
		if name == "" {
			continue
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("row %d: duplicate restaurant %q", i+1, name)
		}
		byName[name] = len(records)
		records = append(records, sheet.Record{
			Name:        name,
			Rating:      sheet.ReadRating(cellAt(row, 1)),
			Categories:  sheet.ReadTags(strings.Split(cellAt(row, 2), ",")),
			KakaoURL:    cellAt(row, 3),
			Visited:     readBool(cellAt(row, 4)),
			Description: cellAt(row, 5),
			Menus:       []sheet.Menu{},
		})
	}

	if idx, _ := f.GetSheetIndex(MenuSheet); idx < 0 {
		return records, nil
	}
	menuRows, err := f.GetRows(MenuSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu rows: %w", err)
	}
	for i, row := range menuRows {
		if i == 0 || cellAt(row, 1) == "" {
			continue
		}
		owner, ok := byName[cellAt(row, 0)]
		if !ok {
			return nil, fmt.Errorf("menu row %d: unknown restaurant %q", i+1, cellAt(row, 0))
		}
		records[owner].Menus = append(records[owner].Menus, sheet.Menu{
			Name:        cellAt(row, 1),
			Rating:      sheet.ReadRating(cellAt(row, 2)),
			Price:       sheet.ReadPrice(cellAt(row, 3)),
			Description: cellAt(row, 4),
			Visited:     readBool(cellAt(row, 5)),
		})
	}
	return records, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "o", "y", "yes":
		return true
	}
	return false
}
