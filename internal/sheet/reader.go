package sheet

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// contenteditable은 줄바꿈을 <br> 또는 <div>/<p> 블록으로 표현한다
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>|<(div|p)(\s[^>]*)?>`)
	markupTag    = regexp.MustCompile(`<[^>]*>`)

	entityDecoder = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#34;", `"`,
		"&#39;", "'",
		"&#x27;", "'",
		"&nbsp;", " ",
		"&amp;", "&",
	)
)

// ReadText 한 줄짜리 텍스트 셀 값
func ReadText(raw string) string {
	return strings.TrimSpace(raw)
}

// ReadMultiline converts contenteditable markup into plain text: line-break
// markup becomes "\n", remaining tags are dropped and entities decoded.
func ReadMultiline(markup string) string {
	text := lineBreakTag.ReplaceAllString(markup, "\n")
	text = markupTag.ReplaceAllString(text, "")
	text = entityDecoder.Replace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}

// RenderMultiline is the inverse of ReadMultiline for plain text.
func RenderMultiline(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}

// ReadTags 태그 칩 목록을 순서대로 읽는다. 공백뿐인 태그는 버리고 중복은 유지한다.
func ReadTags(chips []string) []string {
	tags := make([]string, 0, len(chips))
	for _, chip := range chips {
		if tag := strings.TrimSpace(chip); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ReadRating 평점 select 값. 컨트롤이 없거나 숫자가 아니면 0.
// 0~5 범위 보정은 하지 않는다.
func ReadRating(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	rating, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0
	}
	return rating
}

// ReadPrice 천 단위 콤마를 제거한 정수 가격. 비었거나 잘못된 값은 0.
func ReadPrice(text string) int {
	v := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if v == "" {
		return 0
	}
	price, err := strconv.Atoi(v)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

// ReadMenu 메뉴 행을 읽는다. 삭제 체크된 메뉴는 ok=false로 건너뛰게 한다.
func ReadMenu(cells MenuCells) (Menu, bool) {
	if cells.Delete {
		return Menu{}, false
	}
	return Menu{
		Name:        ReadText(cells.Name),
		Rating:      ReadRating(cells.Rating),
		Price:       ReadPrice(cells.Price),
		Description: ReadMultiline(cells.Description),
		Visited:     cells.Visited,
	}, true
}

// ReadRow 식당 행과 그 아래 메뉴 행들을 현재 화면 상태 그대로 읽는다.
func ReadRow(row *Row) Record {
	record := Record{
		Name:        ReadText(row.Cells.Name),
		Rating:      ReadRating(row.Cells.Rating),
		Categories:  ReadTags(row.Cells.Categories),
		KakaoURL:    ReadText(row.Cells.KakaoURL),
		Visited:     row.Cells.Visited,
		Description: ReadMultiline(row.Cells.Description),
		Menus:       make([]Menu, 0, len(row.Menus)),
	}
	for _, menuRow := range row.Menus {
		if menu, ok := ReadMenu(menuRow.Cells); ok {
			record.Menus = append(record.Menus, menu)
		}
	}
	return record
}
