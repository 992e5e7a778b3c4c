package sheet

import (
	"strconv"
	"strings"
)

// FormatPrice renders a price with thousands separators, e.g. 9000 -> "9,000".
func FormatPrice(price int) string {
	digits := strconv.Itoa(price)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// RatingOption 평점 select의 선택지
type RatingOption struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// RatingOptions 0부터 5까지 0.5 단위 선택지
func RatingOptions() []RatingOption {
	options := make([]RatingOption, 0, 11)
	for i := 0; i <= 10; i++ {
		value := float64(i) * 0.5
		options = append(options, RatingOption{Value: value, Label: RatingLabel(value)})
	}
	return options
}

// RatingLabel 평점을 별 이모지로 표시한다
// 범위를 벗어난 값은 0 또는 5로 본다
func RatingLabel(score float64) string {
	if score >= 5 {
		return "🌟🌟🌟🌟🌟"
	}
	if score <= 0 {
		return "-"
	}

	full := int(score)
	label := strings.Repeat("⭐", full)
	if score != float64(full) {
		label += "(반)"
	}
	return label
}
