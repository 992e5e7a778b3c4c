package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arch-spatula/jmc/internal/sheet"
)

// StringArray는 카테고리 목록을 JSON 텍스트 컬럼으로 저장하기 위한 커스텀 타입
// postgres/sqlite 양쪽에서 같은 스키마를 쓴다
type StringArray []string

// Value는 driver.Valuer 인터페이스 구현
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan은 database/sql.Scanner 인터페이스 구현
func (s *StringArray) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = StringArray{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan StringArray")
	}
	if len(raw) == 0 {
		*s = StringArray{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Restaurant 식당. 이름이 식별자 역할을 한다
type Restaurant struct {
	ID          uint        `gorm:"primarykey" json:"-"`
	Name        string      `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Rating      float64     `gorm:"not null;default:0" json:"rating"`
	Categories  StringArray `gorm:"type:text;not null" json:"categories"`
	KakaoURL    string      `gorm:"type:varchar(500);not null" json:"kakao_url"`
	Visited     bool        `gorm:"not null;default:false" json:"visited"`
	Description string      `gorm:"type:text" json:"description"`
	Menus       []Menu      `gorm:"foreignKey:RestaurantID" json:"menus"`
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// Menu 식당에 속한 메뉴. Position으로 표시 순서를 유지한다
type Menu struct {
	ID           uint    `gorm:"primarykey" json:"-"`
	RestaurantID uint    `gorm:"index;not null" json:"-"`
	Position     int     `gorm:"not null;default:0" json:"-"`
	Name         string  `gorm:"type:varchar(200);not null" json:"name"`
	Rating       float64 `gorm:"not null;default:0" json:"rating"`
	Price        int     `gorm:"not null;default:0" json:"price"`
	Description  string  `gorm:"type:text" json:"description"`
	Visited      bool    `gorm:"not null;default:false" json:"visited"`
}

func (Menu) TableName() string {
	return "menus"
}

// validRating 0~5, 0.5 단위
func validRating(rating float64) bool {
	if rating < 0 || rating > 5 {
		return false
	}
	return rating*2 == float64(int(rating*2))
}

// Validate 저장 전 검증. 메시지는 편집기에 그대로 표시된다
func (r *Restaurant) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name은 필수입니다")
	}
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("rating은 0~5 사이여야 합니다: %s", r.Name)
	}
	if !validRating(r.Rating) {
		return fmt.Errorf("rating은 0.5 단위여야 합니다: %s", r.Name)
	}
	if r.Categories == nil {
		return fmt.Errorf("categories 필드가 없습니다: %s", r.Name)
	}
	if r.KakaoURL == "" {
		return fmt.Errorf("kakao_url은 필수입니다: %s", r.Name)
	}
	for i, m := range r.Menus {
		if m.Name == "" {
			return fmt.Errorf("menus[%d]: 메뉴 이름은 필수입니다: %s", i, r.Name)
		}
		if m.Price < 0 {
			return fmt.Errorf("menus[%d]: 가격은 0 이상이어야 합니다: %s", i, r.Name)
		}
		if !validRating(m.Rating) {
			return fmt.Errorf("menus[%d]: rating은 0~5 사이 0.5 단위여야 합니다: %s", i, r.Name)
		}
	}
	return nil
}

// ToRecord converts a persisted restaurant into the editor record shape
func (r *Restaurant) ToRecord() sheet.Record {
	categories := make([]string, len(r.Categories))
	copy(categories, r.Categories)

	menus := make([]sheet.Menu, 0, len(r.Menus))
	for _, m := range r.Menus {
		menus = append(menus, sheet.Menu{
			Name:        m.Name,
			Rating:      m.Rating,
			Price:       m.Price,
			Description: m.Description,
			Visited:     m.Visited,
		})
	}

	return sheet.Record{
		Name:        r.Name,
		Rating:      r.Rating,
		Categories:  categories,
		KakaoURL:    r.KakaoURL,
		Visited:     r.Visited,
		Description: r.Description,
		Menus:       menus,
	}
}

// FromRecord builds an unsaved restaurant; menu positions follow record order
func FromRecord(rec sheet.Record) Restaurant {
	var categories StringArray
	if rec.Categories != nil {
		categories = make(StringArray, len(rec.Categories))
		copy(categories, rec.Categories)
	}

	menus := make([]Menu, 0, len(rec.Menus))
	for i, m := range rec.Menus {
		menus = append(menus, Menu{
			Position:    i,
			Name:        m.Name,
			Rating:      m.Rating,
			Price:       m.Price,
			Description: m.Description,
			Visited:     m.Visited,
		})
	}

	return Restaurant{
		Name:        rec.Name,
		Rating:      rec.Rating,
		Categories:  categories,
		KakaoURL:    rec.KakaoURL,
		Visited:     rec.Visited,
		Description: rec.Description,
		Menus:       menus,
	}
}

// ToRecords converts a list preserving order
func ToRecords(restaurants []Restaurant) []sheet.Record {
	records := make([]sheet.Record, 0, len(restaurants))
	for i := range restaurants {
		records = append(records, restaurants[i].ToRecord())
	}
	return records
}
