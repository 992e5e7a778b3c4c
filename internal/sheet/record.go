package sheet

// Record 저장 API로 전송되는 식당 한 건
type Record struct {
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	Categories  []string `json:"categories"`
	KakaoURL    string   `json:"kakao_url"`
	Visited     bool     `json:"visited"`
	Description string   `json:"description"`
	Menus       []Menu   `json:"menus"`
}

// Menu 식당에 속한 메뉴 한 건
type Menu struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	Price       int     `json:"price"`
	Description string  `json:"description"`
	Visited     bool    `json:"visited"`
}

// Payload 한 번의 저장 호출로 보내는 변경 묶음
type Payload struct {
	New    []Record `json:"new"`
	Update []Record `json:"update"`
	Delete []string `json:"delete"`
}

// NewPayload returns a payload whose lists encode as [] rather than null.
func NewPayload() Payload {
	return Payload{
		New:    []Record{},
		Update: []Record{},
		Delete: []string{},
	}
}

// IsEmpty reports whether the payload carries no changes.
func (p Payload) IsEmpty() bool {
	return len(p.New) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}
