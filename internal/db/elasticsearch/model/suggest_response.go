package model

// SuggestEntry is one analyzed token span of the suggest text with its corrections.
type SuggestEntry struct {
	Text    string          `json:"text"`
	Offset  int             `json:"offset"`
	Length  int             `json:"length"`
	Options []SuggestOption `json:"options"`
}

type SuggestOption struct {
	Text        string  `json:"text"`
	Highlighted string  `json:"highlighted,omitempty"`
	Score       float64 `json:"score"`
}
