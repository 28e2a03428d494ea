package model

// ResearchItem is a research card.
type ResearchItem struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Tag   string `json:"tag"`
	Image string `json:"image"`
}
