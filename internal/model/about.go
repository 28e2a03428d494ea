package model

// AboutData is the content of about.json.
type AboutData struct {
	Title      string       `json:"title"`
	Paragraphs List[string] `json:"paragraphs"`
}
