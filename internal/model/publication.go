package model

// Authorship tells which list a publication came from.
type Authorship string

// Authorship kinds.
const (
	FirstAuthor Authorship = "first"
	CoAuthor    Authorship = "co"
)

// Publication is one entry of a publications list.
type Publication struct {
	Title   string     `json:"title"`
	Authors string     `json:"authors"`
	Venue   string     `json:"venue"`
	Year    Year       `json:"year"`
	Thumb   string     `json:"thumb"`
	Kind    Authorship `json:"-"`
}

// YearGroup is the publications of one year, first-author entries first.
type YearGroup struct {
	Year  int
	Items []Publication
}
