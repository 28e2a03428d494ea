package model

import (
	"html/template"
)

// Page is a host page collected from the content directory.
type Page struct {
	Title       string
	SourcePath  string
	Permalink   string
	Layout      string
	Markdown    bool
	ContentHTML template.HTML
	Frontmatter map[string]interface{}
}

// Site holds site-wide data passed to layouts alongside each page.
type Site struct {
	Title   string
	BaseURL string
	Pages   []*Page
}
