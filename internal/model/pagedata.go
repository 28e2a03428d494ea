package model

import "html/template"

// PageData is the value layouts are executed with.
type PageData struct {
	Site    *Site
	Page    *Page
	Content template.HTML
	Params  map[string]interface{}
}
