package model

import "strings"

// SiteMeta is the content of site.json.
type SiteMeta struct {
	YourName  string `json:"yourName"`
	LabName   string `json:"labName"`
	Copyright string `json:"copyright"`
}

// FooterText joins the short and full names, or returns "" unless both are
// set.
func (m SiteMeta) FooterText() string {
	name := strings.TrimSpace(m.YourName)
	full := strings.TrimSpace(m.LabName)
	if name == "" || full == "" {
		return ""
	}
	return name + " · " + full
}
