package model

import (
	"encoding/json"
	"testing"
)

func TestList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"array", `[{"src":"a.png"},{"src":"b.png"}]`, 2},
		{"object", `{"src":"a.png"}`, 0},
		{"string", `"slides"`, 0},
		{"null", `null`, 0},
		{"bad element skipped", `[{"src":"a.png"}, 42, {"src":"c.png"}]`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got List[HeroSlide]
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}

			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestHeroData_LenientFields(t *testing.T) {
	in := `{"title":"Lab","buttons":"nope","meta":[{"label":"Since","value":"2010"}],"slides":null}`

	var hero HeroData
	if err := json.Unmarshal([]byte(in), &hero); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if hero.Title != "Lab" {
		t.Errorf("Title = %q, want Lab", hero.Title)
	}

	if len(hero.Buttons) != 0 || len(hero.Slides) != 0 {
		t.Errorf("expected empty buttons and slides, got %d and %d", len(hero.Buttons), len(hero.Slides))
	}

	if len(hero.Meta) != 1 || hero.Meta[0].Value != "2010" {
		t.Errorf("Meta = %+v, want one entry with value 2010", hero.Meta)
	}
}

func TestYear_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Year
	}{
		{`2024`, 2024},
		{`"2023"`, 2023},
		{`" 2022 "`, 2022},
		{`2021.0`, 2021},
		{`2021.5`, 0},
		{`"in press"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 0},
		{`0`, 0},
	}

	for _, tt := range tests {
		var pub Publication
		if err := json.Unmarshal([]byte(`{"year":`+tt.in+`}`), &pub); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", tt.in, err)
		}

		if pub.Year != tt.want {
			t.Errorf("year %s decoded to %d, want %d", tt.in, pub.Year, tt.want)
		}
	}
}

func TestIsArray(t *testing.T) {
	if !IsArray([]byte("  [1]")) {
		t.Error("IsArray should accept leading whitespace")
	}

	if IsArray([]byte(`{"a":[]}`)) {
		t.Error("IsArray should reject objects")
	}
}

func TestBasePath(t *testing.T) {
	tests := map[string]string{
		"":           "/",
		"/":          "/",
		"/research":  "/research/",
		"/research/": "/research/",
		"people":     "/people/",
	}

	for in, want := range tests {
		if got := BasePath(in); got != want {
			t.Errorf("BasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSiteMeta_FooterText(t *testing.T) {
	tests := []struct {
		meta SiteMeta
		want string
	}{
		{SiteMeta{YourName: "VLab", LabName: "Vision Lab"}, "VLab · Vision Lab"},
		{SiteMeta{YourName: " VLab ", LabName: " Vision Lab "}, "VLab · Vision Lab"},
		{SiteMeta{YourName: "VLab"}, ""},
		{SiteMeta{LabName: "Vision Lab"}, ""},
	}

	for _, tt := range tests {
		if got := tt.meta.FooterText(); got != tt.want {
			t.Errorf("FooterText(%+v) = %q, want %q", tt.meta, got, tt.want)
		}
	}
}
