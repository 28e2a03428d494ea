// Package publications merges the first-author and co-author lists into
// year blocks.
package publications

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Bitlatte/labsite/internal/model"
)

// Decode reads a publications list and tags every entry with kind. The
// payload must be an array.
func Decode(data []byte, kind model.Authorship) ([]model.Publication, error) {
	if !model.IsArray(data) {
		return nil, fmt.Errorf("%s-author publications: expected a JSON array", kind)
	}

	var items model.List[model.Publication]
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s-author publications: %w", kind, err)
	}

	for i := range items {
		items[i].Kind = kind
	}
	return items, nil
}

// Group buckets both lists by year, newest first. Within a year first-author
// entries come before co-author entries, each in input order. Entries without
// a usable year are dropped.
func Group(first, co []model.Publication) []model.YearGroup {
	byYear := make(map[int]*model.YearGroup)
	var years []int

	add := func(items []model.Publication, kind model.Authorship) {
		for _, item := range items {
			year := int(item.Year)
			if year == 0 {
				continue
			}
			item.Kind = kind
			g, ok := byYear[year]
			if !ok {
				g = &model.YearGroup{Year: year}
				byYear[year] = g
				years = append(years, year)
			}
			g.Items = append(g.Items, item)
		}
	}

	add(first, model.FirstAuthor)
	add(co, model.CoAuthor)

	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	out := make([]model.YearGroup, 0, len(years))
	for _, year := range years {
		out = append(out, *byYear[year])
	}
	return out
}
