// Package carousel holds the index state behind the people pager and the hero
// slider. Pages are assembled at index 0, and the navigation tables computed
// here are published with the page so the browser walks the same states.
package carousel

import (
	"fmt"
)

// DefaultPageSize is used when a pager is given a non-positive page size.
const DefaultPageSize = 3

// Pager pages through a fixed number of cards, wrapping at both ends.
type Pager struct {
	index    int
	total    int
	pageSize int
}

// NewPager creates a pager at page 0.
func NewPager(total, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return &Pager{total: total, pageSize: pageSize}
}

// PageCount is ceil(total/pageSize), never less than 1.
func (p *Pager) PageCount() int {
	return max(1, (p.total+p.pageSize-1)/p.pageSize)
}

// Index returns the current page.
func (p *Pager) Index() int {
	return p.index
}

// Next moves forward one page and returns the new index.
func (p *Pager) Next() int {
	p.index = (p.index + 1) % p.PageCount()
	return p.index
}

// Prev moves back one page and returns the new index.
func (p *Pager) Prev() int {
	total := p.PageCount()
	p.index = (p.index - 1 + total) % total
	return p.index
}

// Visible reports whether card i is on the current page.
func (p *Pager) Visible(i int) bool {
	start := p.index * p.pageSize
	return i >= start && i < start+p.pageSize
}

// PageOf returns the page card i is shown on.
func (p *Pager) PageOf(i int) int {
	return i / p.pageSize
}

// Step is where the prev and next buttons lead from one page.
type Step struct {
	Prev int `json:"prev"`
	Next int `json:"next"`
}

// Steps returns the navigation table, one entry per page. The pager's own
// index is left unchanged.
func (p *Pager) Steps() []Step {
	start := p.index
	defer func() { p.index = start }()

	steps := make([]Step, p.PageCount())
	for i := range steps {
		p.index = i
		steps[i].Prev = p.Prev()
		p.index = i
		steps[i].Next = p.Next()
	}
	return steps
}

// Slider cycles through slides.
type Slider struct {
	index int
	count int
}

// NewSlider creates a slider at slide 0.
func NewSlider(count int) *Slider {
	if count < 0 {
		count = 0
	}
	return &Slider{count: count}
}

// Count returns the number of slides.
func (s *Slider) Count() int {
	return s.count
}

// Index returns the active slide.
func (s *Slider) Index() int {
	return s.index
}

// Set moves to slide i, wrapping in both directions, and returns the new
// index. A slider without slides stays at 0.
func (s *Slider) Set(i int) int {
	if s.count == 0 {
		s.index = 0
		return 0
	}
	s.index = ((i % s.count) + s.count) % s.count
	return s.index
}

// Next advances one slide.
func (s *Slider) Next() int {
	return s.Set(s.index + 1)
}

// Transform is the CSS transform that shows the active slide.
func (s *Slider) Transform() string {
	return fmt.Sprintf("translateX(-%d%%)", s.index*100)
}

// Frame is one slide's state: the transform that shows it and the slide the
// next tick moves to.
type Frame struct {
	Transform string
	Next      int
}

// Frames returns one frame per slide. The slider's own index is left
// unchanged.
func (s *Slider) Frames() []Frame {
	start := s.index
	defer func() { s.index = start }()

	frames := make([]Frame, s.count)
	for i := range frames {
		s.Set(i)
		frames[i].Transform = s.Transform()
		frames[i].Next = s.Next()
	}
	return frames
}
