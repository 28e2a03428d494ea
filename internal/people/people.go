// Package people normalizes people.json into role-ordered groups.
package people

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/model"
)

// ErrInvalidJSON is returned when people.json is not JSON at all.
var ErrInvalidJSON = errors.New("people data is not valid JSON")

// Directory is people.json after normalization.
type Directory struct {
	// Flat is every record in input order, named or not.
	Flat   []model.Person
	Groups []model.RoleGroup
}

// Named returns the flat records that can be displayed.
func (d Directory) Named() []model.Person {
	return model.NamedPeople(d.Flat)
}

// Normalize accepts either a list of people or an object mapping role to a
// list of people. Any other JSON value yields an empty directory.
func Normalize(data []byte, roles []string) (Directory, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Directory{}, nil
	}

	switch data[0] {
	case '[':
		var flat model.List[model.Person]
		if err := json.Unmarshal(data, &flat); err != nil {
			return Directory{}, fmt.Errorf("failed to decode people list: %w", err)
		}
		return Directory{Flat: flat, Groups: GroupByRole(flat, roles)}, nil
	case '{':
		groups, err := decodeByRole(data, roles)
		if err != nil {
			return Directory{}, err
		}
		return Directory{Flat: Flatten(groups), Groups: groups}, nil
	default:
		if !json.Valid(data) {
			return Directory{}, ErrInvalidJSON
		}
		return Directory{}, nil
	}
}

// GroupByRole buckets people by trimmed role. Configured roles come first in
// the configured order, then the Other bucket. People without a role are left
// out.
func GroupByRole(people []model.Person, roles []string) []model.RoleGroup {
	g := newGrouper(roles)
	for _, p := range people {
		role := strings.TrimSpace(p.Role)
		if role == "" {
			continue
		}
		g.add(role, p)
	}
	return g.groups()
}

// Flatten concatenates the groups in order.
func Flatten(groups []model.RoleGroup) []model.Person {
	var out []model.Person
	for _, g := range groups {
		out = append(out, g.People...)
	}
	return out
}

// decodeByRole walks the object in document order so keys keep the order
// they were written in. Values that are not arrays are skipped.
func decodeByRole(data []byte, roles []string) ([]model.RoleGroup, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode people object: %w", err)
	}

	g := newGrouper(roles)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode people object: %w", err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode people for role %q: %w", key, err)
		}
		if !model.IsArray(raw) {
			continue
		}

		var members model.List[model.Person]
		if err := json.Unmarshal(raw, &members); err != nil {
			return nil, fmt.Errorf("failed to decode people for role %q: %w", key, err)
		}
		for _, p := range members {
			p.Role = key
			g.add(key, p)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode people object: %w", err)
	}
	return g.groups(), nil
}

type grouper struct {
	roles   []string
	known   map[string]bool
	buckets map[string][]model.Person
}

func newGrouper(roles []string) *grouper {
	known := make(map[string]bool, len(roles))
	for _, r := range roles {
		known[r] = true
	}
	return &grouper{roles: roles, known: known, buckets: make(map[string][]model.Person)}
}

func (g *grouper) add(role string, p model.Person) {
	if !g.known[role] {
		role = config.OtherRole
	}
	g.buckets[role] = append(g.buckets[role], p)
}

func (g *grouper) groups() []model.RoleGroup {
	out := make([]model.RoleGroup, 0, len(g.buckets))
	for _, role := range g.roles {
		if members, ok := g.buckets[role]; ok {
			out = append(out, model.RoleGroup{Role: role, People: members})
		}
	}
	if members, ok := g.buckets[config.OtherRole]; ok {
		out = append(out, model.RoleGroup{Role: config.OtherRole, People: members})
	}
	return out
}
