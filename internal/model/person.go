package model

import "strings"

// Person is a lab member as listed in people.json.
type Person struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Title       string `json:"title"`
	Affiliation string `json:"affiliation"`
	Email       string `json:"email"`
	Interests   string `json:"interests"`
	Website     string `json:"website"`
	Photo       string `json:"photo"`
}

// HasDisplayName reports whether the person has a non-blank name. Nameless
// records are never rendered.
func (p Person) HasDisplayName() bool {
	return strings.TrimSpace(p.Name) != ""
}

// RoleGroup is the people sharing one role, in input order.
type RoleGroup struct {
	Role   string
	People []Person
}

// Named returns the members with a display name.
func (g RoleGroup) Named() []Person {
	return NamedPeople(g.People)
}

// NamedPeople filters out records without a display name.
func NamedPeople(people []Person) []Person {
	out := make([]Person, 0, len(people))
	for _, p := range people {
		if p.HasDisplayName() {
			out = append(out, p)
		}
	}
	return out
}
