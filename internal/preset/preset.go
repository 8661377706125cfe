// Package preset holds the built-in search presets and default criteria.
package preset

import (
	"fmt"
	"sort"
	"strings"
)

// Names of the built-in presets.
const (
	QA      = "qa"
	Systems = "systems"
)

var builtin = map[string][]string{
	QA: {
		"Senior QA Engineer",
		"Senior Test Engineer",
		"QA Lead",
		"Senior Quality Engineer",
		"SDET",
	},
	Systems: {
		"Systems Test Engineer",
		"Validation Engineer",
		"SI&T Engineer",
		"Integration & Test Engineer",
	},
}

var descriptions = map[string]string{
	QA:      "Senior QA / Test scan",
	Systems: "Systems / Validation scan",
}

// Default search criteria used when the config leaves a field empty.
var (
	DefaultKeywords = []string{
		"Senior QA Engineer",
		"Senior Test Engineer",
		"QA Lead",
		"Senior Quality Engineer",
		"SDET",
		"Test Automation Engineer",
		"Systems Test Engineer",
		"Validation Engineer",
		"Integration & Test Engineer",
	}
	DefaultTechBoosters = []string{
		"Python", "Java", "Selenium", "Playwright", "Cypress",
		"API testing", "Postman", "CI/CD", "AWS", "Autonomous", "EV", "Aerospace",
	}
	// KnownLocations are the locations offered for selection.
	KnownLocations   = []string{"Remote", "San Jose, CA", "San Francisco, CA", "Bay Area, CA"}
	DefaultLocations = []string{"Remote", "San Jose, CA"}
	DefaultBoards    = []string{
		"https://jobs.lever.co/wayve",
		"https://jobs.lever.co/nuro",
		"https://boards.greenhouse.io/lucidmotors",
		"https://boards.greenhouse.io/andurilindustries",
	}
)

// Preset is a named set of keyword phrases for one kind of search.
type Preset struct {
	Name        string
	Description string
	Keywords    []string
}

// Set resolves preset names against the built-ins plus any configured
// presets. Configured presets override built-ins of the same name.
type Set struct {
	presets map[string]Preset
}

// NewSet builds a Set from the built-ins and the configured overrides.
// Names are case-insensitive.
func NewSet(custom map[string][]string) *Set {
	s := &Set{presets: make(map[string]Preset, len(builtin)+len(custom))}
	for name, kws := range builtin {
		s.presets[name] = Preset{Name: name, Description: descriptions[name], Keywords: clone(kws)}
	}
	for name, kws := range custom {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		s.presets[key] = Preset{Name: key, Description: "custom", Keywords: cleanKeywords(kws)}
	}
	return s
}

// Lookup returns the named preset.
func (s *Set) Lookup(name string) (Preset, error) {
	p, ok := s.presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(s.Names(), ", "))
	}
	p.Keywords = clone(p.Keywords)
	return p, nil
}

// Names returns every preset name, built-ins first then the rest sorted.
func (s *Set) Names() []string {
	var extra []string
	for name := range s.presets {
		if _, ok := builtin[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append([]string{QA, Systems}, extra...)
}

// All returns every preset in Names order.
func (s *Set) All() []Preset {
	names := s.Names()
	out := make([]Preset, 0, len(names))
	for _, n := range names {
		p, _ := s.Lookup(n)
		out = append(out, p)
	}
	return out
}

func cleanKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
