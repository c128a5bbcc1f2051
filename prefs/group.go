// This file is part of Framepace.
//
// Framepace is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Framepace is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Framepace.  If not, see <https://www.gnu.org/licenses/>.


package prefs

import (
	"fmt"
	"strings"
)

// Group is a named collection of preference values.
type Group struct {
	entries map[string]pref
	keys    []string
}

// NewGroup is the preferred method of initialisation for the Group type.
func NewGroup() *Group {
	return &Group{
		entries: make(map[string]pref),
	}
}

// Add preference value to the group. Adding a key that already exists
// replaces the existing value.
func (g *Group) Add(key string, p pref) error {
	if strings.ContainsAny(key, ":;") || strings.TrimSpace(key) != key || key == "" {
		return fmt.Errorf("prefs: illegal key %q", key)
	}
	if _, ok := g.entries[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.entries[key] = p
	return nil
}

// Get returns the preference value for the key.
func (g *Group) Get(key string) (Value, bool) {
	p, ok := g.entries[key]
	if !ok {
		return nil, false
	}
	return p.Get(), true
}

// Set the value of a single preference by key.
func (g *Group) Set(key string, v Value) error {
	p, ok := g.entries[key]
	if !ok {
		return fmt.Errorf("prefs: unknown key %q", key)
	}
	if err := p.Set(v); err != nil {
		return fmt.Errorf("prefs: %s: %w", key, err)
	}
	return nil
}

// SetString sets every value named in a string of key/value pairs. Pairs are
// separated by a semicolon and keys are separated from values by a double
// colon:
//
//	fps::60; background::15
//
// Values are set in the order they appear in the string. The first error
// stops the processing of the string. Values set before the error keep their
// new values.
func (g *Group) SetString(s string) error {
	for _, kv := range strings.Split(s, ";") {
		if strings.TrimSpace(kv) == "" {
			continue
		}

		k, v, ok := strings.Cut(kv, "::")
		if !ok {
			return fmt.Errorf("prefs: malformed entry %q", strings.TrimSpace(kv))
		}

		err := g.Set(strings.TrimSpace(k), strings.TrimSpace(v))
		if err != nil {
			return err
		}
	}
	return nil
}

// Reset every value in the group.
func (g *Group) Reset() error {
	for _, k := range g.keys {
		if err := g.entries[k].Reset(); err != nil {
			return fmt.Errorf("prefs: %s: %w", k, err)
		}
	}
	return nil
}

// String returns the group in the form accepted by SetString(). Keys are in
// the order they were added.
func (g *Group) String() string {
	s := strings.Builder{}
	for _, k := range g.keys {
		s.WriteString(fmt.Sprintf("%s::%s; ", k, g.entries[k].String()))
	}
	return strings.TrimSuffix(s.String(), "; ")
}
