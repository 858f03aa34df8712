// Package parking defines the parking locations shown on the map.
package parking

import (
	"fmt"
	"strings"
)

// Category is the kind of a parking location. The set is closed.
type Category int

const (
	// Private marks spots reserved for residents or owners.
	Private Category = iota
	// Paid marks metered spots.
	Paid
	// Free marks spots without a fee.
	Free
)

var categoryNames = [...]string{
	Private: "private",
	Paid:    "paid",
	Free:    "free",
}

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{Private, Paid, Free}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= Private && c <= Free
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// ParseCategory parses a category by its English name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
