package domain

import (
	"fmt"
	"strings"
)

// Species is the product category axis every search is pinned to.
type Species string

// Supported species.
const (
	Dog Species = "Dog"
	Cat Species = "Cat"
)

// ParseSpecies normalizes a caller-supplied species value to its canonical
// capitalization. Anything other than dog or cat (case-insensitive) is rejected.
func ParseSpecies(s string) (Species, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dog":
		return Dog, nil
	case "cat":
		return Cat, nil
	}
	return "", fmt.Errorf("%w: species must be 'Dog' or 'Cat', got %q", ErrInvalidSpecies, s)
}

// String returns the canonical species value.
func (s Species) String() string { return string(s) }

// Lower returns the lowercase species value, used in synthesized query text.
func (s Species) Lower() string { return strings.ToLower(string(s)) }
