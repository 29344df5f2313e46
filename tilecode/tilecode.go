// Package tilecode defines the textual addresses of triangular facets:
// a letter A-T naming one of the twenty base facets, followed by one
// subdivision digit 1-9 per level.
package tilecode

import (
	"errors"
	"fmt"
	"strings"
)

// NumFacets is the number of base facets, the faces of the icosahedron.
const NumFacets = 20

// Code addresses a facet, e.g. "M" (a base facet) or "M713289" (six levels
// down). The letter is case-insensitive, the digits run 1-9 (0 never occurs).
type Code string

// The only two ways a code can be malformed. Parse wraps these with the
// offending character.
var (
	ErrFacetLetter = errors.New("invalid facet letter")
	ErrDigit       = errors.New("invalid subdivision digit")
)

// Parse splits a code into its facet index (0-19) and subdivision digits.
// It is the single validation point; every lookup routes through it.
func Parse(c Code) (facet int, digits []int, err error) {
	if c == "" {
		return 0, nil, fmt.Errorf("%w: empty code", ErrFacetLetter)
	}
	s := strings.ToUpper(string(c))
	if s[0] < 'A' || s[0] > 'T' {
		return 0, nil, fmt.Errorf("%w: %q", ErrFacetLetter, s[0])
	}
	facet = int(s[0] - 'A')
	if len(s) == 1 {
		return facet, nil, nil
	}
	digits = make([]int, len(s)-1)
	for i := 1; i < len(s); i++ {
		if s[i] < '1' || s[i] > '9' {
			return 0, nil, fmt.Errorf("%w: %q at position %d", ErrDigit, s[i], i)
		}
		digits[i-1] = int(s[i] - '0')
	}
	return facet, digits, nil
}

// Normalize upper-cases the facet letter. It does not validate.
func (c Code) Normalize() Code {
	return Code(strings.ToUpper(string(c)))
}

// Depth is the number of subdivision digits, 0 for a base facet.
func (c Code) Depth() int {
	if c == "" {
		return 0
	}
	return len(c) - 1
}

// Parent strips the last digit. The bool is false for a base facet, which
// has no parent.
func (c Code) Parent() (Code, bool) {
	if len(c) <= 1 {
		return c, false
	}
	return c[:len(c)-1], true
}

// Child appends a subdivision digit 1-9. Anything else panics.
func (c Code) Child(digit int) Code {
	if digit < 1 || digit > 9 {
		panic(fmt.Errorf(`no child digit %v`, digit))
	}
	return c + Code(rune('0'+digit))
}

// Children enumerates the nine direct children in digit order.
func (c Code) Children() [9]Code {
	var children [9]Code
	for i := range children {
		children[i] = c.Child(i + 1)
	}
	return children
}

// BaseCodes lists the twenty base facet codes "A" through "T".
func BaseCodes() [NumFacets]Code {
	var codes [NumFacets]Code
	for i := range codes {
		codes[i] = Code(rune('A' + i))
	}
	return codes
}
