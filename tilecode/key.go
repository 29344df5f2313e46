package tilecode

import (
	"errors"
	"fmt"
)

// MaxKeyDepth is the deepest code a Key can hold: the facet takes the top
// 5 bits, each digit 4 bits, and the depth the low 4 bits, leaving room for
// 13 digits in a uint64. Deeper codes still look up fine, they just have no
// Key form.
const MaxKeyDepth = 13

// ErrKeyDepth flags a code with more than MaxKeyDepth digits.
var ErrKeyDepth = errors.New("code too deep for a key")

// Key is a compact sortable form of a Code. The facet index sits in the top
// five bits, the digits follow as nibbles aligned to the top, and the depth
// fills the low four bits. Numeric order on Key is pre-order traversal
// order: a parent sorts right before its first child, so
// "M7" < "M71" < "M719" < "M72" < "M8".
type Key uint64

// NewKey encodes a code. It validates like Parse and additionally fails
// with ErrKeyDepth when the code has more than MaxKeyDepth digits.
func NewKey(c Code) (Key, error) {
	facet, digits, err := Parse(c)
	if err != nil {
		return 0, err
	}
	if len(digits) > MaxKeyDepth {
		return 0, fmt.Errorf("%w: %d digits, max %d", ErrKeyDepth, len(digits), MaxKeyDepth)
	}
	k := uint64(facet) << 59
	for i, d := range digits {
		k |= uint64(d) << (55 - 4*i)
	}
	k |= uint64(len(digits))
	return Key(k), nil
}

// MustNewKey is NewKey for codes known to be valid.
func MustNewKey(c Code) Key {
	k, err := NewKey(c)
	if err != nil {
		panic(err)
	}
	return k
}

// Depth is the number of subdivision digits encoded.
func (k Key) Depth() int {
	return int(k & 0xf)
}

// Facet is the base facet index 0-19.
func (k Key) Facet() int {
	return int(k >> 59)
}

// Digit returns the subdivision digit at the given level, 1 up to Depth.
func (k Key) Digit(level int) int {
	return int(k>>(59-4*level)) & 0xf
}

// Code decodes the key back to its textual form.
func (k Key) Code() Code {
	b := make([]byte, 0, k.Depth()+1)
	b = append(b, 'A'+byte(k.Facet()))
	for level := 1; level <= k.Depth(); level++ {
		b = append(b, '0'+byte(k.Digit(level)))
	}
	return Code(b)
}

// Contains reports whether o addresses k itself or a facet inside it.
func (k Key) Contains(o Key) bool {
	if o.Depth() < k.Depth() {
		return false
	}
	shift := 59 - 4*k.Depth()
	return uint64(k)>>shift == uint64(o)>>shift
}
