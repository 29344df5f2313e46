package tilecode

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	type parsed struct {
		Facet  int
		Digits []int
	}
	tests := []struct {
		name    string
		code    Code
		want    parsed
		wantErr error
	}{
		{name: "base facet", code: "A", want: parsed{Facet: 0}},
		{name: "last facet", code: "T", want: parsed{Facet: 19}},
		{name: "six levels", code: "M713289", want: parsed{Facet: 12, Digits: []int{7, 1, 3, 2, 8, 9}}},
		{name: "lowercase letter", code: "m713289", want: parsed{Facet: 12, Digits: []int{7, 1, 3, 2, 8, 9}}},
		{name: "empty", code: "", wantErr: ErrFacetLetter},
		{name: "letter past T", code: "Z1", wantErr: ErrFacetLetter},
		{name: "digit as letter", code: "1", wantErr: ErrFacetLetter},
		{name: "zero digit", code: "M0", wantErr: ErrDigit},
		{name: "letter as digit", code: "M7X", wantErr: ErrDigit},
		{name: "space in digits", code: "M7 1", wantErr: ErrDigit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facet, digits, err := Parse(tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.code, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			got := parsed{Facet: facet, Digits: digits}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.code, diff)
			}
		})
	}
}

func TestDepthAndParent(t *testing.T) {
	tests := []struct {
		code      Code
		depth     int
		parent    Code
		hasParent bool
	}{
		{code: "A", depth: 0, parent: "A", hasParent: false},
		{code: "M7", depth: 1, parent: "M", hasParent: true},
		{code: "M713289", depth: 6, parent: "M71328", hasParent: true},
		{code: "", depth: 0, parent: "", hasParent: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.Depth(); got != tt.depth {
				t.Errorf("Depth() = %d, want %d", got, tt.depth)
			}
			parent, ok := tt.code.Parent()
			if parent != tt.parent || ok != tt.hasParent {
				t.Errorf("Parent() = %q, %v, want %q, %v", parent, ok, tt.parent, tt.hasParent)
			}
		})
	}
}

func TestChildren(t *testing.T) {
	want := [9]Code{"M711", "M712", "M713", "M714", "M715", "M716", "M717", "M718", "M719"}
	got := Code("M71").Children()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Children() mismatch (-want +got):\n%s", diff)
	}
}

func TestChildPanicsOnBadDigit(t *testing.T) {
	for _, digit := range []int{0, 10, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Child(%d) did not panic", digit)
				}
			}()
			Code("M").Child(digit)
		}()
	}
}

func TestBaseCodes(t *testing.T) {
	codes := BaseCodes()
	if len(codes) != NumFacets {
		t.Fatalf("BaseCodes() has %d codes, want %d", len(codes), NumFacets)
	}
	joined := ""
	for _, c := range codes {
		joined += string(c)
	}
	if joined != "ABCDEFGHIJKLMNOPQRST" {
		t.Errorf("BaseCodes() = %q, want A through T", joined)
	}
}

func TestNormalize(t *testing.T) {
	if got := Code("m713289").Normalize(); got != "M713289" {
		t.Errorf("Normalize() = %q, want %q", got, "M713289")
	}
}
