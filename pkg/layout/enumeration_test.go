package layout

import (
	"reflect"
	"testing"
)

func TestParseEnumeration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"bare count", "3", []string{"1", "2", "3"}},
		{"single value count", "1", []string{"1"}},
		{"range", "2-5", []string{"2", "3", "4", "5"}},
		{"range with spaces", "2 - 4", []string{"2", "3", "4"}},
		{"degenerate range", "7-7", []string{"7"}},
		{"comma list", "A,B,C", []string{"A", "B", "C"}},
		{"list with spaces", " A , B ", []string{"A", "B"}},
		{"newline list", "east\nwest", []string{"east", "west"}},
		{"mixed separators", "a,b\nc", []string{"a", "b", "c"}},
		{"blank", "", []string{""}},
		{"whitespace only", "   ", []string{""}},
		{"separators only", ",,\n,", []string{""}},
		{"single name", "DH1", []string{"DH1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEnumeration(tt.input)
			if err != nil {
				t.Fatalf("ParseEnumeration(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseEnumeration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseEnumerationErrors(t *testing.T) {
	for _, input := range []string{"0", "5-2"} {
		if _, err := ParseEnumeration(input); err == nil {
			t.Errorf("ParseEnumeration(%q) should fail", input)
		}
	}
}

func TestParseIntEnumeration(t *testing.T) {
	got, err := ParseIntEnumeration("3")
	if err != nil {
		t.Fatalf("ParseIntEnumeration failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("ParseIntEnumeration(3) = %v, want [1 2 3]", got)
	}

	got, err = ParseIntEnumeration("4-6")
	if err != nil {
		t.Fatalf("ParseIntEnumeration failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{4, 5, 6}) {
		t.Errorf("ParseIntEnumeration(4-6) = %v, want [4 5 6]", got)
	}

	if _, err := ParseIntEnumeration("A,B"); err == nil {
		t.Error("ParseIntEnumeration(A,B) should fail")
	}
}
