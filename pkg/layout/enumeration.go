// Package layout assigns physical hall/aisle/rack/shelf-unit
// coordinates to shelves from four independently parsed enumerations.
package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	barePattern  = regexp.MustCompile(`^\d+$`)
	rangePattern = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
)

// ParseEnumeration parses one physical-layout input field. Accepted
// forms: a bare integer N (expands to 1..N), an explicit range "a-b",
// or a comma/newline-separated list. A blank input yields a single
// unnamed value, so a site without hall naming still gets a layout.
func ParseEnumeration(input string) ([]string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return []string{""}, nil
	}

	if barePattern.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("enumeration %q: count must be a positive integer", input)
		}
		out := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, strconv.Itoa(i))
		}
		return out, nil
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if a > b {
			return nil, fmt.Errorf("enumeration %q: range start exceeds end", input)
		}
		out := make([]string, 0, b-a+1)
		for i := a; i <= b; i++ {
			out = append(out, strconv.Itoa(i))
		}
		return out, nil
	}

	items := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	var out []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{""}, nil
	}
	return out, nil
}

// ParseIntEnumeration parses an enumeration whose values must be
// integers (rack numbers, shelf units).
func ParseIntEnumeration(input string) ([]int, error) {
	items, err := ParseEnumeration(input)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("enumeration %q: %q is not an integer", input, item)
		}
		out = append(out, n)
	}
	return out, nil
}
