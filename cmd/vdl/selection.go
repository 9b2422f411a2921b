package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// parseSelection turns "1,3,5-7" into sorted zero-based indices. Every
// number must lie in 1..count.
func parseSelection(sel string, count int) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		first, last, isRange := strings.Cut(part, "-")
		from, err := parseEntry(first, count)
		if err != nil {
			return nil, err
		}
		to := from
		if isRange {
			if to, err = parseEntry(last, count); err != nil {
				return nil, err
			}
			if to < from {
				return nil, fmt.Errorf("invalid range %q", part)
			}
		}
		for i := from; i <= to; i++ {
			seen[i-1] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("empty selection %q", sel)
	}

	indices := make([]int, 0, len(seen))
	for i := range seen {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	return indices, nil
}

func parseEntry(s string, count int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid entry number %q", s)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("entry %d out of range 1-%d", n, count)
	}
	return n, nil
}
