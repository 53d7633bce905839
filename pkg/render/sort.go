package render

import "slices"

// SortIndices sorts the first n entries of idx in place with cmp, which
// compares two stored values (typically triangle offsets) the way
// strings.Compare does. Entries past n are left untouched. Equal elements
// keep their relative order so draw order is stable from frame to frame.
func SortIndices(idx []int, n int, cmp func(a, b int) int) {
	n = min(n, len(idx))
	if n < 2 {
		return
	}
	slices.SortStableFunc(idx[:n], cmp)
}
