package bvgraph

// mergeSorted3 merges three disjoint, individually sorted, ascending
// uint64 slices into one sorted slice. A decoded node's successor set
// always partitions exactly into copied-from-reference, interval-expanded,
// and residual-gap values (spec.md §4.1's partition invariant), so a
// straightforward three-pointer merge is always sufficient — no dedup or
// tie-breaking logic is needed.
func mergeSorted3(a, b, c []uint64) []uint64 {
	out := make([]uint64, 0, len(a)+len(b)+len(c))
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) && k < len(c) {
		switch {
		case a[i] <= b[j] && a[i] <= c[k]:
			out = append(out, a[i])
			i++
		case b[j] <= a[i] && b[j] <= c[k]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, c[k])
			k++
		}
	}
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	for i < len(a) && k < len(c) {
		if a[i] <= c[k] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, c[k])
			k++
		}
	}
	for j < len(b) && k < len(c) {
		if b[j] <= c[k] {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, c[k])
			k++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	out = append(out, c[k:]...)
	return out
}
