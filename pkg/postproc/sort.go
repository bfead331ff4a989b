package postproc

import "sort"

// ArgSort returns the indices that sort x ascending. Equal values keep their
// original order.
func ArgSort(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	return idx
}

// Reorder returns v permuted by idx.
func Reorder(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}
