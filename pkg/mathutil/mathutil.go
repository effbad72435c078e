// Package mathutil provides the small vector/matrix helpers shared by the
// rating models: interval normalization, matrix transpose, and a stable
// sort-with-restore ("unwind") used to process teams in rank order and hand
// results back in the caller's order.
package mathutil

import "sort"

// Normalize maps vals linearly onto [lo, hi]. A constant vector (no spread)
// maps every element to lo, so uniform weights introduce no bias.
func Normalize(vals []float64, lo, hi float64) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	spread := maxV - minV
	for i, v := range vals {
		if spread == 0 {
			out[i] = lo
			continue
		}
		out[i] = lo + (v-minV)/spread*(hi-lo)
	}
	return out
}

// Transpose returns the transpose of a rectangular matrix. An empty matrix
// transposes to an empty matrix.
func Transpose(m [][]float64) [][]float64 {
	if len(m) == 0 || len(m[0]) == 0 {
		return [][]float64{}
	}
	out := make([][]float64, len(m[0]))
	for i := range out {
		out[i] = make([]float64, len(m))
		for j := range m {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Argsort returns the permutation that stably sorts keys ascending:
// order[k] is the original index of the element at sorted position k.
// Equal keys keep their original relative order, which preserves
// tie groups through a sort/restore round trip.
func Argsort(keys []float64) []int {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] < keys[order[b]]
	})
	return order
}

// Unwind reorders items so that keys is ascending and returns the sorted
// items together with the permutation needed by Restore.
func Unwind[T any](keys []float64, items []T) ([]T, []int) {
	order := Argsort(keys)
	sorted := make([]T, len(items))
	for k, idx := range order {
		sorted[k] = items[idx]
	}
	return sorted, order
}

// Apply reorders items by the given permutation: out[k] = items[order[k]].
func Apply[T any](order []int, items []T) []T {
	out := make([]T, len(items))
	for k, idx := range order {
		out[k] = items[idx]
	}
	return out
}

// Restore inverts a permutation produced by Unwind, returning items in
// their original order.
func Restore[T any](order []int, items []T) []T {
	out := make([]T, len(items))
	for k, idx := range order {
		out[idx] = items[k]
	}
	return out
}
