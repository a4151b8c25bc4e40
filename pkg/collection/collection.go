// Package collection provides generic, functional-style helpers for slices.
//
//	views := collection.Map(products, resources.Summary)
//	live := collection.Filter(products, func(p models.Product) bool { return !p.IsDeleted() })
//
// Results are never nil, so an empty result encodes as [] rather than null.
package collection

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}
