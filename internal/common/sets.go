package common

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Missing returns, in ascending order, the keys of have that are absent
// from in.
func Missing[M1 ~map[K]V1, M2 ~map[K]V2, K cmp.Ordered, V1, V2 any](have M1, in M2) []K {
	var out []K

	for k := range have {
		if _, ok := in[k]; !ok {
			out = append(out, k)
		}
	}

	slices.Sort(out)

	return out
}
