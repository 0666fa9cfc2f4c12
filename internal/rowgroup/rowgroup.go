// Package rowgroup folds flat joined rows into parent records.
package rowgroup

// Group folds rows sharing a key into one G, built by init from the first row
// of each key and extended by add for every row. Groups come back in the order
// their keys were first seen.
func Group[R any, K comparable, G any](rows []R, key func(R) K, init func(R) G, add func(*G, R)) []G {
	index := make(map[K]int)
	groups := make([]G, 0)

	for _, row := range rows {
		k := key(row)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, init(row))
		}
		if add != nil {
			add(&groups[i], row)
		}
	}
	return groups
}
