package reconcile

// Missing returns every key present in live but absent from declared,
// with set semantics: duplicate live keys collapse to one result and
// input ordering never changes the outcome. Result order follows the
// first appearance in live so callers get stable output for free.
func Missing[K comparable](live, declared []K) []K {
	managed := make(map[K]struct{}, len(declared))
	for _, k := range declared {
		managed[k] = struct{}{}
	}

	seen := make(map[K]struct{}, len(live))
	var out []K
	for _, k := range live {
		if _, ok := managed[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
