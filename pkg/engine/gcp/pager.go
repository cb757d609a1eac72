package gcp

import "context"

// PageFunc fetches one page of results. It returns the page's items and
// the cursor for the next page; an empty cursor ends the walk.
type PageFunc[T any] func(ctx context.Context, pageToken string) (items []T, next string, err error)

// DrainPages drives a PageFunc until the cursor runs out and returns
// every item seen. No retries: the first error aborts the walk and the
// partial results are discarded.
func DrainPages[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var out []T
	token := ""
	for {
		items, next, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if next == "" {
			return out, nil
		}
		token = next
	}
}

// lastWriteWins collapses entries sharing an identity key, keeping the
// latest occurrence in its first-seen position. Pages can re-deliver an
// item when the underlying collection shifts mid-walk; the later copy is
// the fresher one.
func lastWriteWins[T any, K comparable](items []T, key func(T) K) []T {
	index := make(map[K]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if i, ok := index[k]; ok {
			out[i] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}
