package gcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainPagesWalksEveryCursor(t *testing.T) {
	pages := map[string]struct {
		items []int
		next  string
	}{
		"":   {items: []int{1, 2}, next: "p2"},
		"p2": {items: []int{3}, next: "p3"},
		"p3": {items: []int{4, 5}, next: ""},
	}

	var tokens []string
	got, err := DrainPages(context.Background(), func(ctx context.Context, token string) ([]int, string, error) {
		tokens = append(tokens, token)
		p := pages[token]
		return p.items, p.next, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.Equal(t, []string{"", "p2", "p3"}, tokens)
}

func TestDrainPagesAbortsOnError(t *testing.T) {
	boom := errors.New("quota exceeded")
	calls := 0
	got, err := DrainPages(context.Background(), func(ctx context.Context, token string) ([]int, string, error) {
		calls++
		if token == "" {
			return []int{1}, "p2", nil
		}
		return nil, "", boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Equal(t, 2, calls)
}

func TestLastWriteWinsKeepsLaterCopy(t *testing.T) {
	items := []Folder{
		{Name: "folders/1", DisplayName: "Old"},
		{Name: "folders/2", DisplayName: "Two"},
		{Name: "folders/1", DisplayName: "New"},
	}

	got := lastWriteWins(items, func(f Folder) string { return f.Name })

	require.Len(t, got, 2)
	assert.Equal(t, "New", got[0].DisplayName)
	assert.Equal(t, "folders/2", got[1].Name)
}
