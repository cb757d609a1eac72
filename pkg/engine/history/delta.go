package history

import "sort"

// Delta describes how drift moved between the two most recent runs.
type Delta struct {
	PreviousRunID string
	Previous      int
	Current       int
	Change        int
	ByCheck       map[string]int
}

// Improved reports whether total drift went down since the last run.
func (d Delta) Improved() bool {
	return d.Change < 0
}

// Analyze compares the last two snapshots in the window, oldest first.
// Returns false when fewer than two runs exist to compare.
func Analyze(window []Snapshot) (Delta, bool) {
	if len(window) < 2 {
		return Delta{}, false
	}

	prev := window[len(window)-2]
	curr := window[len(window)-1]

	d := Delta{
		PreviousRunID: prev.RunID,
		Previous:      prev.Total,
		Current:       curr.Total,
		Change:        curr.Total - prev.Total,
		ByCheck:       map[string]int{},
	}

	for _, name := range checkNames(prev, curr) {
		change := curr.ByCheck[name] - prev.ByCheck[name]
		if change != 0 {
			d.ByCheck[name] = change
		}
	}

	return d, true
}

func checkNames(snaps ...Snapshot) []string {
	seen := map[string]bool{}
	var names []string
	for _, s := range snaps {
		for name := range s.ByCheck {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
