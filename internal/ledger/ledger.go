// Package ledger computes running totals over dated ledger entries.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Entry[N any] struct {
	ID     int64
	At     time.Time
	Amount N
}

type Total[N any] struct {
	Entry[N]
	Cumulative N
}

// RunningTotals gives every entry the sum of all entries dated at or before
// it, entries sharing a timestamp included. The result is ordered newest
// first, ties broken by descending id.
func RunningTotals[N any](entries []Entry[N], add func(a, b N) N) []Total[N] {
	sorted := make([]Entry[N], len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].At.Equal(sorted[j].At) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].At.Before(sorted[j].At)
	})

	out := make([]Total[N], len(sorted))
	var running N
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].At.Equal(sorted[i].At) {
			running = add(running, sorted[j].Amount)
			j++
		}
		for k := i; k < j; k++ {
			out[len(sorted)-1-k] = Total[N]{Entry: sorted[k], Cumulative: running}
		}
		i = j
	}
	return out
}

func Ints(entries []Entry[int]) []Total[int] {
	return RunningTotals(entries, func(a, b int) int { return a + b })
}

func Decimals(entries []Entry[decimal.Decimal]) []Total[decimal.Decimal] {
	return RunningTotals(entries, func(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) })
}
