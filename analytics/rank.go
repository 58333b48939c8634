// ABOUTME: Ranking aggregator for leaderboards
// ABOUTME: Groups by entity, sums a metric, sorts descending, truncates to top N
package analytics

import "sort"

// defaultRankSize is the leaderboard length when the caller passes n <= 0.
const defaultRankSize = 10

// RankEntry is one leaderboard row.
type RankEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Count int    `json:"count"`
}

// Rank groups records by the id returned from key, accumulating count
// and summed value, then returns the top n entries sorted descending by
// value. key returning ok=false skips the record — a deal whose company
// was unlinked disappears from the board instead of failing it. Ties
// keep the order groups were first seen; callers needing a deterministic
// secondary order must encode it in the input order.
func Rank[T any](records []T, key func(T) (id, name string, ok bool), val func(T) int64, n int) []RankEntry {
	if n <= 0 {
		n = defaultRankSize
	}

	index := make(map[string]int)
	var entries []RankEntry
	for _, r := range records {
		id, name, ok := key(r)
		if !ok {
			continue
		}
		i, seen := index[id]
		if !seen {
			i = len(entries)
			index[id] = i
			entries = append(entries, RankEntry{ID: id, Name: name})
		}
		entries[i].Count++
		if val != nil {
			entries[i].Value += val(r)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
