// ABOUTME: In-memory metric primitives shared by the aggregation functions
// ABOUTME: Count, sum, grouped aggregation, and zero-guarded rates
package analytics

// Aggregate accumulates a count and a sum for one group.
type Aggregate struct {
	Count int
	Sum   int64
}

// SafeRate returns numerator/denominator as a percentage, or 0 when the
// denominator is zero. It never produces NaN or Inf. Values above 100
// are passed through; inconsistent data is the caller's signal to read,
// not the engine's to sanitize.
func SafeRate(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator * 100
}

// CountBy counts records matching pred. A nil pred counts everything.
func CountBy[T any](records []T, pred func(T) bool) int {
	if pred == nil {
		return len(records)
	}
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// SumBy sums val over records.
func SumBy[T any](records []T, val func(T) int64) int64 {
	var total int64
	for _, r := range records {
		total += val(r)
	}
	return total
}

// GroupedAggregate groups records by key, accumulating count and sum.
// A nil val sums zero (count-only grouping). The returned key slice
// preserves first-occurrence order, which downstream ranking relies on
// for stable tie-breaks.
func GroupedAggregate[T any, K comparable](records []T, key func(T) K, val func(T) int64) (map[K]Aggregate, []K) {
	groups := make(map[K]Aggregate)
	var order []K
	for _, r := range records {
		k := key(r)
		agg, seen := groups[k]
		if !seen {
			order = append(order, k)
		}
		agg.Count++
		if val != nil {
			agg.Sum += val(r)
		}
		groups[k] = agg
	}
	return groups, order
}

// meanDays returns totalDays/count, or 0 when count is zero.
func meanDays(totalDays float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return totalDays / float64(count)
}
