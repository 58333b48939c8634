// ABOUTME: Time bucketing for trend series
// ABOUTME: Maps timestamps to sortable bucket keys and labels in a fixed reference timezone
package analytics

import (
	"fmt"
	"time"
)

// Granularity selects the width of a time bucket.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// ParseGranularity maps a query-string value to a Granularity. Unknown
// values fall back to day; the whole report surface is lenient.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityWeek, GranularityMonth, GranularityQuarter:
		return Granularity(s)
	default:
		return GranularityDay
	}
}

// Bucket is one time bucket. Key sorts lexicographically in
// chronological order; Label is for display.
type Bucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// BucketFor places t into its bucket for the given granularity.
// All bucketing happens in loc, the fixed reference timezone, so two
// records on the same local calendar day always share a day bucket no
// matter what offset their timestamps carry. Week buckets are
// week-of-month ordinals: W1 covers days 1-7, W2 days 8-14, and so on,
// so a month has four or five week buckets.
func BucketFor(t time.Time, g Granularity, loc *time.Location) Bucket {
	lt := t.In(loc)
	switch g {
	case GranularityWeek:
		week := (lt.Day() + 6) / 7
		return Bucket{
			Key:   fmt.Sprintf("%04d-%02d-W%d", lt.Year(), int(lt.Month()), week),
			Label: fmt.Sprintf("W%d %s", week, lt.Format("Jan 2006")),
		}
	case GranularityMonth:
		return Bucket{
			Key:   lt.Format("2006-01"),
			Label: lt.Format("Jan 2006"),
		}
	case GranularityQuarter:
		quarter := (int(lt.Month())-1)/3 + 1
		return Bucket{
			Key:   fmt.Sprintf("%04d-Q%d", lt.Year(), quarter),
			Label: fmt.Sprintf("Q%d %d", quarter, lt.Year()),
		}
	default:
		return Bucket{
			Key:   lt.Format("2006-01-02"),
			Label: lt.Format("Jan 2, 2006"),
		}
	}
}

// localDay returns the YYYY-MM-DD key of t's calendar day in loc.
func localDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
