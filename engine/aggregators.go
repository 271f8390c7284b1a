package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ============================================================================
// AGGREGATORS — Grouping, Counting, and Bucketing via RecordView
// ============================================================================
// All functions operate on RecordView and are pure: the same view always
// produces the same result and nothing is cached between calls.
// ============================================================================

// Group is the number of records sharing one exact value of a column.
type Group struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ============================================================================
// CATEGORICAL
// ============================================================================

// GroupBy partitions a view by the exact (untrimmed) value of a column, in
// first-seen order. Records with a missing value are left out. An absent
// column yields no groups.
func GroupBy(view RecordView, column Column) []Group {
	if !view.Columns().Has(column) {
		return nil
	}

	counts := make(map[string]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key, ok := view.Record(i).Value(column)
		if !ok {
			continue
		}
		if _, exists := counts[key]; !exists {
			order = append(order, key)
		}
		counts[key]++
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{Key: key, Count: counts[key]})
	}
	return groups
}

// CountBy counts records per exact value of a categorical column.
func CountBy(view RecordView, column Column) Distribution {
	dist := make(Distribution)
	for _, g := range GroupBy(view, column) {
		dist[g.Key] = g.Count
	}
	return dist
}

// ============================================================================
// RESPONSE TIME
// ============================================================================

// ResponseTimes returns the valid response times of a view in view order.
func ResponseTimes(view RecordView) []float64 {
	if !view.Columns().Has(ColResponseDays) {
		return nil
	}
	vals := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		rec := view.Record(i)
		if rec.HasResponse {
			vals = append(vals, rec.ResponseDays)
		}
	}
	return vals
}

// ResponseTimeFrequency counts records per exact response-time value,
// ascending by value.
func ResponseTimeFrequency(view RecordView) []ValueCount {
	counts := make(map[float64]int)
	for _, v := range ResponseTimes(view) {
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// BucketFor classifies a response time. 3 and 15 belong to the lower bucket.
func BucketFor(days float64) string {
	switch {
	case days <= 3:
		return BucketFast
	case days <= 15:
		return BucketMedium
	default:
		return BucketSlow
	}
}

// ResponseTimeBuckets counts records per response-time bucket.
func ResponseTimeBuckets(view RecordView) Distribution {
	dist := make(Distribution)
	for _, v := range ResponseTimes(view) {
		dist[BucketFor(v)]++
	}
	return dist
}

// Histogram splits values into bins equal-width bins between their minimum
// and maximum. All bins are right-open except the last.
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 {
		return nil
	}
	if bins < 1 {
		bins = 1
	}

	low, high := values[0], values[0]
	for _, v := range values[1:] {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	// Halved so that high-low cannot overflow for finite extremes.
	halfLow := low / 2
	halfWidth := (high/2 - halfLow) / float64(bins)
	if low == high || halfWidth == 0 {
		return []HistogramBin{{Lower: low, Upper: high, Count: len(values)}}
	}
	edge := func(i int) float64 { return 2 * (halfLow + float64(i)*halfWidth) }

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = edge(i)
		out[i].Upper = edge(i + 1)
	}
	out[bins-1].Upper = high

	for _, v := range values {
		idx := int((v/2 - halfLow) / halfWidth)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatPercent formats a percentage with no decimals ("67%").
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

// FormatDays formats an average number of days with one decimal.
func FormatDays(d float64) string {
	return fmt.Sprintf("%.1f", d)
}

// FormatNumber prints whole numbers without decimals and others with up to
// two.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(RoundTo2(v), 'f', -1, 64)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
