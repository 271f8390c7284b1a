package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// AGGREGATOR TESTS
// ============================================================================

func TestCountBy(t *testing.T) {
	store := claimsStore()

	assert.Equal(t, Distribution{"Web": 3, "Presencial": 1, "Teléfono": 1}, CountBy(store, ColChannel))

	// Status counts use the raw text; " CERRADA " is its own category.
	status := CountBy(store, ColStatus)
	assert.Equal(t, 2, status["CERRADA"])
	assert.Equal(t, 1, status[" CERRADA "])
	assert.Equal(t, 1, status["EN REVISION"])
}

func TestCountByAbsentColumn(t *testing.T) {
	store := NewStore(Records(claimsStore()), NewColumnSet(ColStatus), LoadReport{})
	dist := CountBy(store, ColChannel)
	assert.NotNil(t, dist)
	assert.Empty(t, dist)
}

func TestCountByRefilterRoundTrip(t *testing.T) {
	store := claimsStore()
	dist := CountBy(store, ColDocumentType)

	sum := 0
	for key, n := range dist {
		view := ApplyFilters(store, FilterSelection{}.With(ColDocumentType, key))
		assert.Equal(t, n, view.Len(), "category %q", key)
		sum += view.Len()
	}
	assert.Equal(t, dist.Total(), sum)
	assert.Equal(t, store.Len(), sum)
}

func TestGroupByFirstSeenOrder(t *testing.T) {
	groups := GroupBy(claimsStore(), ColChannel)
	require.Len(t, groups, 3)
	assert.Equal(t, "Web", groups[0].Key)
	assert.Equal(t, "Presencial", groups[1].Key)
	assert.Equal(t, "Teléfono", groups[2].Key)
	assert.Equal(t, 3, groups[0].Count)
}

func TestDistributionSorted(t *testing.T) {
	d := Distribution{"b": 2, "a": 2, "c": 5}
	assert.Equal(t, []Count{{"c", 5}, {"a", 2}, {"b", 2}}, d.Sorted())
	assert.Equal(t, 9, d.Total())
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		days float64
		want string
	}{
		{0, BucketFast},
		{3, BucketFast},
		{3.5, BucketMedium},
		{4, BucketMedium},
		{15, BucketMedium},
		{15.5, BucketSlow},
		{16, BucketSlow},
		{120, BucketSlow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.days), "days=%v", tt.days)
	}
}

func TestResponseTimeBuckets(t *testing.T) {
	// Valid values: 2, 5, 15, 16, 3.
	dist := ResponseTimeBuckets(claimsStore())
	assert.Equal(t, Distribution{BucketFast: 2, BucketMedium: 2, BucketSlow: 1}, dist)
}

func TestResponseTimeFrequency(t *testing.T) {
	records := []Record{
		claim("CERRADA", "Web", "DNI", day(2024, 1, 1), "5"),
		claim("CERRADA", "Web", "DNI", day(2024, 1, 2), "2"),
		claim("ACTIVA", "Web", "DNI", day(2024, 1, 3), "5"),
		claim("ACTIVA", "Web", "DNI", day(2024, 1, 4), "abc"),
	}
	freq := ResponseTimeFrequency(NewStore(records, allColumns(), LoadReport{}))
	assert.Equal(t, []ValueCount{{Value: 2, Count: 1}, {Value: 5, Count: 2}}, freq)
}

func TestResponseTimesAbsentColumn(t *testing.T) {
	store := NewStore(Records(claimsStore()), NewColumnSet(ColStatus), LoadReport{})
	assert.Empty(t, ResponseTimes(store))
	assert.Empty(t, ResponseTimeFrequency(store))
	assert.Empty(t, ResponseTimeBuckets(store))
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 10}, 5)
	require.Len(t, bins, 5)

	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 2.0, bins[0].Upper)
	assert.Equal(t, 10.0, bins[4].Upper)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)
	assert.Equal(t, 2, bins[0].Count) // 0, 1
	assert.Equal(t, 1, bins[4].Count) // max lands in the closed last bin
}

func TestHistogramEdgeCases(t *testing.T) {
	assert.Nil(t, Histogram(nil, 20))

	single := Histogram([]float64{7, 7, 7}, 20)
	require.Len(t, single, 1)
	assert.Equal(t, 3, single[0].Count)

	assert.Len(t, Histogram([]float64{1, 2}, 0), 1)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatInt(1234567))
	assert.Equal(t, "-1,000", FormatInt(-1000))
	assert.Equal(t, "67%", FormatPercent(66.666))
	assert.Equal(t, "8.2", FormatDays(8.2))
	assert.Equal(t, "15", FormatNumber(15))
	assert.Equal(t, "2.5", FormatNumber(2.5))
	assert.Equal(t, 1.24, RoundTo2(1.2351))
}

func TestHistogramExtremeRange(t *testing.T) {
	low, ok := ParseDays("-1e308")
	require.True(t, ok)
	high, ok := ParseDays("1e308")
	require.True(t, ok)

	bins := Histogram([]float64{low, 0, high}, 20)
	require.Len(t, bins, 20)
	assert.Equal(t, low, bins[0].Lower)
	assert.Equal(t, high, bins[19].Upper)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[19].Count)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 3, total)
}

func TestHistogramInsideDashboardWithExtremes(t *testing.T) {
	records := []Record{
		claim("CERRADA", "Web", "DNI", day(2024, 1, 1), "-1e308"),
		claim("ACTIVA", "Web", "DNI", day(2024, 1, 2), "1e308"),
	}
	d := BuildDashboard(NewStore(records, allColumns(), LoadReport{}), FilterSelection{})
	assert.Empty(t, d.Errors)
	assert.Len(t, d.ResponseHistogram, 20)
}

func TestCountByKeepsPaddedKeys(t *testing.T) {
	records := []Record{
		claim("CERRADA", " Web", "DNI", day(2024, 1, 1), "1"),
		claim("CERRADA", "Presencial", "DNI", day(2024, 1, 2), "1"),
	}
	store := NewStore(records, allColumns(), LoadReport{})

	dist := CountBy(store, ColChannel)
	assert.Equal(t, Distribution{" Web": 1, "Presencial": 1}, dist)

	// Filters compare trimmed text, so the padded key only matches once
	// trimmed, which is also the value the catalog offers.
	assert.Equal(t, 0, ApplyFilters(store, FilterSelection{}.With(ColChannel, " Web")).Len())
	assert.Equal(t, 1, ApplyFilters(store, FilterSelection{}.With(ColChannel, "Web")).Len())
	assert.Equal(t, []string{"Presencial", "Web"}, DistinctValues(store, ColChannel))

	sum := 0
	for key := range dist {
		sum += ApplyFilters(store, FilterSelection{}.With(ColChannel, strings.TrimSpace(key))).Len()
	}
	assert.Equal(t, store.Len(), sum)
}
