package engine

// ============================================================================
// KPI CALCULATOR — Scalar summary of a filtered view
// ============================================================================

// Summarize computes the KPI snapshot of a view. Percentages are 0 for an
// empty view; the average only counts records with a valid response time.
// Without a status column nothing is closed or active.
func Summarize(view RecordView) KPISnapshot {
	var snap KPISnapshot
	snap.Total = view.Len()

	if view.Columns().Has(ColStatus) {
		for i := 0; i < view.Len(); i++ {
			switch view.Record(i).Status {
			case StatusClosed:
				snap.Closed++
			case StatusActive:
				snap.Active++
			}
		}
	}

	snap.ClosedPct = Percent(snap.Closed, snap.Total)
	snap.ActivePct = Percent(snap.Active, snap.Total)
	snap.AvgResponseDays = AvgResponseDays(view)
	return snap
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// AvgResponseDays is the mean of the valid response times in a view,
// or 0 when there are none.
func AvgResponseDays(view RecordView) float64 {
	vals := ResponseTimes(view)
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
