// Package claimlens provides the analytics behind a claims dashboard.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/claimlens/engine"
//	    "github.com/spektr-org/claimlens/helpers"
//	    "github.com/spektr-org/claimlens/schema"
//	)
//
//	store, err := helpers.LoadFile("reclamos.xlsx", schema.Default())
//	sel := engine.FilterSelection{}.With(engine.ColChannel, "Web")
//	dash := engine.BuildDashboard(store, sel, engine.WithHistogramBins(20))
//	charts := engine.BuildCharts(dash)
//
// The dataset is loaded once into an immutable Store. Every filter,
// KPI, and aggregate is computed from it in memory; nothing is cached
// between selections and no external service is called.
package claimlens
