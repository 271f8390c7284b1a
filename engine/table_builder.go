package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from KPIs and Distributions
// ============================================================================

// BuildKPITable renders the KPI snapshot as metric/value/detail rows, the
// way the dashboard's metric cards show them.
func BuildKPITable(k KPISnapshot) *TableData {
	return &TableData{
		Title: "KPIs",
		Columns: []TableCol{
			{Key: "metric", Label: "Metric", Type: "text", Align: "left"},
			{Key: "value", Label: "Value", Type: "text", Align: "right"},
			{Key: "detail", Label: "Detail", Type: "text", Align: "right"},
		},
		Rows: [][]string{
			{"Total Casos", FormatInt(k.Total), ""},
			{"Casos Cerrados", FormatInt(k.Closed), FormatPercent(k.ClosedPct)},
			{"Casos Activos", FormatInt(k.Active), FormatPercent(k.ActivePct)},
			{"% Cerrados vs Activos", FormatPercent(k.ClosedPct) + " / " + FormatPercent(k.ActivePct), ""},
			{"Tiempo Promedio de Resolución (días)", FormatDays(k.AvgResponseDays), ""},
		},
	}
}

// BuildDistributionTable renders a distribution ordered by descending count
// with each entry's share of the total.
func BuildDistributionTable(title, groupLabel string, dist Distribution) *TableData {
	columns := []TableCol{
		{Key: "group", Label: groupLabel, Type: "text", Align: "left"},
		{Key: "count", Label: "Cantidad", Type: "number", Align: "right"},
		{Key: "share", Label: "%", Type: "percent", Align: "right"},
	}
	if len(dist) == 0 {
		return &TableData{Title: title, Columns: columns, Rows: [][]string{}}
	}

	total := dist.Total()
	sorted := dist.Sorted()
	rows := make([][]string, 0, len(sorted))
	for _, c := range sorted {
		rows = append(rows, []string{
			c.Key,
			FormatInt(c.Count),
			FormatPercent(Percent(c.Count, total)),
		})
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Total",
			Values: map[string]string{
				"count": fmt.Sprintf("%d", total),
			},
		},
	}
}

// BuildChartTable flattens a chart into a label column plus one column per
// series. Series may cover different labels; missing cells are left empty.
func BuildChartTable(c ChartConfig) *TableData {
	xLabel := c.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	columns := []TableCol{{Key: "label", Label: xLabel, Type: "text", Align: "left"}}
	for _, s := range c.Series {
		columns = append(columns, TableCol{Key: s.Name, Label: s.Name, Type: "number", Align: "right"})
	}

	var labels []string
	seen := make(map[string]bool)
	cells := make([]map[string]float64, len(c.Series))
	for i, s := range c.Series {
		cells[i] = make(map[string]float64, len(s.Data))
		for _, p := range s.Data {
			cells[i][p.Label] = p.Value
			if !seen[p.Label] {
				seen[p.Label] = true
				labels = append(labels, p.Label)
			}
		}
	}

	if c.ID == ChartMonthly {
		sort.Strings(labels) // "2006-01" labels sort chronologically
	}

	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		row := []string{label}
		for i := range c.Series {
			if v, ok := cells[i][label]; ok {
				row = append(row, FormatNumber(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return &TableData{Title: c.Title, Columns: columns, Rows: rows}
}

// BuildTables lays out a dashboard as tables: the KPI table, one
// distribution table per categorical output, then the response-time and
// monthly charts flattened. Distributions with no data are left out.
func BuildTables(d *Dashboard, charts []ChartConfig) []*TableData {
	if d == nil {
		return nil
	}

	tables := []*TableData{BuildKPITable(d.KPI)}
	for _, dt := range []struct {
		title, group string
		dist         Distribution
	}{
		{"Casos por Estado Final", "Estado Final", d.StatusCounts},
		{"Canales de Atención", "Canal", d.ChannelCounts},
		{"Distribución por Documento", "Tipo", d.DocumentTypeCounts},
		{"Reclamos por Grupo de Días", "Grupo", d.ResponseBuckets},
	} {
		if len(dt.dist) > 0 {
			tables = append(tables, BuildDistributionTable(dt.title, dt.group, dt.dist))
		}
	}

	for _, c := range charts {
		switch c.ID {
		case ChartResponseHistogram, ChartResponseFrequency, ChartMonthly:
			tables = append(tables, BuildChartTable(c))
		}
	}
	return tables
}
