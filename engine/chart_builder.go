package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfigs from a Dashboard
// ============================================================================
// The rendering layer draws these as-is; it never re-derives aggregates.
// A chart whose data is empty (column absent, no valid values) is omitted.
// ============================================================================

// Chart IDs.
const (
	ChartStatus            = "status"
	ChartChannel           = "channel"
	ChartDocumentType      = "document_type"
	ChartResponseHistogram = "response_histogram"
	ChartResponseFrequency = "response_frequency"
	ChartResponseBuckets   = "response_buckets"
	ChartMonthly           = "monthly"
)

var statusColors = map[string]string{
	LabelClosed: "green",
	LabelActive: "orange",
}

var bucketColors = []string{"#3498db", "#f39c12", "#e74c3c"}

const (
	closedSeriesColor = "#1f77b4"
	activeSeriesColor = "#ffcc00"
	defaultBarColor   = "#3498db"
)

// BuildCharts produces every non-empty chart of a dashboard, in layout order.
func BuildCharts(d *Dashboard) []ChartConfig {
	if d == nil {
		return nil
	}

	var charts []ChartConfig
	add := func(c *ChartConfig) {
		if c != nil {
			charts = append(charts, *c)
		}
	}

	add(buildStatusChart(d.StatusCounts))
	add(buildCountChart(ChartChannel, "📞 Canales de Atención", "Canal", d.ChannelCounts))
	add(buildCountChart(ChartDocumentType, "🪪 Distribución por Documento", "Tipo", d.DocumentTypeCounts))
	add(buildHistogramChart(d.ResponseHistogram))
	add(buildFrequencyChart(d.ResponseFrequency))
	add(buildBucketChart(d.ResponseBuckets))
	add(buildMonthlyChart(d.Monthly))
	return charts
}

// ============================================================================
// CATEGORICAL CHARTS
// ============================================================================

func buildStatusChart(dist Distribution) *ChartConfig {
	config := buildCountChart(ChartStatus, "📊 Casos por Estado Final", "Estado Final", dist)
	if config == nil {
		return nil
	}
	colors := make([]string, 0, len(config.Series[0].Data))
	for _, p := range config.Series[0].Data {
		c, ok := statusColors[p.Label]
		if !ok {
			c = defaultBarColor
		}
		colors = append(colors, c)
	}
	config.Colors = colors
	return config
}

func buildCountChart(id, title, xAxis string, dist Distribution) *ChartConfig {
	if len(dist) == 0 {
		return nil
	}
	sorted := dist.Sorted()
	points := make([]ChartPoint, 0, len(sorted))
	for _, c := range sorted {
		points = append(points, ChartPoint{Label: c.Key, Value: float64(c.Count)})
	}
	return &ChartConfig{
		ID:        id,
		ChartType: "bar",
		Title:     title,
		XAxis:     xAxis,
		YAxis:     "Cantidad",
		Series:    []ChartSeries{{Name: "Cantidad", Data: points, Color: defaultBarColor}},
		ShowGrid:  true,
	}
}

// ============================================================================
// RESPONSE-TIME CHARTS
// ============================================================================

func buildHistogramChart(bins []HistogramBin) *ChartConfig {
	if len(bins) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: FormatNumber(b.Lower) + "–" + FormatNumber(b.Upper),
			Value: float64(b.Count),
		})
	}
	return &ChartConfig{
		ID:        ChartResponseHistogram,
		ChartType: "histogram",
		Title:     "⏱️ Distribución de Tiempos de Respuesta",
		XAxis:     "Días",
		YAxis:     "Cantidad",
		Series:    []ChartSeries{{Name: "Días", Data: points, Color: defaultBarColor}},
		ShowGrid:  true,
	}
}

func buildFrequencyChart(freq []ValueCount) *ChartConfig {
	if len(freq) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(freq))
	for _, vc := range freq {
		points = append(points, ChartPoint{Label: FormatNumber(vc.Value), Value: float64(vc.Count)})
	}
	return &ChartConfig{
		ID:        ChartResponseFrequency,
		ChartType: "bar",
		Title:     "📊 Reclamos por Tiempo de Respuesta",
		XAxis:     "Días",
		YAxis:     "Cantidad",
		Series:    []ChartSeries{{Name: "Cantidad", Data: points, Color: "#f39c12"}},
		ShowGrid:  true,
	}
}

func buildBucketChart(dist Distribution) *ChartConfig {
	if len(dist) == 0 {
		return nil
	}
	var points []ChartPoint
	var colors []string
	for i, label := range BucketOrder {
		if n, ok := dist[label]; ok {
			points = append(points, ChartPoint{Label: label, Value: float64(n)})
			colors = append(colors, bucketColors[i])
		}
	}
	return &ChartConfig{
		ID:         ChartResponseBuckets,
		ChartType:  "donut",
		Title:      "📌 Reclamos por Grupo de Días",
		Series:     []ChartSeries{{Name: "Grupo", Data: points}},
		Colors:     colors,
		ShowLegend: true,
	}
}

// ============================================================================
// MONTHLY CHART
// ============================================================================

func buildMonthlyChart(m MonthlySeries) *ChartConfig {
	if len(m.Closed) == 0 && len(m.Active) == 0 {
		return nil
	}
	return &ChartConfig{
		ID:        ChartMonthly,
		ChartType: "line",
		Title:     "📈 Evolución de Reclamos por Mes",
		XAxis:     "Mes",
		YAxis:     "Reclamos",
		Series: []ChartSeries{
			{Name: LabelClosed, Data: seriesPoints(m.Closed), Color: closedSeriesColor},
			{Name: LabelActive, Data: seriesPoints(m.Active), Color: activeSeriesColor},
		},
		Colors:     []string{closedSeriesColor, activeSeriesColor},
		ShowLegend: true,
	}
}

func seriesPoints(points []SeriesPoint) []ChartPoint {
	out := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		out = append(out, ChartPoint{Label: p.Label(), Value: float64(p.Count)})
	}
	return out
}
