// Package charts renders deck analysis reports as interactive HTML charts.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/deck-analyzer/internal/analysis"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Width      string // Chart width (e.g., "900px")
	Height     string // Chart height (e.g., "500px")
	Theme      string
	ShowLegend bool
	CurveColor string
	// ManaColors maps a color symbol to its slice color in the pie chart.
	ManaColors map[string]string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "450px",
		Theme:      "light",
		ShowLegend: true,
		CurveColor: "#5470C6",
		ManaColors: map[string]string{
			"W": "#F8E7B9",
			"U": "#0E68AB",
			"B": "#150B00",
			"R": "#D3202A",
			"G": "#00733E",
			"C": "#A69F9D",
		},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value int
}

// CurvePoints returns the mana curve as chart points in bucket order.
func CurvePoints(c analysis.ManaCurve) []DataPoint {
	labels, counts := c.Buckets()
	return zip(labels, counts)
}

// ColorPoints returns the non-zero color counts as chart points.
func ColorPoints(d analysis.ColorDistribution) []DataPoint {
	symbols, counts := d.Symbols()
	points := make([]DataPoint, 0, len(symbols))
	for _, p := range zip(symbols, counts) {
		if p.Value > 0 {
			points = append(points, p)
		}
	}
	return points
}

func zip(labels []string, values []int) []DataPoint {
	points := make([]DataPoint, len(labels))
	for i := range labels {
		points[i] = DataPoint{Label: labels[i], Value: values[i]}
	}
	return points
}

// NewCurveChart builds the mana curve bar chart.
func NewCurveChart(report *analysis.Report, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Mana Curve",
			Subtitle: report.Name,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.CurveColor,
		}),
	)

	points := CurvePoints(report.ManaCurve)
	xLabels := make([]string, len(points))
	yData := make([]opts.BarData, len(points))
	for i, point := range points {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Cards", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(true),
			}),
		)

	return bar
}

// NewColorChart builds the color distribution pie chart.
func NewColorChart(report *analysis.Report, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Color Distribution",
			Subtitle: report.Name,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	)

	points := ColorPoints(report.ColorDistribution)
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		data[i] = opts.PieData{Name: point.Label, Value: point.Value}
		if color, ok := config.ManaColors[point.Label]; ok {
			data[i].ItemStyle = &opts.ItemStyle{Color: color}
		}
	}

	pie.AddSeries("Cards", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)

	return pie
}

// RenderAnalysis writes an HTML page with the mana curve and color
// distribution charts of report.
func RenderAnalysis(w io.Writer, report *analysis.Report, config ChartConfig) error {
	if report == nil {
		return fmt.Errorf("no report to render")
	}

	page := components.NewPage()
	page.PageTitle = report.Name
	page.AddCharts(
		NewCurveChart(report, config),
		NewColorChart(report, config),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
