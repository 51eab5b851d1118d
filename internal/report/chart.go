package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ChartFormat is an image encoding supported by RenderChart.
type ChartFormat string

const (
	FormatPNG ChartFormat = "png"
	FormatSVG ChartFormat = "svg"
)

// IsValid checks if the format is supported.
func (f ChartFormat) IsValid() bool {
	switch f {
	case FormatPNG, FormatSVG:
		return true
	}
	return false
}

// ContentType returns the MIME type of the encoded image.
func (f ChartFormat) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ChartOptions sizes the rendered chart.
type ChartOptions struct {
	Format   ChartFormat
	WidthIn  float64
	HeightIn float64
}

// DefaultChartOptions returns a 4x3 inch PNG.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Format: FormatPNG, WidthIn: 4, HeightIn: 3}
}

var (
	youColor       = color.RGBA{R: 50, G: 205, B: 50, A: 255} // limegreen
	benchmarkColor = color.RGBA{R: 255, G: 69, A: 255}        // orangered
)

// RenderChart draws the predicted burn next to the athlete benchmark.
func RenderChart(w io.Writer, a *Assessment, opts ChartOptions) error {
	if !opts.Format.IsValid() {
		return fmt.Errorf("unsupported chart format: %s", opts.Format)
	}
	if opts.WidthIn <= 0 || opts.HeightIn <= 0 {
		return fmt.Errorf("chart size must be positive")
	}

	p := plot.New()
	p.Title.Text = "Your Burn vs Athlete Benchmark"
	p.Y.Label.Text = "Calories (kcal)"
	p.Y.Min = 0

	barWidth := vg.Points(40)

	you, err := plotter.NewBarChart(plotter.Values{nonNegative(a.PredictedKcal)}, barWidth)
	if err != nil {
		return fmt.Errorf("build bar: %w", err)
	}
	you.Color = youColor
	you.LineStyle.Width = 0
	you.Offset = -barWidth / 2

	avg, err := plotter.NewBarChart(plotter.Values{a.Comparison.Reference}, barWidth)
	if err != nil {
		return fmt.Errorf("build bar: %w", err)
	}
	avg.Color = benchmarkColor
	avg.LineStyle.Width = 0
	avg.Offset = barWidth / 2

	// One group, two bars side by side
	p.Add(you, avg)
	p.NominalX("Calories Burned")
	p.Legend.Add("You", you)
	p.Legend.Add("Athlete Avg", avg)
	p.Legend.Top = true

	wt, err := p.WriterTo(vg.Length(opts.WidthIn)*vg.Inch, vg.Length(opts.HeightIn)*vg.Inch, string(opts.Format))
	if err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// nonNegative keeps bars upright when a model extrapolates below zero.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
