package monitor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var axisNames = [3]string{"x", "y", "z"}

// RenderSessionReport writes a standalone HTML page with one chart of the
// point count per frame and one of the per-axis mean and bounds per frame.
func RenderSessionReport(w io.Writer, title string, frames []FrameStats) error {
	x := make([]string, len(frames))
	counts := make([]opts.LineData, len(frames))
	for i, fs := range frames {
		x[i] = strconv.Itoa(i)
		counts[i] = opts.LineData{Value: fs.Count}
	}

	points := charts.NewLine()
	points.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Points per frame", Subtitle: fmt.Sprintf("%s frames=%d", title, len(frames))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "points"}),
	)
	points.SetXAxis(x).AddSeries("points", counts)

	extent := charts.NewLine()
	extent.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Frame extent", Subtitle: "per-axis mean with min and max bounds"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame", NameLocation: "middle", NameGap: 25}),
	)
	extent.SetXAxis(x)
	for k, name := range axisNames {
		mean := make([]opts.LineData, len(frames))
		lo := make([]opts.LineData, len(frames))
		hi := make([]opts.LineData, len(frames))
		for i, fs := range frames {
			if fs.Count == 0 {
				// Gaps rather than zeros for empty frames.
				mean[i], lo[i], hi[i] = opts.LineData{Value: "-"}, opts.LineData{Value: "-"}, opts.LineData{Value: "-"}
				continue
			}
			mean[i] = opts.LineData{Value: fs.Mean[k]}
			lo[i] = opts.LineData{Value: fs.Bounds.Min[k]}
			hi[i] = opts.LineData{Value: fs.Bounds.Max[k]}
		}
		extent.AddSeries("mean "+name, mean).
			AddSeries("min "+name, lo).
			AddSeries("max "+name, hi)
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(points, extent)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render session report: %w", err)
	}
	return nil
}

// WriteSessionReport renders the session report to path, creating its
// directory when needed.
func WriteSessionReport(path, title string, frames []FrameStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := RenderSessionReport(f, title, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
