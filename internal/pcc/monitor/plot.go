package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

// PlotFrame writes a top-down XY scatter of cloud to path. The image format
// follows the file extension.
func PlotFrame(cloud *pointset.PointSet, title, path string) error {
	if cloud.Len() == 0 {
		return fmt.Errorf("plot frame: no points")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}

	pts := make(plotter.XYs, 0, cloud.Len())
	for _, p := range cloud.Positions() {
		pts = append(pts, plotter.XY{X: float64(p[0]), Y: float64(p[1])})
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to create scatter: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.BoxGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(1)
	scatter.GlyphStyle.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	p.Add(scatter, plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// FramePlotPath returns the file name used for frame n under dir.
func FramePlotPath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%05d.png", n))
}
