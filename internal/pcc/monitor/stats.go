// Package monitor summarises decoded frames for logs, the frame store and
// offline inspection plots.
package monitor

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

// FrameStats describes the positions of one output frame.
type FrameStats struct {
	Count  int
	Bounds geom.Box3
	Mean   [3]float64
	StdDev [3]float64
}

// ComputeFrameStats returns count, bounds and per-axis mean and standard
// deviation. An empty cloud yields an empty box and zero moments.
func ComputeFrameStats(cloud *pointset.PointSet) FrameStats {
	fs := FrameStats{Count: cloud.Len(), Bounds: cloud.Bounds()}
	if fs.Count == 0 {
		return fs
	}

	axis := make([]float64, fs.Count)
	for k := 0; k < 3; k++ {
		for i, p := range cloud.Positions() {
			axis[i] = float64(p[k])
		}
		if fs.Count == 1 {
			fs.Mean[k] = axis[0]
			continue
		}
		fs.Mean[k], fs.StdDev[k] = stat.MeanStdDev(axis, nil)
	}
	return fs
}

func (fs FrameStats) String() string {
	if fs.Count == 0 {
		return "0 points"
	}
	return fmt.Sprintf("%d points, bounds %v..%v, mean (%.1f, %.1f, %.1f), stddev (%.1f, %.1f, %.1f)",
		fs.Count, fs.Bounds.Min, fs.Bounds.Max,
		fs.Mean[0], fs.Mean[1], fs.Mean[2],
		fs.StdDev[0], fs.StdDev[1], fs.StdDev[2])
}
