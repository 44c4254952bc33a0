package monitor

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

func cloudOf(points ...geom.Vec3[int32]) *pointset.PointSet {
	ps := pointset.New()
	ps.SetPositions(points)
	return ps
}

func TestComputeFrameStats(t *testing.T) {
	fs := ComputeFrameStats(cloudOf(
		geom.Vec3[int32]{0, 10, 5},
		geom.Vec3[int32]{2, 10, 5},
		geom.Vec3[int32]{4, 10, 5},
	))

	assert.Equal(t, 3, fs.Count)
	assert.Equal(t, geom.Vec3[int32]{0, 10, 5}, fs.Bounds.Min)
	assert.Equal(t, geom.Vec3[int32]{4, 10, 5}, fs.Bounds.Max)
	assert.InDelta(t, 2.0, fs.Mean[0], 1e-9)
	assert.InDelta(t, 10.0, fs.Mean[1], 1e-9)
	// Sample standard deviation of {0, 2, 4}.
	assert.InDelta(t, 2.0, fs.StdDev[0], 1e-9)
	assert.InDelta(t, 0.0, fs.StdDev[2], 1e-9)
	assert.Contains(t, fs.String(), "3 points")
}

func TestComputeFrameStatsSmallClouds(t *testing.T) {
	empty := ComputeFrameStats(pointset.New())
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Bounds.IsEmpty())
	assert.Equal(t, "0 points", empty.String())

	one := ComputeFrameStats(cloudOf(geom.Vec3[int32]{7, 8, 9}))
	assert.Equal(t, [3]float64{7, 8, 9}, one.Mean)
	for _, s := range one.StdDev {
		assert.False(t, math.IsNaN(s))
	}
}

func TestPlotFrame(t *testing.T) {
	dir := t.TempDir()
	path := FramePlotPath(filepath.Join(dir, "plots"), 3)
	assert.Equal(t, "frame_00003.png", filepath.Base(path))

	cloud := cloudOf(geom.Vec3[int32]{0, 0, 0}, geom.Vec3[int32]{3, 1, 0}, geom.Vec3[int32]{1, 3, 2})
	require.NoError(t, PlotFrame(cloud, "frame 3", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotFrameEmpty(t *testing.T) {
	err := PlotFrame(pointset.New(), "empty", filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}

func TestRenderSessionReport(t *testing.T) {
	frames := []FrameStats{
		ComputeFrameStats(cloudOf(geom.Vec3[int32]{0, 0, 0}, geom.Vec3[int32]{4, 2, 8})),
		ComputeFrameStats(pointset.New()),
		ComputeFrameStats(cloudOf(geom.Vec3[int32]{1, 1, 1})),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSessionReport(&buf, "session abc", frames))
	html := buf.String()

	assert.True(t, strings.HasPrefix(strings.TrimSpace(html), "<!DOCTYPE html>") || strings.Contains(html, "<html"))
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "session abc")
	assert.Contains(t, html, "Points per frame")
	assert.Contains(t, html, "mean x")
	assert.Contains(t, html, "max z")
}

func TestWriteSessionReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "session.html")
	require.NoError(t, WriteSessionReport(path, "run", []FrameStats{{Count: 3}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
