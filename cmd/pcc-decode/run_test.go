package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpcc-decoder/internal/monitoring"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/l1payloads"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/storage/sqlite"
	"github.com/banshee-data/gpcc-decoder/internal/testutil"
)

type vec = geom.Vec3[int32]

// writeStream writes a two-frame TLV stream and returns its path.
func writeStream(t *testing.T, extra ...*l1payloads.Payload) string {
	t.Helper()
	const maxLog2 = 3
	brick := func(frame uint32, points []vec) *l1payloads.Payload {
		gbh := &hls.GeometryBrickHeader{
			FrameIdx:        frame,
			MaxNodeSizeLog2: maxLog2,
			NumPoints:       uint32(len(points)),
		}
		return testutil.GeometryBrickPayload(gbh, testutil.EncodePointGeometry(points, maxLog2, true))
	}

	payloads := []*l1payloads.Payload{
		testutil.SPSPayload(&hls.SequenceParameterSet{ID: 0, BoundingBoxSize: vec{8, 8, 8}}),
		testutil.GPSPayload(&hls.GeometryParameterSet{ID: 0, UniquePoints: true}),
		brick(0, []vec{{0, 0, 0}, {1, 2, 3}}),
		brick(1, []vec{{7, 7, 7}, {4, 0, 1}, {2, 2, 2}}),
	}
	payloads = append(payloads, extra...)

	path := filepath.Join(t.TempDir(), "stream.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := l1payloads.NewWriter(f)
	for _, p := range payloads {
		require.NoError(t, w.Write(p))
	}
	return path
}

func muteLogs(t *testing.T) {
	original := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = original })
}

func TestRunRecordsFrames(t *testing.T) {
	muteLogs(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "frames.db")
	plotDir := filepath.Join(dir, "plots")

	sum, err := run(context.Background(), options{
		inPath:  writeStream(t),
		dbPath:  dbPath,
		plotDir: plotDir,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Payloads)
	assert.Equal(t, 2, sum.Frames)
	assert.Equal(t, 5, sum.Points)
	assert.Equal(t, 0, sum.Errors)
	require.NotEmpty(t, sum.SessionID)
	assert.Contains(t, sum.String(), "2 frames")

	store, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	frames, err := store.ListFrames(sum.SessionID)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 2, frames[0].PointCount)
	assert.Equal(t, 3, frames[1].PointCount)
	assert.Equal(t, vec{7, 7, 7}, frames[1].Bounds.Max)
	assert.Nil(t, frames[0].Points, "points are only stored when configured")

	sess, err := store.GetSession(sum.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Frames)
	assert.NotNil(t, sess.FinishedUnixNs)

	for _, name := range []string{"frame_00000.png", "frame_00001.png"} {
		_, err := os.Stat(filepath.Join(plotDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunStorePointsFromConfig(t *testing.T) {
	muteLogs(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "decoder.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"store_points": true}`), 0644))
	dbPath := filepath.Join(dir, "frames.db")

	sum, err := run(context.Background(), options{inPath: writeStream(t), configPath: cfgPath, dbPath: dbPath})
	require.NoError(t, err)

	store, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	frames, err := store.ListFrames(sum.SessionID)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.ElementsMatch(t, []vec{{0, 0, 0}, {1, 2, 3}}, frames[0].Points)
}

func TestRunWritesSessionReport(t *testing.T) {
	muteLogs(t)
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "out", "report.html")
	dbPath := filepath.Join(dir, "frames.db")

	sum, err := run(context.Background(), options{inPath: writeStream(t), dbPath: dbPath, reportPath: reportPath})
	require.NoError(t, err)
	require.Equal(t, 2, sum.Frames)

	html, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Points per frame")
	assert.Contains(t, string(html), sum.SessionID)
}

func TestRunSkipsBadPayloads(t *testing.T) {
	muteLogs(t)
	bad := &l1payloads.Payload{Type: l1payloads.PayloadType(42)}

	sum, err := run(context.Background(), options{inPath: writeStream(t, bad)})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Errors)
	assert.Equal(t, 2, sum.Frames)
	assert.Empty(t, sum.SessionID)
}

func TestRunAbortOnError(t *testing.T) {
	muteLogs(t)
	cfgPath := filepath.Join(t.TempDir(), "decoder.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"abort_on_error": true}`), 0644))
	bad := &l1payloads.Payload{Type: l1payloads.PayloadType(42)}

	_, err := run(context.Background(), options{inPath: writeStream(t, bad), configPath: cfgPath})
	assert.Error(t, err)
}

func TestRunInputErrors(t *testing.T) {
	muteLogs(t)
	stream := writeStream(t)

	tests := []struct {
		name string
		opts options
	}{
		{"no input", options{}},
		{"both inputs", options{inPath: stream, pcapPath: stream}},
		{"missing file", options{inPath: filepath.Join(t.TempDir(), "none.bin")}},
		{"missing config", options{inPath: stream, configPath: filepath.Join(t.TempDir(), "none.json")}},
		{"not a capture", options{pcapPath: stream}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(context.Background(), tt.opts)
			assert.Error(t, err)
		})
	}
}
