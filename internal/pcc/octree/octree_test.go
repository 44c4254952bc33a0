package octree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/entropy"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
	"github.com/banshee-data/gpcc-decoder/internal/testutil"
)

func started(t *testing.T, buf []byte) *entropy.BypassDecoder {
	t.Helper()
	dec := entropy.NewBypassDecoder(buf)
	require.NoError(t, dec.Start())
	return dec
}

func TestChildOffset(t *testing.T) {
	assert.Equal(t, geom.Vec3[int32]{0, 0, 0}, ChildOffset(0, 3))
	assert.Equal(t, geom.Vec3[int32]{0, 0, 8}, ChildOffset(1, 3))
	assert.Equal(t, geom.Vec3[int32]{8, 0, 0}, ChildOffset(4, 3))
	assert.Equal(t, geom.Vec3[int32]{2, 2, 2}, ChildOffset(7, 1))
}

func TestDecodeUniquePoints(t *testing.T) {
	points := []geom.Vec3[int32]{{0, 0, 0}, {7, 1, 3}, {2, 6, 5}, {7, 7, 7}}
	gps := &hls.GeometryParameterSet{UniquePoints: true}
	gbh := &hls.GeometryBrickHeader{MaxNodeSizeLog2: 3, NumPoints: uint32(len(points))}

	body := testutil.EncodePointGeometry(points, 3, true)
	cloud := pointset.New()
	require.NoError(t, Decode(gps, gbh, cloud, started(t, body)))

	want := testutil.OctreeOrder(points, 3)
	if diff := cmp.Diff(want, cloud.Positions()); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	assert.ElementsMatch(t, points, cloud.Positions())
}

func TestDecodeDuplicatePoints(t *testing.T) {
	points := []geom.Vec3[int32]{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}, {0, 3, 2}}
	gps := &hls.GeometryParameterSet{UniquePoints: false}
	gbh := &hls.GeometryBrickHeader{MaxNodeSizeLog2: 2, NumPoints: 4}

	body := testutil.EncodePointGeometry(points, 2, false)
	cloud := pointset.New()
	require.NoError(t, Decode(gps, gbh, cloud, started(t, body)))
	assert.ElementsMatch(t, points, cloud.Positions())
}

func TestDecodePointCountMismatch(t *testing.T) {
	points := []geom.Vec3[int32]{{0, 0, 0}, {3, 3, 3}}
	gps := &hls.GeometryParameterSet{UniquePoints: true}
	body := testutil.EncodePointGeometry(points, 2, true)

	for _, declared := range []uint32{1, 3} {
		gbh := &hls.GeometryBrickHeader{MaxNodeSizeLog2: 2, NumPoints: declared}
		err := Decode(gps, gbh, pointset.New(), started(t, body))
		require.Error(t, err, "declared %d", declared)
		assert.ErrorIs(t, err, pcc.ErrPointCount)
		assert.True(t, pcc.IsBitstreamError(err))
	}
}

func TestDecodeRejectsOversizedPointCount(t *testing.T) {
	points := []geom.Vec3[int32]{{1, 2, 3}}
	body := testutil.EncodePointGeometry(points, 3, true)

	for _, declared := range []uint32{1<<32 - 2, MaxPoints + 1} {
		gbh := &hls.GeometryBrickHeader{MaxNodeSizeLog2: 3, NumPoints: declared}

		err := Decode(&hls.GeometryParameterSet{UniquePoints: true}, gbh, pointset.New(), started(t, body))
		assert.ErrorIs(t, err, pcc.ErrPointCount, "declared %d", declared)

		err = DecodeScalable(&hls.GeometryParameterSet{UniquePoints: true}, gbh, 1, pointset.New(), started(t, body))
		assert.ErrorIs(t, err, pcc.ErrPointCount, "scalable, declared %d", declared)
	}
}

func TestDecodeDeclaredCountAboveCoded(t *testing.T) {
	// A count below the limit but far above what the body codes fails on
	// the decoded total, not on allocation.
	points := []geom.Vec3[int32]{{1, 2, 3}}
	gbh := &hls.GeometryBrickHeader{MaxNodeSizeLog2: 3, NumPoints: MaxPoints}
	body := testutil.EncodePointGeometry(points, 3, true)

	err := Decode(&hls.GeometryParameterSet{UniquePoints: true}, gbh, pointset.New(), started(t, body))
	assert.ErrorIs(t, err, pcc.ErrPointCount)
}

func TestDecodeLeavesCutoff(t *testing.T) {
	points := []geom.Vec3[int32]{{0, 0, 0}, {1, 1, 1}, {5, 0, 0}, {6, 7, 7}}
	var w testutil.SymbolWriter
	w.EncodeOctree(points, 3, 1)
	w.ByteAlign()

	nodes, err := DecodeLeaves(started(t, w.Bytes()), 3, 1, 64)
	require.NoError(t, err)
	want := []Node{
		{Pos: geom.Vec3[int32]{0, 0, 0}, SizeLog2: 1},
		{Pos: geom.Vec3[int32]{4, 0, 0}, SizeLog2: 1},
		{Pos: geom.Vec3[int32]{6, 6, 6}, SizeLog2: 1},
	}
	assert.Equal(t, want, nodes)
	assert.Equal(t, int32(2), nodes[0].Width())
}

func TestDecodeLeavesErrors(t *testing.T) {
	_, err := DecodeLeaves(started(t, []byte{0x00}), 1, 0, 8)
	assert.ErrorIs(t, err, pcc.ErrSymbolRange, "empty occupancy")

	_, err = DecodeLeaves(started(t, nil), 1, 0, 8)
	assert.ErrorIs(t, err, pcc.ErrTruncated)

	_, err = DecodeLeaves(started(t, []byte{0xff}), 1, 0, 4)
	assert.ErrorIs(t, err, pcc.ErrPointCount)

	_, err = DecodeLeaves(started(t, nil), 1, 2, 8)
	assert.ErrorIs(t, err, pcc.ErrHeaderValue)

	nodes, err := DecodeLeaves(started(t, nil), 4, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDecodeScalable(t *testing.T) {
	points := []geom.Vec3[int32]{{0, 0, 0}, {1, 1, 1}, {5, 0, 0}}
	gps := &hls.GeometryParameterSet{UniquePoints: true}
	gbh := &hls.GeometryBrickHeader{MaxNodeSizeLog2: 3, NumPoints: 3}
	body := testutil.EncodePointGeometry(points, 3, true)

	cloud := pointset.New()
	require.NoError(t, DecodeScalable(gps, gbh, 1, cloud, started(t, body)))
	assert.Equal(t, []geom.Vec3[int32]{{0, 0, 0}, {4, 0, 0}}, cloud.Positions())
}
