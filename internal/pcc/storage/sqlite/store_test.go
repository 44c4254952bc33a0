package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
)

func openTestStore(t *testing.T) *FrameStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenMigrates(t *testing.T) {
	store := openTestStore(t)

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestOpenTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.db")
	first, err := Open(path)
	require.NoError(t, err)
	id, err := first.BeginSession("a.bin")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	sess, err := second.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, "a.bin", sess.Source)
}

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)

	id, err := store.BeginSession("capture.pcap")
	require.NoError(t, err)
	assert.Len(t, id, 36)

	sess, err := store.GetSession(id)
	require.NoError(t, err)
	assert.Nil(t, sess.FinishedUnixNs)
	assert.NotZero(t, sess.StartedUnixNs)

	require.NoError(t, store.FinishSession(id, SessionTotals{Frames: 3, Points: 120, Errors: 1}))
	sess, err = store.GetSession(id)
	require.NoError(t, err)
	require.NotNil(t, sess.FinishedUnixNs)
	assert.Equal(t, 3, sess.Frames)
	assert.Equal(t, 120, sess.Points)
	assert.Equal(t, 1, sess.Errors)
}

func TestFinishUnknownSession(t *testing.T) {
	store := openTestStore(t)
	err := store.FinishSession("missing", SessionTotals{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordAndListFrames(t *testing.T) {
	store := openTestStore(t)
	id, err := store.BeginSession("stream.bin")
	require.NoError(t, err)

	points := []geom.Vec3[int32]{{0, 0, 0}, {-3, 7, 1 << 20}, {5, 5, 5}}
	bounds := geom.EmptyBox()
	for _, p := range points {
		bounds.Extend(p)
	}

	// Recorded out of order to check ORDER BY.
	require.NoError(t, store.RecordFrame(id, FrameRecord{
		FrameIndex: 1, SPSID: 2, PointCount: 0, Bounds: geom.EmptyBox(), DecodedUnixNs: 99,
	}))
	require.NoError(t, store.RecordFrame(id, FrameRecord{
		FrameIndex: 0, SPSID: 2, PointCount: len(points), Bounds: bounds, Points: points,
	}))

	frames, err := store.ListFrames(id)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, 0, frames[0].FrameIndex)
	assert.Equal(t, uint32(2), frames[0].SPSID)
	assert.NotZero(t, frames[0].DecodedUnixNs)
	if diff := cmp.Diff(bounds, frames[0].Bounds); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(points, frames[0].Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, int64(99), frames[1].DecodedUnixNs)
	assert.True(t, frames[1].Bounds.IsEmpty())
	assert.Nil(t, frames[1].Points)
}

func TestRecordFrameDuplicateIndex(t *testing.T) {
	store := openTestStore(t)
	id, err := store.BeginSession("dup")
	require.NoError(t, err)

	require.NoError(t, store.RecordFrame(id, FrameRecord{FrameIndex: 0, Bounds: geom.EmptyBox()}))
	assert.Error(t, store.RecordFrame(id, FrameRecord{FrameIndex: 0, Bounds: geom.EmptyBox()}))
}

func TestRecordFrameUnknownSession(t *testing.T) {
	store := openTestStore(t)
	err := store.RecordFrame("no-such-session", FrameRecord{Bounds: geom.EmptyBox()})
	assert.Error(t, err, "foreign key must reject frames without a session")
}

func TestPointBlobCodec(t *testing.T) {
	assert.Nil(t, encodePoints(nil))

	got, err := decodePoints(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = decodePoints(make([]byte, 13))
	assert.Error(t, err)

	want := []geom.Vec3[int32]{{-1, 2, -3}}
	got, err = decodePoints(encodePoints(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
