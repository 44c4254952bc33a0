package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
	"github.com/banshee-data/gpcc-decoder/internal/testutil"
)

var (
	colour8      = hls.AttributeDescription{Dimension: 3, Label: hls.LabelColour, BitDepth: 8}
	reflectance8 = hls.AttributeDescription{Dimension: 1, Label: hls.LabelReflectance, BitDepth: 8}
)

func cloudOf(n int, withColour, withReflectance bool) *pointset.PointSet {
	cloud := pointset.New()
	cloud.AddRemoveAttributes(withColour, withReflectance)
	for i := 0; i < n; i++ {
		cloud.AddPoint(geom.Vec3[int32]{int32(i), 0, 0})
	}
	return cloud
}

func TestDecodeRawColour(t *testing.T) {
	aps := &hls.AttributeParameterSet{ID: 1, CodingType: hls.AttributeCodingRaw, QuantStep: 1}
	codes := [][]uint32{{10, 20, 30}, {255, 0, 7}}
	cloud := cloudOf(2, true, false)

	require.NoError(t, New(aps).Decode(colour8, aps, testutil.EncodeRawAttributes(codes, 8), cloud))
	assert.Equal(t, pointset.Colour{10, 20, 30}, cloud.Colour(0))
	assert.Equal(t, pointset.Colour{255, 0, 7}, cloud.Colour(1))
}

func TestDecodeDeltaReflectanceWithQuantisation(t *testing.T) {
	aps := &hls.AttributeParameterSet{ID: 2, CodingType: hls.AttributeCodingDelta, QuantStep: 4}
	codes := [][]uint32{{5}, {3}, {70}, {70}}
	cloud := cloudOf(4, false, true)

	require.NoError(t, New(aps).Decode(reflectance8, aps, testutil.EncodeDeltaAttributes(codes), cloud))
	assert.Equal(t, uint16(20), cloud.Reflectance(0))
	assert.Equal(t, uint16(12), cloud.Reflectance(1))
	assert.Equal(t, uint16(255), cloud.Reflectance(2), "clipped to bit depth")
	assert.Equal(t, uint16(255), cloud.Reflectance(3))
}

func TestDecodeRequiresStorage(t *testing.T) {
	aps := &hls.AttributeParameterSet{QuantStep: 1}
	err := New(aps).Decode(colour8, aps, nil, cloudOf(1, false, true))
	assert.ErrorIs(t, err, pcc.ErrAttributeIndex)
	assert.True(t, pcc.IsProtocolError(err))
}

func TestDecodeTruncated(t *testing.T) {
	aps := &hls.AttributeParameterSet{QuantStep: 1}
	err := New(aps).Decode(colour8, aps, []byte{0x01}, cloudOf(1, true, false))
	assert.ErrorIs(t, err, pcc.ErrTruncated)
}

func TestIsReusable(t *testing.T) {
	aps := &hls.AttributeParameterSet{ID: 1, SPSID: 0, CodingType: hls.AttributeCodingDelta, QuantStep: 2}
	dec := New(aps)

	same := *aps
	same.SPSID = 3
	assert.True(t, dec.IsReusable(&same))

	for _, other := range []hls.AttributeParameterSet{
		{ID: 2, CodingType: hls.AttributeCodingDelta, QuantStep: 2},
		{ID: 1, CodingType: hls.AttributeCodingRaw, QuantStep: 2},
		{ID: 1, CodingType: hls.AttributeCodingDelta, QuantStep: 1},
	} {
		other := other
		assert.False(t, dec.IsReusable(&other), "%+v", other)
	}
}
