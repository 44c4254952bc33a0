package pointset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
)

func TestResizeAndAttributes(t *testing.T) {
	ps := New()
	ps.AddRemoveAttributes(true, true)
	ps.Resize(3)
	ps.SetPosition(1, geom.Vec3[int32]{1, 2, 3})
	ps.SetColour(2, Colour{10, 20, 30})
	ps.SetReflectance(0, 99)

	assert.Equal(t, 3, ps.Len())
	assert.True(t, ps.HasColours())
	assert.True(t, ps.HasReflectances())
	assert.Equal(t, geom.Vec3[int32]{1, 2, 3}, ps.Position(1))
	assert.Equal(t, Colour{10, 20, 30}, ps.Colour(2))
	assert.Equal(t, uint16(99), ps.Reflectance(0))

	ps.Clear()
	assert.Equal(t, 0, ps.Len())
	assert.True(t, ps.HasColours(), "clear keeps declared attributes")

	// Regrowing after a clear must not resurrect old values.
	ps.Resize(3)
	assert.Equal(t, geom.Vec3[int32]{}, ps.Position(1))
	assert.Equal(t, Colour{}, ps.Colour(2))
}

func TestTranslateAndAppend(t *testing.T) {
	slice := New()
	slice.AddRemoveAttributes(false, true)
	slice.AddPoint(geom.Vec3[int32]{0, 0, 0})
	slice.AddPoint(geom.Vec3[int32]{1, 2, 3})
	slice.SetReflectance(1, 7)
	slice.Translate(geom.Vec3[int32]{10, 10, 10})

	accum := New()
	accum.Append(slice)
	accum.Append(slice)

	assert.Equal(t, 4, accum.Len())
	assert.True(t, accum.HasReflectances(), "empty accumulator adopts attributes")
	assert.False(t, accum.HasColours())
	assert.Equal(t, geom.Vec3[int32]{11, 12, 13}, accum.Position(3))
	assert.Equal(t, uint16(7), accum.Reflectance(3))

	b := accum.Bounds()
	assert.Equal(t, geom.Vec3[int32]{10, 10, 10}, b.Min)
	assert.Equal(t, geom.Vec3[int32]{11, 12, 13}, b.Max)
}

func TestSetPositions(t *testing.T) {
	ps := New()
	ps.AddRemoveAttributes(true, false)
	ps.AddPoint(geom.Vec3[int32]{9, 9, 9})
	ps.SetColour(0, Colour{1, 1, 1})

	ps.SetPositions([]geom.Vec3[int32]{{1, 1, 1}, {2, 2, 2}})
	assert.Equal(t, []geom.Vec3[int32]{{1, 1, 1}, {2, 2, 2}}, ps.Positions())
	assert.Equal(t, Colour{}, ps.Colour(0))
}
