package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3[int64]{1, 2, 3}
	b := Vec3[int64]{4, 5, 6}

	assert.Equal(t, Vec3[int64]{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec3[int64]{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, int64(32), a.Dot(b))
	assert.Equal(t, Vec3[int64]{-3, 6, -3}, Cross(a, b))
	assert.Equal(t, Vec3[int64]{256, 512, 768}, a.Shl(FixedPointBits))
	assert.Equal(t, Vec3[int64]{-1, 0, 1}, Vec3[int64]{-1, 255, 256}.Shr(FixedPointBits))
	assert.Equal(t, int64(6), b.MaxComponent())
}

func TestVec3Ordering(t *testing.T) {
	tests := []struct {
		a, b Vec3[int32]
		want int
	}{
		{Vec3[int32]{0, 0, 0}, Vec3[int32]{0, 0, 1}, -1},
		{Vec3[int32]{1, 0, 0}, Vec3[int32]{0, 9, 9}, 1},
		{Vec3[int32]{2, 3, 4}, Vec3[int32]{2, 3, 4}, 0},
		{Vec3[int32]{2, 2, 9}, Vec3[int32]{2, 3, 0}, -1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTruncateClampsNegatives(t *testing.T) {
	in := Vec3[int64]{100, 1000, -50}
	got := Truncate(in, -FixedPointHalf)
	assert.Equal(t, Vec3[int32]{0, 872, 0}, got)
}

func TestInsideBounds(t *testing.T) {
	assert.True(t, InsideBounds(Vec3[int32]{0, 0, 0}, 7))
	assert.True(t, InsideBounds(Vec3[int32]{7, 7, 7}, 7))
	assert.False(t, InsideBounds(Vec3[int32]{8, 0, 0}, 7))
	assert.False(t, InsideBounds(Vec3[int32]{0, -1, 0}, 7))
}

func TestBoxExtend(t *testing.T) {
	b := EmptyBox()
	assert.True(t, b.IsEmpty())
	b.Extend(Vec3[int32]{3, -1, 5})
	b.Extend(Vec3[int32]{0, 4, 2})
	assert.False(t, b.IsEmpty())
	assert.Equal(t, Vec3[int32]{0, -1, 2}, b.Min)
	assert.Equal(t, Vec3[int32]{3, 4, 5}, b.Max)
	assert.True(t, b.Contains(Vec3[int32]{1, 0, 3}))
}

func TestTrisoupAtan2(t *testing.T) {
	tests := []struct {
		name string
		x, y int32
		want int32
	}{
		{"positive x axis", 256, 0, 0},
		{"negative x axis", -256, 0, atanPi},
		{"positive y axis", 0, 256, atanHalfPi},
		{"negative y axis", 0, -256, atanThreeHalfPi},
		{"first quadrant diagonal", 256, 256, atanLUT[21]},
		{"first quadrant shallow", 256, 64, atanLUT[5]},
		{"first quadrant steep", 64, 256, atanLUT[40]},
		{"second quadrant", -256, 64, atanLUT[5] + atanHalfPi},
		{"third quadrant", -256, -64, atanLUT[5] + atanPi},
		{"fourth quadrant", 256, -64, atanLUT[5] + atanThreeHalfPi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrisoupAtan2(tt.x, tt.y))
		})
	}
}
