package geom

// FixedPointBits is the number of fractional bits used in triangle
// voxelisation.
const FixedPointBits = 8

// FixedPointOne is the value 1 in fixed-point representation.
const FixedPointOne = 1 << FixedPointBits

// FixedPointHalf is one half in fixed-point representation.
const FixedPointHalf = 1 << (FixedPointBits - 1)

// Quadrant offsets of TrisoupAtan2, in fixed point radians.
const (
	atanHalfPi      = 402  // (PI/2) << FixedPointBits
	atanPi          = 804  // PI << FixedPointBits
	atanThreeHalfPi = 1206 // (3PI/2) << FixedPointBits
)

// atanLUT approximates atan over one quadrant in steps of 0.05.
var atanLUT = [41]int32{
	0, 12, 25, 38, 50, 62, 74, 86, 97, 108, 118, 128, 138, 147,
	156, 164, 172, 180, 187, 194, 201, 283, 319, 339, 351, 359, 365, 370,
	373, 376, 378, 380, 382, 383, 385, 386, 387, 387, 388, 389, 389,
}

// Truncate converts a 64-bit fixed-point position to 32 bits, adds offset
// to every component and clamps negative results to zero.
func Truncate(in Vec3[int64], offset int32) Vec3[int32] {
	var out Vec3[int32]
	for k := 0; k < 3; k++ {
		out[k] = int32(in[k]) + offset
		if out[k] < 0 {
			out[k] = 0
		}
	}
	return out
}

// TrisoupAtan2 is an integer approximation of atan2 used to order surface
// vertices around a block centre. x, y and the result are fixed-point with
// FixedPointBits fractional bits.
//
// The table is indexed in 0.05 steps only while |y/x| <= 1; steeper ratios
// saturate to the last entry.
func TrisoupAtan2(x, y int32) int32 {
	if y == 0 {
		if x < 0 {
			return atanPi
		}
		return 0
	}
	if x == 0 {
		if y > 0 {
			return atanHalfPi
		}
		return atanThreeHalfPi
	}

	var idx int32
	z := abs32((y << FixedPointBits) / x)
	if z <= FixedPointOne {
		idx = z / 12
	} else {
		idx = 40
	}

	atan := atanLUT[idx]
	switch {
	case x < 0 && y > 0:
		atan += atanHalfPi
	case x < 0 && y < 0:
		atan += atanPi
	case x > 0 && y < 0:
		atan += atanThreeHalfPi
	}
	return atan
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
