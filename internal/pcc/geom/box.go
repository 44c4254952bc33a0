package geom

// Box3 is an axis-aligned box with inclusive Min and Max corners.
type Box3 struct {
	Min Vec3[int32]
	Max Vec3[int32]
}

// EmptyBox returns a box that contains nothing and grows on the first Extend.
func EmptyBox() Box3 {
	const maxI, minI = int32(1<<31 - 1), int32(-1 << 31)
	return Box3{
		Min: Vec3[int32]{maxI, maxI, maxI},
		Max: Vec3[int32]{minI, minI, minI},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box to include p.
func (b *Box3) Extend(p Vec3[int32]) {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}

// Contains reports whether p lies inside the box, boundaries included.
func (b Box3) Contains(p Vec3[int32]) bool {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] || p[k] > b.Max[k] {
			return false
		}
	}
	return true
}

// InsideBounds reports whether every component of a lies in [0, bbsize].
func InsideBounds(a Vec3[int32], bbsize int32) bool {
	return Box3{Max: Vec3[int32]{bbsize, bbsize, bbsize}}.Contains(a)
}
