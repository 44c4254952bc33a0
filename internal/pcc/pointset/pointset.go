// Package pointset provides the point cloud buffer shared by the slice
// decoders and the frame accumulator.
package pointset

import (
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
)

// Colour is a three component attribute value.
type Colour [3]uint16

// PointSet holds positions and, when declared, per-point colours and
// reflectances. Attribute slices always have the same length as positions.
type PointSet struct {
	positions       []geom.Vec3[int32]
	colours         []Colour
	reflectances    []uint16
	withColour      bool
	withReflectance bool
}

// New returns an empty point set without attributes.
func New() *PointSet {
	return &PointSet{}
}

// Len returns the number of points.
func (ps *PointSet) Len() int {
	return len(ps.positions)
}

// HasColours reports whether colour storage is declared.
func (ps *PointSet) HasColours() bool { return ps.withColour }

// HasReflectances reports whether reflectance storage is declared.
func (ps *PointSet) HasReflectances() bool { return ps.withReflectance }

// Clear removes every point and keeps the declared attributes.
func (ps *PointSet) Clear() {
	ps.positions = ps.positions[:0]
	ps.colours = ps.colours[:0]
	ps.reflectances = ps.reflectances[:0]
}

// AddRemoveAttributes declares or removes the attribute channels.
func (ps *PointSet) AddRemoveAttributes(withColour, withReflectance bool) {
	ps.withColour = withColour
	ps.withReflectance = withReflectance
	n := ps.Len()
	if withColour {
		ps.colours = resize(ps.colours, n)
	} else {
		ps.colours = nil
	}
	if withReflectance {
		ps.reflectances = resize(ps.reflectances, n)
	} else {
		ps.reflectances = nil
	}
}

// Resize sets the number of points; new entries are zero.
func (ps *PointSet) Resize(n int) {
	ps.positions = resize(ps.positions, n)
	if ps.withColour {
		ps.colours = resize(ps.colours, n)
	}
	if ps.withReflectance {
		ps.reflectances = resize(ps.reflectances, n)
	}
}

func resize[T any](s []T, n int) []T {
	if n <= cap(s) {
		old := len(s)
		s = s[:n]
		var zero T
		for i := old; i < n; i++ {
			s[i] = zero
		}
		return s
	}
	out := make([]T, n)
	copy(out, s)
	return out
}

// Position returns the position of point i.
func (ps *PointSet) Position(i int) geom.Vec3[int32] {
	return ps.positions[i]
}

// SetPosition sets the position of point i.
func (ps *PointSet) SetPosition(i int, p geom.Vec3[int32]) {
	ps.positions[i] = p
}

// Positions returns the position storage. The slice aliases the point set.
func (ps *PointSet) Positions() []geom.Vec3[int32] {
	return ps.positions
}

// AddPoint appends a point with zero attributes.
func (ps *PointSet) AddPoint(p geom.Vec3[int32]) {
	ps.positions = append(ps.positions, p)
	if ps.withColour {
		ps.colours = append(ps.colours, Colour{})
	}
	if ps.withReflectance {
		ps.reflectances = append(ps.reflectances, 0)
	}
}

// SetPositions replaces the cloud with points at the given positions;
// attributes are reset to zero.
func (ps *PointSet) SetPositions(points []geom.Vec3[int32]) {
	ps.Resize(0)
	ps.Resize(len(points))
	copy(ps.positions, points)
}

// Colour returns the colour of point i.
func (ps *PointSet) Colour(i int) Colour {
	return ps.colours[i]
}

// SetColour sets the colour of point i.
func (ps *PointSet) SetColour(i int, c Colour) {
	ps.colours[i] = c
}

// Reflectance returns the reflectance of point i.
func (ps *PointSet) Reflectance(i int) uint16 {
	return ps.reflectances[i]
}

// SetReflectance sets the reflectance of point i.
func (ps *PointSet) SetReflectance(i int, r uint16) {
	ps.reflectances[i] = r
}

// Translate adds origin to every position.
func (ps *PointSet) Translate(origin geom.Vec3[int32]) {
	for i := range ps.positions {
		ps.positions[i] = ps.positions[i].Add(origin)
	}
}

// Append copies every point of other onto the end of ps. An empty ps first
// adopts the attribute channels of other. Otherwise attributes that ps
// declares but other lacks are appended as zero, and attributes other
// carries but ps does not declare are dropped.
func (ps *PointSet) Append(other *PointSet) {
	if ps.Len() == 0 {
		ps.AddRemoveAttributes(other.withColour, other.withReflectance)
	}
	n := ps.Len()
	ps.Resize(n + other.Len())
	copy(ps.positions[n:], other.positions)
	if ps.withColour && other.withColour {
		copy(ps.colours[n:], other.colours)
	}
	if ps.withReflectance && other.withReflectance {
		copy(ps.reflectances[n:], other.reflectances)
	}
}

// Bounds returns the bounding box of all positions.
func (ps *PointSet) Bounds() geom.Box3 {
	b := geom.EmptyBox()
	for _, p := range ps.positions {
		b.Extend(p)
	}
	return b
}
