// Package trisoup reconstructs surface voxels from trisoup coded geometry.
//
// A trisoup brick codes its octree only down to blocks of a fixed width.
// Every block edge that the surface crosses carries the crossing position;
// the crossings of each block form a polygon that is split into triangles
// and voxelised. All geometry is evaluated in Q8 fixed point so that every
// decoder produces exactly the same voxels.
package trisoup

import "github.com/banshee-data/gpcc-decoder/internal/pcc/geom"

// NoVertex marks a segment that the surface does not cross.
const NoVertex = -1

// edgeCorners lists the 12 block edges as pairs of corner offsets in units
// of the block width, in coding order.
var edgeCorners = [12][2]geom.Vec3[int32]{
	{{0, 0, 0}, {1, 0, 0}}, // far bottom
	{{0, 0, 0}, {0, 1, 0}}, // far left
	{{0, 1, 0}, {1, 1, 0}}, // far top
	{{1, 0, 0}, {1, 1, 0}}, // far right
	{{0, 0, 0}, {0, 0, 1}}, // bottom left
	{{0, 1, 0}, {0, 1, 1}}, // top left
	{{1, 1, 0}, {1, 1, 1}}, // top right
	{{1, 0, 0}, {1, 0, 1}}, // bottom right
	{{0, 0, 1}, {1, 0, 1}}, // near bottom
	{{0, 0, 1}, {0, 1, 1}}, // near left
	{{0, 1, 1}, {1, 1, 1}}, // near top
	{{1, 0, 1}, {1, 1, 1}}, // near right
}

// Segment is one edge of a leaf block. Index is the position of the edge in
// the enumeration of all leaves (12 per leaf); UniqueIndex identifies the
// edge among the deduplicated edges shared by adjacent leaves.
type Segment struct {
	Start       geom.Vec3[int32]
	End         geom.Vec3[int32]
	Index       int
	UniqueIndex int
	Vertex      int
}

// packKey packs a position with 21 bits per axis.
func packKey(p geom.Vec3[int32]) uint64 {
	return uint64(p[0])<<42 | uint64(p[1])<<21 | uint64(p[2])
}

// Less orders segments by start, then end, then Index.
func (s Segment) Less(o Segment) bool {
	a, b := packKey(s.Start), packKey(o.Start)
	if a != b {
		return a < b
	}
	a, b = packKey(s.End), packKey(o.End)
	if a != b {
		return a < b
	}
	return s.Index < o.Index
}

// SameEdge reports whether both segments join the same corners.
func (s Segment) SameEdge(o Segment) bool {
	return s.Start == o.Start && s.End == o.End
}

// axis returns the axis along which the segment runs.
func (s Segment) axis() int {
	d := s.End.Sub(s.Start)
	switch {
	case d[0] > 0:
		return 0
	case d[1] > 0:
		return 1
	}
	return 2
}

// EnumerateSegments returns the 12 edges of every leaf block, leaf by leaf.
func EnumerateSegments(leaves []geom.Vec3[int32], blockWidth int32) []Segment {
	segments := make([]Segment, 0, 12*len(leaves))
	for i, pos := range leaves {
		for k, corners := range edgeCorners {
			segments = append(segments, Segment{
				Start:       pos.Add(corners[0].Scale(blockWidth)),
				End:         pos.Add(corners[1].Scale(blockWidth)),
				Index:       12*i + k,
				UniqueIndex: -1,
				Vertex:      NoVertex,
			})
		}
	}
	return segments
}
