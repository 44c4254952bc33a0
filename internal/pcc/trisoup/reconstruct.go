package trisoup

import (
	"sort"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

// polyTriangles splits an n-gon, n = 3..12, into n-2 triangles. The entries
// for n start at (n-3)(n-2)/2.
var polyTriangles = [...][3]int{
	{0, 1, 2},
	{0, 1, 2}, {2, 3, 0},
	{0, 1, 2}, {2, 3, 4}, {4, 0, 2},
	{0, 1, 2}, {2, 3, 4}, {4, 5, 0}, {0, 2, 4},
	{0, 1, 2}, {2, 3, 4}, {4, 5, 6}, {6, 0, 2}, {2, 4, 6},
	{0, 1, 2}, {2, 3, 4}, {4, 5, 6}, {6, 7, 0}, {0, 2, 4}, {4, 6, 0},
	{0, 1, 2}, {2, 3, 4}, {4, 5, 6}, {6, 7, 8}, {8, 0, 2}, {2, 4, 6}, {6, 8, 2},
	{0, 1, 2}, {2, 3, 4}, {4, 5, 6}, {6, 7, 8}, {8, 9, 0}, {0, 2, 4}, {4, 6, 8}, {8, 0, 4},
	{0, 1, 2}, {2, 3, 4}, {4, 5, 6}, {6, 7, 8}, {8, 9, 10}, {10, 0, 2}, {2, 4, 6}, {6, 8, 10}, {10, 2, 6},
	{0, 1, 2}, {2, 3, 4}, {4, 5, 6}, {6, 7, 8}, {8, 9, 10}, {10, 11, 0}, {0, 2, 4}, {4, 6, 8}, {8, 10, 0}, {0, 4, 8},
}

// Triangles returns the vertex index triples that split an n-gon. It
// returns nil unless 3 <= n <= 12.
func Triangles(n int) [][3]int {
	if n < 3 || n > 12 {
		return nil
	}
	triCount := n - 2
	triStart := (triCount - 1) * triCount / 2
	return polyTriangles[triStart : triStart+triCount]
}

// DeduplicateSegments sorts a copy of segments, sets UniqueIndex on every
// input segment and returns the distinct edges in sorted order.
func DeduplicateSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	sorted := append([]Segment(nil), segments...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	unique := []Segment{sorted[0]}
	segments[sorted[0].Index].UniqueIndex = 0
	for _, s := range sorted[1:] {
		if !unique[len(unique)-1].SameEdge(s) {
			unique = append(unique, s)
		}
		segments[s.Index].UniqueIndex = len(unique) - 1
	}
	return unique
}

// AssignVertices walks the unique edges in order, consuming one segind flag
// per edge and one vertex code per set flag, and copies the result to every
// segment. Flags beyond the unique edge count are ignored; too few flags or
// a vertex list that does not match the set flags is an error.
func AssignVertices(segments, unique []Segment, segind []bool, vertices []int, blockWidth int32) error {
	const op = "trisoup vertices"
	if len(segind) < len(unique) {
		return pcc.Bitstreamf(op, pcc.ErrSegmentCount, "%d flags for %d unique segments", len(segind), len(unique))
	}
	next := 0
	for i := range unique {
		unique[i].Vertex = NoVertex
		if !segind[i] {
			continue
		}
		if next >= len(vertices) {
			return pcc.Bitstreamf(op, pcc.ErrVertexCount, "more than %d intersecting segments", len(vertices))
		}
		v := vertices[next]
		if v < 0 || v >= int(blockWidth) {
			return pcc.Bitstreamf(op, pcc.ErrSymbolRange, "vertex code %d, block width %d", v, blockWidth)
		}
		unique[i].Vertex = v
		next++
	}
	if next != len(vertices) {
		return pcc.Bitstreamf(op, pcc.ErrVertexCount, "%d vertices for %d intersecting segments", len(vertices), next)
	}
	for i := range segments {
		segments[i].Vertex = unique[segments[i].UniqueIndex].Vertex
	}
	return nil
}

// Vertex is a surface crossing of a leaf block in Q8 fixed point.
type Vertex struct {
	Pos        geom.Vec3[int32]
	Theta      int32
	Tiebreaker int32
}

// intersectionDistance returns the Q8 distance of a vertex code along an
// edge of length blockWidth. The first and last codes sit on the corners,
// the others on the centre of their voxel.
func intersectionDistance(code int, blockWidth int32) int32 {
	switch int32(code) {
	case 0:
		return 0
	case blockWidth - 1:
		return blockWidth << geom.FixedPointBits
	}
	return int32(code)<<geom.FixedPointBits + geom.FixedPointHalf
}

// LeafVertices places the crossings of one leaf's 12 segments.
func LeafVertices(leafSegments []Segment, blockWidth int32) []Vertex {
	var out []Vertex
	for _, s := range leafSegments {
		if s.Vertex == NoVertex {
			continue
		}
		point := s.Start.Shl(geom.FixedPointBits)
		point[s.axis()] += intersectionDistance(s.Vertex, blockWidth)
		out = append(out, Vertex{Pos: point})
	}
	return out
}

// DominantAxis returns the axis along which the vertices vary least. Ties
// resolve to the lowest axis.
func DominantAxis(vertices []Vertex) int {
	var sum geom.Vec3[int64]
	for _, v := range vertices {
		sum = sum.Add(geom.Widen(v.Pos))
	}
	mean := sum.Div(int64(len(vertices)))
	centroid := geom.Vec3[int32]{int32(mean[0]), int32(mean[1]), int32(mean[2])}

	var ss geom.Vec3[int64]
	for _, v := range vertices {
		s := geom.Widen(v.Pos.Sub(centroid))
		for k := 0; k < 3; k++ {
			ss[k] += (s[k] * s[k]) >> geom.FixedPointBits
		}
	}

	axis := 0
	for k := 1; k < 3; k++ {
		if ss[axis] > ss[k] {
			axis = k
		}
	}
	return axis
}

// OrderVertices sorts vertices by decreasing angle around blockCenter in
// the plane orthogonal to axis, breaking ties by increasing position along
// axis.
func OrderVertices(vertices []Vertex, axis int, blockCenter geom.Vec3[int32]) {
	for i := range vertices {
		s := vertices[i].Pos.Sub(blockCenter)
		switch axis {
		case 0:
			vertices[i].Theta = geom.TrisoupAtan2(s[2], s[1])
		case 1:
			vertices[i].Theta = geom.TrisoupAtan2(s[2], s[0])
		default:
			vertices[i].Theta = geom.TrisoupAtan2(s[1], s[0])
		}
		vertices[i].Tiebreaker = s[axis]
	}
	sort.SliceStable(vertices, func(i, j int) bool {
		if vertices[i].Theta != vertices[j].Theta {
			return vertices[i].Theta > vertices[j].Theta
		}
		return vertices[i].Tiebreaker < vertices[j].Tiebreaker
	})
}

// rayIntersectsTriangle is a Q8 Möller–Trumbore test. Rays parallel to the
// triangle plane and degenerate triangles never intersect.
func rayIntersectsTriangle(origin, ray, v0, v1, v2 geom.Vec3[int64]) (geom.Vec3[int64], bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	s := origin.Sub(v0)
	h := geom.Cross(ray, edge2)

	a := edge1.Dot(h) >> geom.FixedPointBits
	if a == 0 {
		return geom.Vec3[int64]{}, false
	}

	u := s.Dot(h) / a
	if u < 0 || u > geom.FixedPointOne {
		return geom.Vec3[int64]{}, false
	}

	q := geom.Cross(s, edge1)
	v := ray.Dot(q) / a
	if v < 0 || u+v > geom.FixedPointOne {
		return geom.Vec3[int64]{}, false
	}

	t := edge2.Dot(q) / a
	if t <= 0 {
		return geom.Vec3[int64]{}, false
	}
	return origin.Add(ray.Scale(t).Shr(geom.FixedPointBits)), true
}

// voxeliser collects voxel positions inside [0, clip] on every axis.
type voxeliser struct {
	clip   int32
	voxels []geom.Vec3[int32]
}

func (vx *voxeliser) emit(p geom.Vec3[int64]) {
	voxel := geom.Truncate(p, -geom.FixedPointHalf).Shr(geom.FixedPointBits)
	if geom.InsideBounds(voxel, vx.clip) {
		vx.voxels = append(vx.voxels, voxel)
	}
}

var (
	rayG1Axis = [3]int{1, 0, 0}
	rayG2Axis = [3]int{2, 2, 1}
)

// triangle emits the corners of a triangle and every crossing of the
// triangle with the axis aligned grid lines over its bounding box.
func (vx *voxeliser) triangle(v0, v1, v2 geom.Vec3[int64]) {
	vx.emit(v0)
	vx.emit(v1)
	vx.emit(v2)

	for dir := 0; dir < 3; dir++ {
		g1Axis, g2Axis := rayG1Axis[dir], rayG2Axis[dir]
		g1Start := geom.MinOf(v0[g1Axis], v1[g1Axis], v2[g1Axis]) >> geom.FixedPointBits
		g2Start := geom.MinOf(v0[g2Axis], v1[g2Axis], v2[g2Axis]) >> geom.FixedPointBits
		g1End := geom.MaxOf(v0[g1Axis], v1[g1Axis], v2[g1Axis]) >> geom.FixedPointBits
		g2End := geom.MaxOf(v0[g2Axis], v1[g2Axis], v2[g2Axis]) >> geom.FixedPointBits

		for g1 := g1Start; g1 <= g1End; g1++ {
			for g2 := g2Start; g2 <= g2End; g2++ {
				for _, sign := range [2]int64{-1, 1} {
					rayStart := int64(vx.clip) + 1
					if sign > 0 {
						rayStart = -1
					}
					var origin, ray geom.Vec3[int64]
					origin[dir] = rayStart
					origin[g1Axis] = g1
					origin[g2Axis] = g2
					ray[dir] = sign

					hit, ok := rayIntersectsTriangle(
						origin.Shl(geom.FixedPointBits), ray.Shl(geom.FixedPointBits), v0, v1, v2)
					if ok {
						vx.emit(hit)
					}
				}
			}
		}
	}
}

// Reconstruct replaces the contents of cloud with the voxelised surface
// of the given leaf blocks. segind holds one flag per unique block edge and
// vertices one code per set flag. Reconstructed voxels outside [0, clip]
// are dropped.
func Reconstruct(leaves []geom.Vec3[int32], segind []bool, vertices []int, cloud *pointset.PointSet, blockWidth, clip int32) error {
	if len(leaves) == 0 {
		cloud.SetPositions(nil)
		return nil
	}

	segments := EnumerateSegments(leaves, blockWidth)
	unique := DeduplicateSegments(segments)
	if err := AssignVertices(segments, unique, segind, vertices, blockWidth); err != nil {
		return err
	}
	pcc.Tracef("trisoup: %d leaves, %d unique segments, %d vertices", len(leaves), len(unique), len(vertices))

	vx := &voxeliser{clip: clip}
	for i, leaf := range leaves {
		verts := LeafVertices(segments[12*i:12*i+12], blockWidth)
		if len(verts) < 3 {
			continue
		}
		axis := DominantAxis(verts)
		blockCenter := leaf.AddScalar(blockWidth / 2).Shl(geom.FixedPointBits)
		OrderVertices(verts, axis, blockCenter)

		for _, tri := range Triangles(len(verts)) {
			vx.triangle(
				geom.Widen(verts[tri[0]].Pos),
				geom.Widen(verts[tri[1]].Pos),
				geom.Widen(verts[tri[2]].Pos))
		}
	}

	cloud.SetPositions(SortUnique(vx.voxels))
	return nil
}

// SortUnique sorts points lexicographically and removes duplicates in
// place, returning the shortened slice.
func SortUnique(points []geom.Vec3[int32]) []geom.Vec3[int32] {
	sort.Slice(points, func(i, j int) bool { return points[i].Less(points[j]) })
	n := 0
	for i, p := range points {
		if i > 0 && p == points[n-1] {
			continue
		}
		points[n] = p
		n++
	}
	return points[:n]
}
