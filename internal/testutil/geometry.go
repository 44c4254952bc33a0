package testutil

import (
	"sort"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
)

// OctreeLeaf is an occupied node at the cutoff level of an encoded octree,
// with the number of input points that fell into it.
type OctreeLeaf struct {
	Pos   geom.Vec3[int32]
	Count int
}

type octreeCell struct {
	pos    geom.Vec3[int32]
	points []geom.Vec3[int32]
}

func childIndex(p geom.Vec3[int32], childLog2 uint32) int {
	return int((p[0]>>childLog2)&1)<<2 | int((p[1]>>childLog2)&1)<<1 | int((p[2]>>childLog2)&1)
}

// EncodeOctree writes the breadth first occupancy symbols of points from the
// root of side 1<<maxNodeSizeLog2 down to nodes of side 1<<cutoffLog2, and
// returns the cutoff nodes in decoding order.
func (w *SymbolWriter) EncodeOctree(points []geom.Vec3[int32], maxNodeSizeLog2, cutoffLog2 uint32) []OctreeLeaf {
	if len(points) == 0 {
		return nil
	}
	cells := []octreeCell{{points: points}}
	for sizeLog2 := maxNodeSizeLog2; sizeLog2 > cutoffLog2; sizeLog2-- {
		childLog2 := sizeLog2 - 1
		var next []octreeCell
		for _, cell := range cells {
			var children [8][]geom.Vec3[int32]
			occupancy := 0
			for _, p := range cell.points {
				i := childIndex(p, childLog2)
				children[i] = append(children[i], p)
				occupancy |= 1 << uint(i)
			}
			w.WriteSymbol(occupancy, 256)
			for i, pts := range children {
				if len(pts) == 0 {
					continue
				}
				offset := geom.Vec3[int32]{int32((i >> 2) & 1), int32((i >> 1) & 1), int32(i & 1)}
				next = append(next, octreeCell{
					pos:    cell.pos.Add(offset.Shl(uint(childLog2))),
					points: pts,
				})
			}
		}
		cells = next
	}

	leaves := make([]OctreeLeaf, len(cells))
	for i, cell := range cells {
		leaves[i] = OctreeLeaf{Pos: cell.pos, Count: len(cell.points)}
	}
	return leaves
}

// EncodePointGeometry returns the coded body of an octree geometry brick.
// When unique is false every point carries its duplicate count.
func EncodePointGeometry(points []geom.Vec3[int32], maxNodeSizeLog2 uint32, unique bool) []byte {
	var w SymbolWriter
	leaves := w.EncodeOctree(points, maxNodeSizeLog2, 0)
	if !unique {
		for _, leaf := range leaves {
			w.WriteExpGolomb(uint32(leaf.Count-1), 0)
		}
	}
	w.ByteAlign()
	return w.Bytes()
}

// TrisoupBody describes the coded content of a trisoup geometry brick.
// LeafPoints places one point in each leaf to be coded; Segind and Vertices
// are written as given, so malformed counts can be produced on purpose.
type TrisoupBody struct {
	LeafPoints []geom.Vec3[int32]
	Segind     []bool
	Vertices   []int
}

// EncodeTrisoup returns the coded body of a trisoup geometry brick whose
// leaves have side 1<<trisoupNodeSizeLog2.
func EncodeTrisoup(body TrisoupBody, maxNodeSizeLog2, trisoupNodeSizeLog2 uint32) []byte {
	var w SymbolWriter
	w.EncodeOctree(body.LeafPoints, maxNodeSizeLog2, trisoupNodeSizeLog2)

	nbytes := (len(body.Segind) + 7) / 8
	w.WriteExpGolomb(uint32(nbytes), 0)
	for i := 0; i < nbytes; i++ {
		c := 0
		for b := 0; b < 8; b++ {
			j := 8*i + b
			if j < len(body.Segind) && body.Segind[j] {
				c |= 1 << uint(7-b)
			}
		}
		w.WriteSymbol(c, 256)
	}

	blockWidth := 1 << trisoupNodeSizeLog2
	w.WriteExpGolomb(uint32(len(body.Vertices)), 0)
	for _, v := range body.Vertices {
		w.WriteSymbol(v, blockWidth)
	}
	w.ByteAlign()
	return w.Bytes()
}

// SortedUnique returns points in lexicographic order without duplicates.
func SortedUnique(points []geom.Vec3[int32]) []geom.Vec3[int32] {
	out := append([]geom.Vec3[int32](nil), points...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	n := 0
	for i, p := range out {
		if i > 0 && p == out[n-1] {
			continue
		}
		out[n] = p
		n++
	}
	return out[:n]
}

// OctreeOrder returns points in the order the octree decoder emits them.
func OctreeOrder(points []geom.Vec3[int32], maxNodeSizeLog2 uint32) []geom.Vec3[int32] {
	var w SymbolWriter
	leaves := w.EncodeOctree(points, maxNodeSizeLog2, 0)
	out := make([]geom.Vec3[int32], 0, len(points))
	for _, leaf := range leaves {
		for c := 0; c < leaf.Count; c++ {
			out = append(out, leaf.Pos)
		}
	}
	return out
}
