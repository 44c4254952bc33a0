// Package octree decodes occupancy coded octree geometry, either down to
// single points or down to a coarser leaf size for surface reconstruction.
//
// Nodes are coded breadth first from the root cube at the origin. Every
// occupied internal node carries one 8-bit occupancy symbol; bit i marks
// child i, whose offset is ((i>>2)&1, (i>>1)&1, i&1) times the child size.
package octree

import (
	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/entropy"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

// occupancyAlphabet is the number of distinct occupancy patterns.
const occupancyAlphabet = 256

// MaxPoints bounds the point count a geometry brick may declare.
const MaxPoints = 1 << 24

// Node is an occupied octree node: the lower corner of a cube of side
// 1<<SizeLog2.
type Node struct {
	Pos      geom.Vec3[int32]
	SizeLog2 uint32
}

// Width returns the side length of the node's cube.
func (n Node) Width() int32 {
	return 1 << n.SizeLog2
}

// ChildOffset returns the position of child i relative to its parent for
// children of side 1<<childLog2.
func ChildOffset(i int, childLog2 uint32) geom.Vec3[int32] {
	return geom.Vec3[int32]{
		int32((i >> 2) & 1),
		int32((i >> 1) & 1),
		int32(i & 1),
	}.Shl(uint(childLog2))
}

// DecodeLeaves decodes occupancy from the root of side 1<<maxNodeSizeLog2
// down to nodes of side 1<<cutoffLog2 and returns those nodes in breadth
// first order. maxNodes bounds the number of occupied nodes at any level.
func DecodeLeaves(dec entropy.Decoder, maxNodeSizeLog2, cutoffLog2 uint32, maxNodes int) ([]Node, error) {
	const op = "octree"
	if cutoffLog2 > maxNodeSizeLog2 {
		return nil, pcc.Bitstreamf(op, pcc.ErrHeaderValue,
			"cutoff size log2 %d exceeds root size log2 %d", cutoffLog2, maxNodeSizeLog2)
	}
	if maxNodes <= 0 {
		return nil, nil
	}

	occupancyModel := entropy.NewAdaptiveMAryModel(occupancyAlphabet)
	nodes := []Node{{SizeLog2: maxNodeSizeLog2}}
	for sizeLog2 := maxNodeSizeLog2; sizeLog2 > cutoffLog2; sizeLog2-- {
		childLog2 := sizeLog2 - 1
		next := make([]Node, 0, 2*len(nodes))
		for _, node := range nodes {
			occupancy, err := dec.DecodeSymbol(occupancyModel)
			if err != nil {
				return nil, err
			}
			if occupancy == 0 {
				return nil, pcc.Bitstreamf(op, pcc.ErrSymbolRange,
					"empty occupancy for node %v at size log2 %d", node.Pos, sizeLog2)
			}
			for i := 0; i < 8; i++ {
				if occupancy&(1<<uint(i)) == 0 {
					continue
				}
				next = append(next, Node{
					Pos:      node.Pos.Add(ChildOffset(i, childLog2)),
					SizeLog2: childLog2,
				})
			}
		}
		if len(next) > maxNodes {
			return nil, pcc.Bitstreamf(op, pcc.ErrPointCount,
				"%d occupied nodes at size log2 %d exceed %d points", len(next), childLog2, maxNodes)
		}
		nodes = next
	}
	return nodes, nil
}

// Decode decodes the full octree of a geometry brick into cloud. When the
// geometry parameter set allows duplicate points, each decoded point carries
// an Exp-Golomb coded count of additional copies. The decoded point count
// must match the brick header.
func Decode(gps *hls.GeometryParameterSet, gbh *hls.GeometryBrickHeader, cloud *pointset.PointSet, dec entropy.Decoder) error {
	const op = "octree"
	if gbh.NumPoints > MaxPoints {
		return pcc.Bitstreamf(op, pcc.ErrPointCount, "header declares %d points, limit %d", gbh.NumPoints, MaxPoints)
	}
	leaves, err := DecodeLeaves(dec, gbh.MaxNodeSizeLog2, 0, int(gbh.NumPoints))
	if err != nil {
		return err
	}

	// Duplicates grow the slice past the leaf count; the header count is
	// only trusted once the points have been decoded.
	points := make([]geom.Vec3[int32], 0, len(leaves))
	var dupPrefix entropy.AdaptiveBitModel
	for _, leaf := range leaves {
		copies := uint32(1)
		if !gps.UniquePoints {
			dup, err := dec.DecodeExpGolomb(0, &dupPrefix)
			if err != nil {
				return err
			}
			copies += dup
		}
		if uint64(len(points))+uint64(copies) > uint64(gbh.NumPoints) {
			return pcc.Bitstreamf(op, pcc.ErrPointCount, "more than %d points", gbh.NumPoints)
		}
		for c := uint32(0); c < copies; c++ {
			points = append(points, leaf.Pos)
		}
	}
	if len(points) != int(gbh.NumPoints) {
		return pcc.Bitstreamf(op, pcc.ErrPointCount, "decoded %d points, header declares %d", len(points), gbh.NumPoints)
	}
	cloud.SetPositions(points)
	return nil
}

// DecodeScalable decodes the octree only down to nodes of side
// 1<<minNodeSizeLog2 and emits one point per node at the node's lower
// corner. The remainder of the brick is left unread.
func DecodeScalable(gps *hls.GeometryParameterSet, gbh *hls.GeometryBrickHeader, minNodeSizeLog2 uint32, cloud *pointset.PointSet, dec entropy.Decoder) error {
	if gbh.NumPoints > MaxPoints {
		return pcc.Bitstreamf("octree", pcc.ErrPointCount, "header declares %d points, limit %d", gbh.NumPoints, MaxPoints)
	}
	if minNodeSizeLog2 > gbh.MaxNodeSizeLog2 {
		minNodeSizeLog2 = gbh.MaxNodeSizeLog2
	}
	nodes, err := DecodeLeaves(dec, gbh.MaxNodeSizeLog2, minNodeSizeLog2, int(gbh.NumPoints))
	if err != nil {
		return err
	}
	points := make([]geom.Vec3[int32], len(nodes))
	for i, n := range nodes {
		points[i] = n.Pos
	}
	cloud.SetPositions(points)
	return nil
}
