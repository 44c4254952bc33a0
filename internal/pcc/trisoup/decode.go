package trisoup

import (
	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/entropy"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/octree"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

// MaxLeaves bounds the number of leaf blocks of one trisoup brick.
const MaxLeaves = 1 << 20

// segindAlphabet codes eight segment flags per symbol.
const segindAlphabet = 256

// DecodeGeometry decodes a trisoup geometry brick into cloud. The octree is
// decoded down to blocks of side 1<<gps.TrisoupNodeSizeLog2, followed by
// the segment flags (packed eight per symbol, first flag in the most
// significant bit) and one vertex code per set flag.
func DecodeGeometry(gps *hls.GeometryParameterSet, gbh *hls.GeometryBrickHeader, cloud *pointset.PointSet, dec entropy.Decoder) error {
	nodes, err := octree.DecodeLeaves(dec, gbh.MaxNodeSizeLog2, gps.TrisoupNodeSizeLog2, MaxLeaves)
	if err != nil {
		return err
	}
	blockWidth := int32(1) << gps.TrisoupNodeSizeLog2

	var countModel entropy.AdaptiveBitModel
	symbolCount, err := dec.DecodeExpGolomb(0, &countModel)
	if err != nil {
		return err
	}
	if uint64(symbolCount)*8 > 12*uint64(len(nodes))+7 {
		return pcc.Bitstreamf("trisoup segind", pcc.ErrSegmentCount,
			"%d flag bytes for %d leaves", symbolCount, len(nodes))
	}
	segindModel := entropy.NewAdaptiveMAryModel(segindAlphabet)
	segind := make([]bool, 0, 8*symbolCount)
	for i := uint32(0); i < symbolCount; i++ {
		c, err := dec.DecodeSymbol(segindModel)
		if err != nil {
			return err
		}
		for b := 7; b >= 0; b-- {
			segind = append(segind, c&(1<<uint(b)) != 0)
		}
	}

	vertexCount, err := dec.DecodeExpGolomb(0, &countModel)
	if err != nil {
		return err
	}
	if int(vertexCount) > len(segind) {
		return pcc.Bitstreamf("trisoup vertices", pcc.ErrVertexCount,
			"%d vertices for %d segment flags", vertexCount, len(segind))
	}
	vertexModel := entropy.NewAdaptiveMAryModel(int(blockWidth))
	vertices := make([]int, vertexCount)
	for i := range vertices {
		if vertices[i], err = dec.DecodeSymbol(vertexModel); err != nil {
			return err
		}
	}

	leaves := make([]geom.Vec3[int32], len(nodes))
	for i, n := range nodes {
		leaves[i] = n.Pos
	}
	clip := int32(1)<<gbh.MaxNodeSizeLog2 - 1
	return Reconstruct(leaves, segind, vertices, cloud, blockWidth, clip)
}
