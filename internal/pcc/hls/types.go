// Package hls holds the high-level syntax of a coded point cloud stream:
// parameter sets, the tile inventory and the brick headers, together with
// their parsers.
package hls

import (
	"fmt"

	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
)

// MaxNodeSizeLog2 bounds coordinates to 21 bits per axis so that segment
// sort keys fit a 63-bit packing.
const MaxNodeSizeLog2 = 21

// AttributeLabel names the quantity carried by an attribute channel.
type AttributeLabel uint32

const (
	LabelColour      AttributeLabel = 0
	LabelReflectance AttributeLabel = 1
)

func (l AttributeLabel) String() string {
	switch l {
	case LabelColour:
		return "colour"
	case LabelReflectance:
		return "reflectance"
	}
	return fmt.Sprintf("attribute(%d)", uint32(l))
}

// AttributeDescription describes one attribute channel declared by an SPS.
type AttributeDescription struct {
	Dimension uint32
	Label     AttributeLabel
	BitDepth  uint32
}

// SequenceParameterSet carries per-sequence coding configuration.
type SequenceParameterSet struct {
	ID                       uint32
	ProfileIDC               uint8
	LevelIDC                 uint8
	BoundingBoxOrigin        geom.Vec3[int32]
	BoundingBoxSize          geom.Vec3[int32]
	AttributeSets            []AttributeDescription
	CabacBypassStreamEnabled bool
}

// HasAttribute reports whether any attribute set carries label.
func (s *SequenceParameterSet) HasAttribute(label AttributeLabel) bool {
	for _, desc := range s.AttributeSets {
		if desc.Label == label {
			return true
		}
	}
	return false
}

// GeometryParameterSet carries geometry coding configuration.
type GeometryParameterSet struct {
	ID                  uint32
	SPSID               uint32
	UniquePoints        bool
	TrisoupNodeSizeLog2 uint32
}

// AttributeCodingType selects how attribute values are coded.
type AttributeCodingType uint32

const (
	AttributeCodingRaw   AttributeCodingType = 0
	AttributeCodingDelta AttributeCodingType = 1
)

// AttributeParameterSet carries attribute coding configuration.
type AttributeParameterSet struct {
	ID         uint32
	SPSID      uint32
	CodingType AttributeCodingType
	QuantStep  uint32
}

// Tile is one entry of a tile inventory.
type Tile struct {
	Origin geom.Vec3[int32]
	Size   geom.Vec3[int32]
}

// TileInventory lists the spatial tiles of a sequence.
type TileInventory struct {
	Tiles []Tile
}

// GeometryBrickHeader is the per-slice geometry header.
type GeometryBrickHeader struct {
	GPSID           uint32
	TileID          uint32
	SliceID         uint32
	FrameIdx        uint32
	Origin          geom.Vec3[int32]
	MaxNodeSizeLog2 uint32
	NumPoints       uint32
}

// AttributeBrickHeader is the per-slice attribute header.
type AttributeBrickHeader struct {
	APSID       uint32
	SPSAttrIdx  uint32
	GeomSliceID uint32
}
