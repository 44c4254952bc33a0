package l1payloads

import "fmt"

// PayloadType identifies the syntax structure carried by a payload.
type PayloadType uint8

const (
	SequenceParameterSet  PayloadType = 0
	GeometryParameterSet  PayloadType = 1
	GeometryBrick         PayloadType = 2
	AttributeParameterSet PayloadType = 3
	AttributeBrick        PayloadType = 4
	TileInventory         PayloadType = 5
	FrameBoundaryMarker   PayloadType = 6
)

func (t PayloadType) String() string {
	switch t {
	case SequenceParameterSet:
		return "sps"
	case GeometryParameterSet:
		return "gps"
	case GeometryBrick:
		return "geometry-brick"
	case AttributeParameterSet:
		return "aps"
	case AttributeBrick:
		return "attribute-brick"
	case TileInventory:
		return "tile-inventory"
	case FrameBoundaryMarker:
		return "frame-boundary"
	}
	return fmt.Sprintf("payload-type(%d)", uint8(t))
}

// StartsNewSlice reports whether a payload of this type ends the slice
// currently being decoded.
func (t PayloadType) StartsNewSlice() bool {
	return t == GeometryBrick || t == FrameBoundaryMarker
}

// Payload is one typed unit of a coded point cloud stream.
type Payload struct {
	Type PayloadType
	Data []byte
}

// Size returns the payload length in bytes.
func (p *Payload) Size() int {
	return len(p.Data)
}
