package hls

import (
	"fmt"
	"math"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/bitio"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
)

// Syntax limits enforced while parsing.
const (
	MaxAttributeSets       = 16
	MaxAttributeBitDepth   = 16
	MaxTrisoupNodeSizeLog2 = 8
	MaxTiles               = 1 << 16
	colourDimension        = 3
	reflectanceDimension   = 1
)

// syntaxReader wraps a bit reader and keeps the first error, so parsers
// can read a whole structure and check once.
type syntaxReader struct {
	r   *bitio.Reader
	err error
}

func newSyntaxReader(data []byte) *syntaxReader {
	return &syntaxReader{r: bitio.NewReader(data)}
}

func (s *syntaxReader) ue() uint32 {
	if s.err != nil {
		return 0
	}
	v, err := s.r.ReadUE()
	s.err = err
	return v
}

func (s *syntaxReader) se() int32 {
	if s.err != nil {
		return 0
	}
	v, err := s.r.ReadSE()
	s.err = err
	return v
}

func (s *syntaxReader) u(n int) uint32 {
	if s.err != nil {
		return 0
	}
	v, err := s.r.ReadBits(n)
	s.err = err
	return v
}

func (s *syntaxReader) flag() bool {
	return s.u(1) == 1
}

func (s *syntaxReader) vec3se() geom.Vec3[int32] {
	return geom.Vec3[int32]{s.se(), s.se(), s.se()}
}

func (s *syntaxReader) vec3ue() geom.Vec3[int32] {
	return geom.Vec3[int32]{int32(s.ue()), int32(s.ue()), int32(s.ue())}
}

// done byte-aligns and returns the consumed header length.
func (s *syntaxReader) done(op string) (int, error) {
	if s.err != nil {
		return 0, pcc.Bitstreamf(op, pcc.ErrTruncated, "%v", s.err)
	}
	s.r.ByteAlign()
	return s.r.BytePos(), nil
}

// ParseSPS parses a sequence parameter set payload.
func ParseSPS(data []byte) (*SequenceParameterSet, error) {
	const op = "parse sps"
	s := newSyntaxReader(data)
	sps := &SequenceParameterSet{}
	sps.ID = s.ue()
	sps.ProfileIDC = uint8(s.u(8))
	sps.LevelIDC = uint8(s.u(8))
	sps.BoundingBoxOrigin = s.vec3se()
	sps.BoundingBoxSize = s.vec3ue()

	count := s.ue()
	if s.err == nil && count > MaxAttributeSets {
		return nil, pcc.Bitstreamf(op, pcc.ErrHeaderValue, "%d attribute sets", count)
	}
	for i := uint32(0); i < count && s.err == nil; i++ {
		desc := AttributeDescription{
			Dimension: s.ue(),
			Label:     AttributeLabel(s.ue()),
			BitDepth:  s.ue(),
		}
		if s.err != nil {
			break
		}
		if err := validateAttribute(desc); err != nil {
			return nil, pcc.Bitstreamf(op, pcc.ErrHeaderValue, "attribute %d: %v", i, err)
		}
		sps.AttributeSets = append(sps.AttributeSets, desc)
	}
	sps.CabacBypassStreamEnabled = s.flag()

	if _, err := s.done(op); err != nil {
		return nil, err
	}
	return sps, nil
}

func validateAttribute(desc AttributeDescription) error {
	if desc.BitDepth == 0 || desc.BitDepth > MaxAttributeBitDepth {
		return fmt.Errorf("bit depth %d", desc.BitDepth)
	}
	switch desc.Label {
	case LabelColour:
		if desc.Dimension != colourDimension {
			return fmt.Errorf("colour dimension %d", desc.Dimension)
		}
	case LabelReflectance:
		if desc.Dimension != reflectanceDimension {
			return fmt.Errorf("reflectance dimension %d", desc.Dimension)
		}
	default:
		return fmt.Errorf("label %d", uint32(desc.Label))
	}
	return nil
}

// ParseGPS parses a geometry parameter set payload.
func ParseGPS(data []byte) (*GeometryParameterSet, error) {
	const op = "parse gps"
	s := newSyntaxReader(data)
	gps := &GeometryParameterSet{}
	gps.ID = s.ue()
	gps.SPSID = s.ue()
	gps.UniquePoints = s.flag()
	gps.TrisoupNodeSizeLog2 = s.ue()
	if _, err := s.done(op); err != nil {
		return nil, err
	}
	if gps.TrisoupNodeSizeLog2 > MaxTrisoupNodeSizeLog2 {
		return nil, pcc.Bitstreamf(op, pcc.ErrHeaderValue, "trisoup node size log2 %d", gps.TrisoupNodeSizeLog2)
	}
	return gps, nil
}

// ParseAPS parses an attribute parameter set payload.
func ParseAPS(data []byte) (*AttributeParameterSet, error) {
	const op = "parse aps"
	s := newSyntaxReader(data)
	aps := &AttributeParameterSet{}
	aps.ID = s.ue()
	aps.SPSID = s.ue()
	aps.CodingType = AttributeCodingType(s.ue())
	aps.QuantStep = s.ue()
	if _, err := s.done(op); err != nil {
		return nil, err
	}
	if aps.CodingType > AttributeCodingDelta {
		return nil, pcc.Bitstreamf(op, pcc.ErrHeaderValue, "coding type %d", aps.CodingType)
	}
	if aps.QuantStep == 0 {
		return nil, pcc.Bitstreamf(op, pcc.ErrHeaderValue, "zero quant step")
	}
	return aps, nil
}

// ParseTileInventory parses a tile inventory payload.
func ParseTileInventory(data []byte) (*TileInventory, error) {
	const op = "parse tile inventory"
	s := newSyntaxReader(data)
	count := s.ue()
	if s.err == nil && count > MaxTiles {
		return nil, pcc.Bitstreamf(op, pcc.ErrHeaderValue, "%d tiles", count)
	}
	inv := &TileInventory{}
	for i := uint32(0); i < count && s.err == nil; i++ {
		inv.Tiles = append(inv.Tiles, Tile{Origin: s.vec3se(), Size: s.vec3ue()})
	}
	if _, err := s.done(op); err != nil {
		return nil, err
	}
	return inv, nil
}

// ParseGbhIDs parses only the parameter set reference of a geometry brick
// header, as needed to activate parameter sets before a full parse.
func ParseGbhIDs(data []byte) (GeometryBrickHeader, error) {
	s := newSyntaxReader(data)
	gbh := GeometryBrickHeader{GPSID: s.ue()}
	if s.err != nil {
		return gbh, pcc.Bitstreamf("parse gbh ids", pcc.ErrTruncated, "%v", s.err)
	}
	return gbh, nil
}

// ParseGbh parses a geometry brick header and returns it together with its
// length in bytes; the coded geometry follows immediately.
func ParseGbh(data []byte) (GeometryBrickHeader, int, error) {
	const op = "parse gbh"
	s := newSyntaxReader(data)
	var gbh GeometryBrickHeader
	gbh.GPSID = s.ue()
	gbh.TileID = s.ue()
	gbh.SliceID = s.ue()
	gbh.FrameIdx = s.ue()
	gbh.Origin = s.vec3ue()
	gbh.MaxNodeSizeLog2 = s.ue()
	gbh.NumPoints = s.ue()
	size, err := s.done(op)
	if err != nil {
		return gbh, 0, err
	}
	if gbh.MaxNodeSizeLog2 > MaxNodeSizeLog2 {
		return gbh, 0, pcc.Bitstreamf(op, pcc.ErrHeaderValue, "max node size log2 %d", gbh.MaxNodeSizeLog2)
	}
	// Slice-local coordinates stay below 1<<MaxNodeSizeLog2, so the
	// translated slice must still fit in int32.
	extent := int64(1) << gbh.MaxNodeSizeLog2
	for k := 0; k < 3; k++ {
		if gbh.Origin[k] < 0 || int64(gbh.Origin[k])+extent > math.MaxInt32 {
			return gbh, 0, pcc.Bitstreamf(op, pcc.ErrHeaderValue,
				"origin %v with max node size log2 %d", gbh.Origin, gbh.MaxNodeSizeLog2)
		}
	}
	return gbh, size, nil
}

// ParseAbh parses an attribute brick header and returns it together with
// its length in bytes.
func ParseAbh(data []byte) (AttributeBrickHeader, int, error) {
	s := newSyntaxReader(data)
	var abh AttributeBrickHeader
	abh.APSID = s.ue()
	abh.SPSAttrIdx = s.ue()
	abh.GeomSliceID = s.ue()
	size, err := s.done("parse abh")
	if err != nil {
		return abh, 0, err
	}
	return abh, size, nil
}
