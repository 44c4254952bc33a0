package testutil

import (
	"github.com/banshee-data/gpcc-decoder/internal/pcc/bitio"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/l1payloads"
)

func writeVec3SE(w *bitio.Writer, v geom.Vec3[int32]) {
	for k := 0; k < 3; k++ {
		w.WriteSE(v[k])
	}
}

func writeVec3UE(w *bitio.Writer, v geom.Vec3[int32]) {
	for k := 0; k < 3; k++ {
		w.WriteUE(uint32(v[k]))
	}
}

// EncodeSPS writes the syntax of a sequence parameter set.
func EncodeSPS(sps *hls.SequenceParameterSet) []byte {
	var w bitio.Writer
	w.WriteUE(sps.ID)
	w.WriteBits(uint32(sps.ProfileIDC), 8)
	w.WriteBits(uint32(sps.LevelIDC), 8)
	writeVec3SE(&w, sps.BoundingBoxOrigin)
	writeVec3UE(&w, sps.BoundingBoxSize)
	w.WriteUE(uint32(len(sps.AttributeSets)))
	for _, desc := range sps.AttributeSets {
		w.WriteUE(desc.Dimension)
		w.WriteUE(uint32(desc.Label))
		w.WriteUE(desc.BitDepth)
	}
	w.WriteFlag(sps.CabacBypassStreamEnabled)
	w.ByteAlign()
	return w.Bytes()
}

// EncodeGPS writes the syntax of a geometry parameter set.
func EncodeGPS(gps *hls.GeometryParameterSet) []byte {
	var w bitio.Writer
	w.WriteUE(gps.ID)
	w.WriteUE(gps.SPSID)
	w.WriteFlag(gps.UniquePoints)
	w.WriteUE(gps.TrisoupNodeSizeLog2)
	w.ByteAlign()
	return w.Bytes()
}

// EncodeAPS writes the syntax of an attribute parameter set.
func EncodeAPS(aps *hls.AttributeParameterSet) []byte {
	var w bitio.Writer
	w.WriteUE(aps.ID)
	w.WriteUE(aps.SPSID)
	w.WriteUE(uint32(aps.CodingType))
	w.WriteUE(aps.QuantStep)
	w.ByteAlign()
	return w.Bytes()
}

// EncodeTileInventory writes the syntax of a tile inventory.
func EncodeTileInventory(inv *hls.TileInventory) []byte {
	var w bitio.Writer
	w.WriteUE(uint32(len(inv.Tiles)))
	for _, tile := range inv.Tiles {
		writeVec3SE(&w, tile.Origin)
		writeVec3UE(&w, tile.Size)
	}
	w.ByteAlign()
	return w.Bytes()
}

// EncodeGbh writes the syntax of a geometry brick header.
func EncodeGbh(gbh *hls.GeometryBrickHeader) []byte {
	var w bitio.Writer
	w.WriteUE(gbh.GPSID)
	w.WriteUE(gbh.TileID)
	w.WriteUE(gbh.SliceID)
	w.WriteUE(gbh.FrameIdx)
	writeVec3UE(&w, gbh.Origin)
	w.WriteUE(gbh.MaxNodeSizeLog2)
	w.WriteUE(gbh.NumPoints)
	w.ByteAlign()
	return w.Bytes()
}

// EncodeAbh writes the syntax of an attribute brick header.
func EncodeAbh(abh *hls.AttributeBrickHeader) []byte {
	var w bitio.Writer
	w.WriteUE(abh.APSID)
	w.WriteUE(abh.SPSAttrIdx)
	w.WriteUE(abh.GeomSliceID)
	w.ByteAlign()
	return w.Bytes()
}

// SPSPayload wraps an encoded SPS.
func SPSPayload(sps *hls.SequenceParameterSet) *l1payloads.Payload {
	return &l1payloads.Payload{Type: l1payloads.SequenceParameterSet, Data: EncodeSPS(sps)}
}

// GPSPayload wraps an encoded GPS.
func GPSPayload(gps *hls.GeometryParameterSet) *l1payloads.Payload {
	return &l1payloads.Payload{Type: l1payloads.GeometryParameterSet, Data: EncodeGPS(gps)}
}

// APSPayload wraps an encoded APS.
func APSPayload(aps *hls.AttributeParameterSet) *l1payloads.Payload {
	return &l1payloads.Payload{Type: l1payloads.AttributeParameterSet, Data: EncodeAPS(aps)}
}

// TileInventoryPayload wraps an encoded tile inventory.
func TileInventoryPayload(inv *hls.TileInventory) *l1payloads.Payload {
	return &l1payloads.Payload{Type: l1payloads.TileInventory, Data: EncodeTileInventory(inv)}
}

// FrameBoundaryPayload returns a frame boundary marker.
func FrameBoundaryPayload() *l1payloads.Payload {
	return &l1payloads.Payload{Type: l1payloads.FrameBoundaryMarker}
}

// GeometryBrickPayload concatenates an encoded header and a coded body.
func GeometryBrickPayload(gbh *hls.GeometryBrickHeader, body []byte) *l1payloads.Payload {
	data := append(EncodeGbh(gbh), body...)
	return &l1payloads.Payload{Type: l1payloads.GeometryBrick, Data: data}
}

// AttributeBrickPayload concatenates an encoded header and a coded body.
func AttributeBrickPayload(abh *hls.AttributeBrickHeader, body []byte) *l1payloads.Payload {
	data := append(EncodeAbh(abh), body...)
	return &l1payloads.Payload{Type: l1payloads.AttributeBrick, Data: data}
}
