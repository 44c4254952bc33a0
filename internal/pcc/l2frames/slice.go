package l2frames

import (
	"fmt"
	"time"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/entropy"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/l1payloads"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/octree"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/trisoup"
)

// decodeGeometryBrick decodes the geometry of one slice with the active
// parameter sets. The slice replaces the current cloud only on success.
func (d *Decoder) decodeGeometryBrick(p *l1payloads.Payload, gbh hls.GeometryBrickHeader, gbhSize int) error {
	start := time.Now()

	d.sliceID = gbh.SliceID
	d.sliceOrigin = gbh.Origin
	d.currentFrameIdx = int64(gbh.FrameIdx)
	d.haveSlice = false
	d.sliceLog().Tracef("geometry brick: %d points declared, origin %v", gbh.NumPoints, gbh.Origin)

	cloud := pointset.New()
	cloud.AddRemoveAttributes(d.sps.HasAttribute(hls.LabelColour), d.sps.HasAttribute(hls.LabelReflectance))

	dec := entropy.NewBypassDecoder(p.Data[gbhSize:])
	if err := dec.Start(); err != nil {
		return err
	}

	var err error
	switch {
	case d.gps.TrisoupNodeSizeLog2 > 0:
		err = trisoup.DecodeGeometry(d.gps, &gbh, cloud, dec)
	case d.params.MinGeomNodeSizeLog2 > 0:
		err = octree.DecodeScalable(d.gps, &gbh, d.params.MinGeomNodeSizeLog2, cloud, dec)
	default:
		err = octree.Decode(d.gps, &gbh, cloud, dec)
	}
	if err != nil {
		return fmt.Errorf("geometry slice %d: %w", gbh.SliceID, err)
	}
	if err := dec.Stop(); err != nil {
		return err
	}

	d.current = cloud
	d.haveSlice = true
	d.stats.Slices++
	d.sliceLog().Diagf("positions bitstream size %d B (bypass stream %v): %d points in %v",
		p.Size(), d.sps.CabacBypassStreamEnabled, cloud.Len(), time.Since(start))
	return nil
}

// decodeAttributeBrick decodes one attribute channel into the current
// slice. The attribute decoder is rebuilt when the APS is not compatible
// with the previous one.
func (d *Decoder) decodeAttributeBrick(p *l1payloads.Payload) error {
	const op = "attribute brick"
	if d.sps == nil || d.gps == nil {
		return pcc.Protocolf(op, pcc.ErrMissingParameterSet, "no active parameter sets")
	}

	abh, abhSize, err := hls.ParseAbh(p.Data)
	if err != nil {
		return err
	}
	if !d.haveSlice || abh.GeomSliceID != d.sliceID {
		return pcc.Protocolf(op, pcc.ErrSliceMismatch,
			"attribute slice %d, geometry slice %d", abh.GeomSliceID, d.sliceID)
	}
	aps, ok := d.apss[abh.APSID]
	if !ok {
		return pcc.Protocolf(op, pcc.ErrMissingParameterSet, "aps %d", abh.APSID)
	}
	if int(abh.SPSAttrIdx) >= len(d.sps.AttributeSets) {
		return pcc.Protocolf(op, pcc.ErrAttributeIndex,
			"index %d, sps declares %d", abh.SPSAttrIdx, len(d.sps.AttributeSets))
	}
	desc := d.sps.AttributeSets[abh.SPSAttrIdx]

	if d.attrDecoder == nil || !d.attrDecoder.IsReusable(aps) {
		d.attrDecoder = d.params.NewAttributeDecoder(aps)
	}

	start := time.Now()
	if err := d.attrDecoder.Decode(desc, aps, p.Data[abhSize:], d.current); err != nil {
		return fmt.Errorf("%v attributes of slice %d: %w", desc.Label, d.sliceID, err)
	}
	d.sliceLog().Diagf("%vs bitstream size %d B: %d points in %v", desc.Label, p.Size(), d.current.Len(), time.Since(start))
	return nil
}

// sliceLog tags log lines with the frame and slice being decoded.
func (d *Decoder) sliceLog() pcc.SliceLog {
	return pcc.SliceLog{Frame: d.currentFrameIdx, Slice: d.sliceID}
}
