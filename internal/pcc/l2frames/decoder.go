package l2frames

import (
	"errors"
	"fmt"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/attr"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/geom"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/l1payloads"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

// OutputFunc receives every assembled frame together with the SPS that was
// active when it was output. The cloud is only valid during the call; the
// decoder clears it as soon as the callback returns.
type OutputFunc func(sps *hls.SequenceParameterSet, cloud *pointset.PointSet) error

// Params configures a Decoder.
type Params struct {
	MinGeomNodeSizeLog2 uint32           // stop octree decoding at this node size (0 = full decode)
	Activation          ActivationPolicy // parameter set activation (default: FirstStoredActivation)

	// NewAttributeDecoder builds attribute decoders (default: attr.New).
	NewAttributeDecoder func(aps *hls.AttributeParameterSet) attr.Decoder
}

// State is the coarse state of a Decoder.
type State int

const (
	// Idle: no parameter sets have been activated.
	Idle State = iota
	// SequenceActive: an SPS is active and no points are pending.
	SequenceActive
	// Accumulating: decoded slices are pending output.
	Accumulating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SequenceActive:
		return "sequence-active"
	case Accumulating:
		return "accumulating"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Stats counts the work done by a Decoder.
type Stats struct {
	Payloads     map[l1payloads.PayloadType]int // payloads received per type
	Slices       int                            // geometry slices decoded
	FramesOutput int                            // output callback invocations
	PointsOutput int                            // points handed to the callback
	Errors       int                            // payloads that failed to decode
}

// Decoder is the payload state machine. It stores parameter sets, decodes
// bricks into the current slice and moves finished slices, translated by
// their origin, into the frame accumulator. Frames are output when the
// frame index changes, at frame boundary markers and at end of stream.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	params Params
	output OutputFunc

	spss          map[uint32]*hls.SequenceParameterSet
	gpss          map[uint32]*hls.GeometryParameterSet
	apss          map[uint32]*hls.AttributeParameterSet
	tileInventory *hls.TileInventory

	sps *hls.SequenceParameterSet // active sequence parameters
	gps *hls.GeometryParameterSet // active geometry parameters

	haveSlice       bool             // true once a geometry slice was decoded
	sliceID         uint32           // slice id of the current slice
	sliceOrigin     geom.Vec3[int32] // origin of the current slice
	currentFrameIdx int64            // frame index of the current slice (-1 = none)

	current *pointset.PointSet // slice being decoded, in slice coordinates
	accum   *pointset.PointSet // frame being assembled

	attrDecoder attr.Decoder // reused while compatible

	stats Stats
}

// NewDecoder returns a Decoder that hands completed frames to output.
func NewDecoder(params Params, output OutputFunc) *Decoder {
	if params.Activation == nil {
		params.Activation = FirstStoredActivation
	}
	if params.NewAttributeDecoder == nil {
		params.NewAttributeDecoder = attr.New
	}
	return &Decoder{
		params:          params,
		output:          output,
		spss:            map[uint32]*hls.SequenceParameterSet{},
		gpss:            map[uint32]*hls.GeometryParameterSet{},
		apss:            map[uint32]*hls.AttributeParameterSet{},
		currentFrameIdx: -1,
		current:         pointset.New(),
		accum:           pointset.New(),
		stats:           Stats{Payloads: map[l1payloads.PayloadType]int{}},
	}
}

// State reports the coarse decoder state.
func (d *Decoder) State() State {
	switch {
	case d.current.Len() > 0 || d.accum.Len() > 0:
		return Accumulating
	case d.sps != nil:
		return SequenceActive
	}
	return Idle
}

// Stats returns a copy of the decoder counters.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.Payloads = make(map[l1payloads.PayloadType]int, len(d.stats.Payloads))
	for k, v := range d.stats.Payloads {
		s.Payloads[k] = v
	}
	return s
}

// TileInventory returns the last received tile inventory, or nil.
func (d *Decoder) TileInventory() *hls.TileInventory {
	return d.tileInventory
}

// ActiveSPS returns the active SPS, or nil before the first geometry brick.
func (d *Decoder) ActiveSPS() *hls.SequenceParameterSet {
	return d.sps
}

// Decompress consumes one payload. A nil payload marks the end of the
// stream and outputs any pending frame. A failed payload leaves the
// parameter set stores unchanged and the decoder usable for the next one.
func (d *Decoder) Decompress(p *l1payloads.Payload) error {
	err := d.decompress(p)
	if err != nil {
		d.stats.Errors++
	}
	return err
}

func (d *Decoder) decompress(p *l1payloads.Payload) error {
	if p == nil || p.Type.StartsNewSlice() {
		d.finishSlice()
	}

	if p == nil {
		pcc.Tracef("end of stream")
		return d.flush()
	}

	d.stats.Payloads[p.Type]++
	pcc.Tracef("payload %v: %d B", p.Type, p.Size())

	switch p.Type {
	case l1payloads.SequenceParameterSet:
		sps, err := hls.ParseSPS(p.Data)
		if err != nil {
			return err
		}
		d.spss[sps.ID] = sps
		return nil

	case l1payloads.GeometryParameterSet:
		gps, err := hls.ParseGPS(p.Data)
		if err != nil {
			return err
		}
		d.gpss[gps.ID] = gps
		return nil

	case l1payloads.AttributeParameterSet:
		aps, err := hls.ParseAPS(p.Data)
		if err != nil {
			return err
		}
		d.apss[aps.ID] = aps
		return nil

	case l1payloads.TileInventory:
		inv, err := hls.ParseTileInventory(p.Data)
		if err != nil {
			return err
		}
		d.tileInventory = inv
		return nil

	case l1payloads.FrameBoundaryMarker:
		// Forget the frame index so the next brick does not flush a runt.
		err := d.flush()
		d.currentFrameIdx = -1
		d.attrDecoder = nil
		return err

	case l1payloads.GeometryBrick:
		return d.geometryBrick(p)

	case l1payloads.AttributeBrick:
		return d.decodeAttributeBrick(p)
	}

	return pcc.Protocolf("decompress", pcc.ErrUnknownPayload, "%v", p.Type)
}

// finishSlice moves the current slice into the frame accumulator. The
// slice is closed either way, so later attribute bricks cannot match it.
func (d *Decoder) finishSlice() {
	d.haveSlice = false
	if d.current.Len() == 0 {
		return
	}
	d.current.Translate(d.sliceOrigin)
	d.accum.Append(d.current)
	d.current = pointset.New()
}

// flush outputs the accumulated frame, if any, and clears it.
func (d *Decoder) flush() error {
	if d.accum.Len() == 0 {
		return nil
	}
	if d.sps == nil {
		pcc.Opsf("dropping %d points: no active sps", d.accum.Len())
		d.accum = pointset.New()
		return nil
	}

	n := d.accum.Len()
	var err error
	if d.output != nil {
		err = d.output(d.sps, d.accum)
	}
	d.accum = pointset.New()
	d.stats.FramesOutput++
	d.stats.PointsOutput += n
	pcc.Diagf("frame output: %d points", n)
	if err != nil {
		return fmt.Errorf("output callback: %w", err)
	}
	return nil
}

func (d *Decoder) geometryBrick(p *l1payloads.Payload) error {
	ids, err := hls.ParseGbhIDs(p.Data)
	if err != nil {
		return err
	}
	sps, gps, err := d.params.Activation(d.spss, d.gpss, ids)
	if err != nil {
		return err
	}
	gbh, gbhSize, err := hls.ParseGbh(p.Data)
	if err != nil {
		return err
	}
	d.sps, d.gps = sps, gps

	var flushErr error
	if d.currentFrameIdx >= 0 && d.currentFrameIdx != int64(gbh.FrameIdx) {
		flushErr = d.flush()
	}

	// A stale attribute decoder must not leak into the next slice.
	d.attrDecoder = nil

	if err := d.decodeGeometryBrick(p, gbh, gbhSize); err != nil {
		return errors.Join(err, flushErr)
	}
	return flushErr
}
