package l2frames

import (
	"fmt"
	"sort"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
)

// ActivationPolicy selects the SPS and GPS used to decode a geometry brick
// whose header references gbh.GPSID.
type ActivationPolicy func(spss map[uint32]*hls.SequenceParameterSet, gpss map[uint32]*hls.GeometryParameterSet, gbh hls.GeometryBrickHeader) (*hls.SequenceParameterSet, *hls.GeometryParameterSet, error)

// Activation policy names accepted by ParseActivation.
const (
	ActivationFirst      = "first"
	ActivationReferenced = "referenced"
)

func lowestID[T any](m map[uint32]T) (uint32, bool) {
	if len(m) == 0 {
		return 0, false
	}
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], true
}

// FirstStoredActivation activates the stored SPS and GPS with the lowest
// ids, ignoring the ids referenced by the brick. This reproduces streams
// produced for decoders that always use the first parameter sets.
func FirstStoredActivation(spss map[uint32]*hls.SequenceParameterSet, gpss map[uint32]*hls.GeometryParameterSet, gbh hls.GeometryBrickHeader) (*hls.SequenceParameterSet, *hls.GeometryParameterSet, error) {
	const op = "activate"
	spsID, ok := lowestID(spss)
	if !ok {
		return nil, nil, pcc.Protocolf(op, pcc.ErrMissingParameterSet, "no sps stored")
	}
	gpsID, ok := lowestID(gpss)
	if !ok {
		return nil, nil, pcc.Protocolf(op, pcc.ErrMissingParameterSet, "no gps stored")
	}
	return spss[spsID], gpss[gpsID], nil
}

// ReferencedActivation activates the GPS named by the brick header and the
// SPS named by that GPS.
func ReferencedActivation(spss map[uint32]*hls.SequenceParameterSet, gpss map[uint32]*hls.GeometryParameterSet, gbh hls.GeometryBrickHeader) (*hls.SequenceParameterSet, *hls.GeometryParameterSet, error) {
	const op = "activate"
	gps, ok := gpss[gbh.GPSID]
	if !ok {
		return nil, nil, pcc.Protocolf(op, pcc.ErrMissingParameterSet, "gps %d", gbh.GPSID)
	}
	sps, ok := spss[gps.SPSID]
	if !ok {
		return nil, nil, pcc.Protocolf(op, pcc.ErrMissingParameterSet, "sps %d referenced by gps %d", gps.SPSID, gps.ID)
	}
	return sps, gps, nil
}

// ParseActivation maps a policy name to its ActivationPolicy. An empty
// name selects FirstStoredActivation.
func ParseActivation(name string) (ActivationPolicy, error) {
	switch name {
	case "", ActivationFirst:
		return FirstStoredActivation, nil
	case ActivationReferenced:
		return ReferencedActivation, nil
	}
	return nil, fmt.Errorf("unknown activation policy %q", name)
}
