// Package attr decodes per-point attribute values of attribute bricks.
package attr

import (
	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/entropy"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
)

// Decoder decodes the attribute values of one attribute brick into the
// points of the matching geometry slice.
type Decoder interface {
	// Decode reads one value per point for the attribute channel desc from
	// the coded body that follows the attribute brick header.
	Decode(desc hls.AttributeDescription, aps *hls.AttributeParameterSet, body []byte, cloud *pointset.PointSet) error
	// IsReusable reports whether the decoder may serve bricks coded with aps
	// without being rebuilt.
	IsReusable(aps *hls.AttributeParameterSet) bool
}

// New returns a decoder configured for aps.
func New(aps *hls.AttributeParameterSet) Decoder {
	return &codec{aps: *aps}
}

// codec implements raw and delta attribute coding. Delta coding predicts
// every component from the same component of the previous point.
type codec struct {
	aps hls.AttributeParameterSet

	prefix entropy.AdaptiveBitModel
}

func (c *codec) IsReusable(aps *hls.AttributeParameterSet) bool {
	return aps.ID == c.aps.ID && aps.CodingType == c.aps.CodingType && aps.QuantStep == c.aps.QuantStep
}

func (c *codec) Decode(desc hls.AttributeDescription, aps *hls.AttributeParameterSet, body []byte, cloud *pointset.PointSet) error {
	const op = "decode attributes"
	switch desc.Label {
	case hls.LabelColour:
		if !cloud.HasColours() {
			return pcc.Protocolf(op, pcc.ErrAttributeIndex, "slice has no colour storage")
		}
	case hls.LabelReflectance:
		if !cloud.HasReflectances() {
			return pcc.Protocolf(op, pcc.ErrAttributeIndex, "slice has no reflectance storage")
		}
	default:
		return pcc.Protocolf(op, pcc.ErrAttributeIndex, "label %v", desc.Label)
	}

	dec := entropy.NewBypassDecoder(body)
	if err := dec.Start(); err != nil {
		return err
	}

	dim := int(desc.Dimension)
	maxValue := uint32(1)<<desc.BitDepth - 1
	prev := make([]uint32, dim)
	values := make([]uint16, dim)
	for i := 0; i < cloud.Len(); i++ {
		for k := 0; k < dim; k++ {
			code, err := c.decodeComponent(dec, aps.CodingType, int(desc.BitDepth), prev[k])
			if err != nil {
				return err
			}
			prev[k] = code
			v := uint64(code) * uint64(aps.QuantStep)
			if v > uint64(maxValue) {
				v = uint64(maxValue)
			}
			values[k] = uint16(v)
		}
		if desc.Label == hls.LabelColour {
			cloud.SetColour(i, pointset.Colour{values[0], values[1], values[2]})
		} else {
			cloud.SetReflectance(i, values[0])
		}
	}
	return dec.Stop()
}

func (c *codec) decodeComponent(dec entropy.Decoder, coding hls.AttributeCodingType, bitDepth int, prev uint32) (uint32, error) {
	if coding == hls.AttributeCodingRaw {
		var code uint32
		for b := 0; b < bitDepth; b++ {
			bit, err := dec.DecodeBypass()
			if err != nil {
				return 0, err
			}
			code <<= 1
			if bit {
				code |= 1
			}
		}
		return code, nil
	}

	zz, err := dec.DecodeExpGolomb(0, &c.prefix)
	if err != nil {
		return 0, err
	}
	delta := int64(zz >> 1)
	if zz&1 == 1 {
		delta = -delta - 1
	}
	code := int64(prev) + delta
	if code < 0 || code > 1<<bitDepth-1 {
		return 0, pcc.Bitstreamf("decode attributes", pcc.ErrSymbolRange, "value %d at bit depth %d", code, bitDepth)
	}
	return uint32(code), nil
}
