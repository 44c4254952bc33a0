package entropy

import (
	"errors"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/bitio"
)

// maxExpGolombOrder bounds the prefix of an Exp-Golomb code.
const maxExpGolombOrder = 31

var (
	errNotStarted = errors.New("entropy decoder used outside start/stop")
	errRestarted  = errors.New("entropy decoder started twice")
)

// Decoder is a source of entropy coded symbols. It must be started before
// the first decode and stopped after the last one within a brick.
type Decoder interface {
	Start() error
	Stop() error
	DecodeBin(m *AdaptiveBitModel) (bool, error)
	DecodeBypass() (bool, error)
	DecodeSymbol(m *AdaptiveMAryModel) (int, error)
	DecodeExpGolomb(k int, prefix *AdaptiveBitModel) (uint32, error)
}

// BypassDecoder reads every bin as one raw bit and every m-ary symbol as a
// fixed length code of SymbolBits bits. Bins and bypass bits share a single
// stream, so the SPS bypass stream flag does not change how it reads.
type BypassDecoder struct {
	buf          []byte
	r            *bitio.Reader
	running      bool
	stopped      bool
	leftoverBits int
}

// NewBypassDecoder returns a decoder over buf.
func NewBypassDecoder(buf []byte) *BypassDecoder {
	return &BypassDecoder{buf: buf}
}

// Start prepares the decoder for use.
func (d *BypassDecoder) Start() error {
	if d.running || d.stopped {
		return pcc.Bitstreamf("entropy start", errRestarted, "")
	}
	d.r = bitio.NewReader(d.buf)
	d.running = true
	return nil
}

// Stop ends decoding. Unread bits are recorded and reported by LeftoverBits.
func (d *BypassDecoder) Stop() error {
	if !d.running {
		return pcc.Bitstreamf("entropy stop", errNotStarted, "")
	}
	d.running = false
	d.stopped = true
	d.leftoverBits = d.r.BitsLeft()
	if d.leftoverBits >= 8 {
		pcc.Tracef("entropy decoder stopped with %d unread bits", d.leftoverBits)
	}
	return nil
}

// LeftoverBits returns the number of unread bits at Stop.
func (d *BypassDecoder) LeftoverBits() int {
	return d.leftoverBits
}

func (d *BypassDecoder) readBit(op string) (bool, error) {
	if !d.running {
		return false, pcc.Bitstreamf(op, errNotStarted, "")
	}
	b, err := d.r.ReadFlag()
	if err != nil {
		return false, pcc.Bitstreamf(op, pcc.ErrTruncated, "")
	}
	return b, nil
}

// DecodeBin decodes one bin in context m.
func (d *BypassDecoder) DecodeBin(m *AdaptiveBitModel) (bool, error) {
	b, err := d.readBit("decode bin")
	if err != nil {
		return false, err
	}
	m.update(b)
	return b, nil
}

// DecodeBypass decodes one equiprobable bin.
func (d *BypassDecoder) DecodeBypass() (bool, error) {
	return d.readBit("decode bypass")
}

// DecodeSymbol decodes one symbol in context m.
func (d *BypassDecoder) DecodeSymbol(m *AdaptiveMAryModel) (int, error) {
	const op = "decode symbol"
	sym := 0
	for i := 0; i < m.SymbolBits(); i++ {
		b, err := d.readBit(op)
		if err != nil {
			return 0, err
		}
		sym <<= 1
		if b {
			sym |= 1
		}
	}
	if sym >= m.AlphabetSize() {
		return 0, pcc.Bitstreamf(op, pcc.ErrSymbolRange, "symbol %d, alphabet %d", sym, m.AlphabetSize())
	}
	m.update(sym)
	return sym, nil
}

// DecodeExpGolomb decodes a k-th order Exp-Golomb value whose unary prefix
// is coded in context prefix and whose suffix is bypass coded.
func (d *BypassDecoder) DecodeExpGolomb(k int, prefix *AdaptiveBitModel) (uint32, error) {
	const op = "decode exp-golomb"
	var symbol uint64
	for {
		more, err := d.DecodeBin(prefix)
		if err != nil {
			return 0, err
		}
		if !more {
			break
		}
		symbol += 1 << uint(k)
		k++
		if k > maxExpGolombOrder {
			return 0, pcc.Bitstreamf(op, pcc.ErrSymbolRange, "prefix too long")
		}
	}

	var suffix uint64
	for k--; k >= 0; k-- {
		b, err := d.readBit(op)
		if err != nil {
			return 0, err
		}
		if b {
			suffix |= 1 << uint(k)
		}
	}
	v := symbol + suffix
	if v > 1<<32-1 {
		return 0, pcc.Bitstreamf(op, pcc.ErrSymbolRange, "value %d", v)
	}
	return uint32(v), nil
}
