package entropy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/bitio"
)

func TestSymbolBits(t *testing.T) {
	tests := []struct{ alphabet, want int }{
		{1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {16, 4}, {256, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SymbolBits(tt.alphabet), "alphabet %d", tt.alphabet)
	}
}

func TestDecodeSequence(t *testing.T) {
	var w bitio.Writer
	w.WriteBits(0xA5, 8) // m-ary(256) symbol
	w.WriteBits(1, 1)    // bin
	w.WriteBits(5, 3)    // m-ary(8) symbol
	// EG0 of 4: prefix 1,1,0 (symbol 1+2=3), suffix 2 bits = 01
	w.WriteBits(0b11001, 5)
	// EG0 of 0: single 0
	w.WriteBits(0, 1)

	d := NewBypassDecoder(w.Bytes())
	require.NoError(t, d.Start())

	m256 := NewAdaptiveMAryModel(256)
	sym, err := d.DecodeSymbol(m256)
	require.NoError(t, err)
	assert.Equal(t, 0xA5, sym)
	assert.Equal(t, uint32(1), m256.Count(0xA5))

	var ctx AdaptiveBitModel
	bin, err := d.DecodeBin(&ctx)
	require.NoError(t, err)
	assert.True(t, bin)
	assert.Equal(t, uint32(1), ctx.Count())

	m8 := NewAdaptiveMAryModel(8)
	sym, err = d.DecodeSymbol(m8)
	require.NoError(t, err)
	assert.Equal(t, 5, sym)

	var prefix AdaptiveBitModel
	v, err := d.DecodeExpGolomb(0, &prefix)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), v)
	v, err = d.DecodeExpGolomb(0, &prefix)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)

	require.NoError(t, d.Stop())
}

func TestSymbolOutOfRange(t *testing.T) {
	var w bitio.Writer
	w.WriteBits(6, 3) // alphabet 5 uses 3 bits, 6 is not a symbol
	d := NewBypassDecoder(w.Bytes())
	require.NoError(t, d.Start())

	_, err := d.DecodeSymbol(NewAdaptiveMAryModel(5))
	assert.True(t, pcc.IsBitstreamError(err))
	assert.True(t, errors.Is(err, pcc.ErrSymbolRange))
}

func TestTruncatedInput(t *testing.T) {
	d := NewBypassDecoder([]byte{0xFF})
	require.NoError(t, d.Start())

	var prefix AdaptiveBitModel
	_, err := d.DecodeExpGolomb(0, &prefix)
	assert.True(t, errors.Is(err, pcc.ErrTruncated))
}

func TestStartStopDiscipline(t *testing.T) {
	d := NewBypassDecoder([]byte{0x00})
	_, err := d.DecodeBypass()
	assert.Error(t, err, "decode before start")

	require.NoError(t, d.Start())
	assert.Error(t, d.Start(), "second start")
	require.NoError(t, d.Stop())
	assert.Equal(t, 8, d.LeftoverBits())

	_, err = d.DecodeBypass()
	assert.Error(t, err, "decode after stop")
	assert.Error(t, d.Stop(), "second stop")
}

func TestBitModelCount(t *testing.T) {
	var m AdaptiveBitModel
	assert.Equal(t, uint32(0), m.Count())
	m.update(true)
	m.update(true)
	m.update(false)
	assert.Equal(t, uint32(3), m.Count())
}
