package testutil

import (
	"github.com/banshee-data/gpcc-decoder/internal/pcc/bitio"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/entropy"
)

// SymbolWriter produces the raw-bit coding read by entropy.BypassDecoder.
type SymbolWriter struct {
	bitio.Writer
}

// WriteBin writes one bin.
func (w *SymbolWriter) WriteBin(b bool) {
	w.WriteFlag(b)
}

// WriteSymbol writes sym as a fixed length code for an alphabet of the
// given size.
func (w *SymbolWriter) WriteSymbol(sym, alphabetSize int) {
	w.WriteBits(uint32(sym), entropy.SymbolBits(alphabetSize))
}

// WriteExpGolomb writes v as a k-th order Exp-Golomb code.
func (w *SymbolWriter) WriteExpGolomb(v uint32, k int) {
	rem := uint64(v)
	for rem >= 1<<uint(k) {
		w.WriteBin(true)
		rem -= 1 << uint(k)
		k++
	}
	w.WriteBin(false)
	for i := k - 1; i >= 0; i-- {
		w.WriteBit(uint32(rem >> uint(i)))
	}
}
