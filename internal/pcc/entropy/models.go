// Package entropy defines the symbol source consumed by the geometry and
// attribute decoders, the adaptive context models it is driven with, and a
// bypass engine that reads every bin as a raw bit.
package entropy

import "math/bits"

// AdaptiveBitModel is a binary context. It accumulates the statistics of
// the bins decoded through it.
type AdaptiveBitModel struct {
	counts [2]uint32
}

func (m *AdaptiveBitModel) update(bit bool) {
	if bit {
		m.counts[1]++
	} else {
		m.counts[0]++
	}
}

// Count returns the number of bins decoded through the model.
func (m *AdaptiveBitModel) Count() uint32 {
	return m.counts[0] + m.counts[1]
}

// AdaptiveMAryModel is a multi-symbol context over an alphabet of fixed size.
type AdaptiveMAryModel struct {
	alphabetSize int
	counts       []uint32
}

// NewAdaptiveMAryModel returns a model over alphabetSize symbols.
func NewAdaptiveMAryModel(alphabetSize int) *AdaptiveMAryModel {
	if alphabetSize < 1 {
		alphabetSize = 1
	}
	return &AdaptiveMAryModel{
		alphabetSize: alphabetSize,
		counts:       make([]uint32, alphabetSize),
	}
}

// AlphabetSize returns the number of distinct symbols.
func (m *AdaptiveMAryModel) AlphabetSize() int {
	return m.alphabetSize
}

// Count returns how often sym has been decoded through the model.
func (m *AdaptiveMAryModel) Count(sym int) uint32 {
	if sym < 0 || sym >= m.alphabetSize {
		return 0
	}
	return m.counts[sym]
}

func (m *AdaptiveMAryModel) update(sym int) {
	m.counts[sym]++
}

// SymbolBits returns the fixed code length of one symbol in bypass coding.
func (m *AdaptiveMAryModel) SymbolBits() int {
	return SymbolBits(m.alphabetSize)
}

// SymbolBits returns ceil(log2(alphabetSize)), the bypass code length of a
// symbol drawn from an alphabet of that size.
func SymbolBits(alphabetSize int) int {
	if alphabetSize <= 1 {
		return 0
	}
	return bits.Len(uint(alphabetSize - 1))
}
