package testutil

// ZigZag maps a signed delta to the unsigned code used by delta attribute
// coding.
func ZigZag(d int32) uint32 {
	if d >= 0 {
		return uint32(d) << 1
	}
	return uint32(-d)<<1 - 1
}

// EncodeRawAttributes writes one bitDepth-bit code per component per point.
func EncodeRawAttributes(codes [][]uint32, bitDepth int) []byte {
	var w SymbolWriter
	for _, point := range codes {
		for _, c := range point {
			w.WriteBits(c, bitDepth)
		}
	}
	w.ByteAlign()
	return w.Bytes()
}

// EncodeDeltaAttributes writes every component as a zig-zag Exp-Golomb
// delta against the same component of the previous point.
func EncodeDeltaAttributes(codes [][]uint32) []byte {
	var w SymbolWriter
	var prev []uint32
	for _, point := range codes {
		if prev == nil {
			prev = make([]uint32, len(point))
		}
		for k, c := range point {
			w.WriteExpGolomb(ZigZag(int32(c)-int32(prev[k])), 0)
			prev[k] = c
		}
	}
	w.ByteAlign()
	return w.Bytes()
}
