package bitio

// Writer accumulates bits most significant bit first.
type Writer struct {
	buf   []byte
	nbits int
}

// WriteBit appends the lowest bit of b.
func (w *Writer) WriteBit(b uint32) {
	if w.nbits&7 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b&1 == 1 {
		w.buf[len(w.buf)-1] |= 1 << (7 - uint(w.nbits&7))
	}
	w.nbits++
}

// WriteFlag appends a boolean as one bit.
func (w *Writer) WriteFlag(v bool) {
	if v {
		w.WriteBit(1)
	} else {
		w.WriteBit(0)
	}
}

// WriteBits appends the low n bits of v, most significant first.
func (w *Writer) WriteBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(v >> uint(i))
	}
}

// WriteUE appends v as ue(v).
func (w *Writer) WriteUE(v uint32) {
	x := uint64(v) + 1
	n := 0
	for t := x; t > 1; t >>= 1 {
		n++
	}
	for i := 0; i < n; i++ {
		w.WriteBit(0)
	}
	for i := n; i >= 0; i-- {
		w.WriteBit(uint32(x >> uint(i)))
	}
}

// WriteSE appends v as se(v).
func (w *Writer) WriteSE(v int32) {
	if v > 0 {
		w.WriteUE(uint32(v)*2 - 1)
	} else {
		w.WriteUE(uint32(-v) * 2)
	}
}

// ByteAlign pads with zero bits to the next byte boundary.
func (w *Writer) ByteAlign() {
	w.nbits = len(w.buf) * 8
}

// Bytes returns the written bytes; a trailing partial byte is zero padded.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bits written.
func (w *Writer) Len() int {
	return w.nbits
}
