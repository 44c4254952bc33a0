// Package bitio reads and writes MSB-first bit strings, including the
// unsigned and signed Exp-Golomb codes used by header syntax.
package bitio

import (
	"errors"
	"fmt"
)

// ErrShortRead is returned when a read runs past the end of the buffer.
var ErrShortRead = errors.New("bitio: read past end of buffer")

// Reader reads bits from a byte slice, most significant bit first.
type Reader struct {
	data []byte
	pos  int // bit position
}

// NewReader returns a Reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint32, error) {
	if r.pos >= len(r.data)*8 {
		return 0, ErrShortRead
	}
	b := r.data[r.pos>>3] >> (7 - uint(r.pos&7)) & 1
	r.pos++
	return uint32(b), nil
}

// ReadFlag reads a single bit as a boolean.
func (r *Reader) ReadFlag() (bool, error) {
	b, err := r.ReadBit()
	return b == 1, err
}

// ReadBits reads n bits (n <= 32) as an unsigned value.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, fmt.Errorf("bitio: invalid bit count %d", n)
	}
	if r.pos+n > len(r.data)*8 {
		return 0, ErrShortRead
	}
	var v uint32
	for i := 0; i < n; i++ {
		b, _ := r.ReadBit()
		v = v<<1 | b
	}
	return v, nil
}

// ReadUE reads an unsigned Exp-Golomb code, ue(v).
func (r *Reader) ReadUE() (uint32, error) {
	zeros := 0
	for {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		zeros++
		if zeros > 31 {
			return 0, fmt.Errorf("bitio: exp-golomb prefix too long")
		}
	}
	suffix, err := r.ReadBits(zeros)
	if err != nil {
		return 0, err
	}
	return uint32((uint64(1)<<uint(zeros) - 1) + uint64(suffix)), nil
}

// ReadSE reads a signed Exp-Golomb code, se(v).
func (r *Reader) ReadSE() (int32, error) {
	v, err := r.ReadUE()
	if err != nil {
		return 0, err
	}
	if v&1 == 1 {
		return int32((v + 1) >> 1), nil
	}
	return -int32(v >> 1), nil
}

// ByteAlign skips to the next byte boundary.
func (r *Reader) ByteAlign() {
	r.pos = (r.pos + 7) &^ 7
}

// BytePos returns the number of whole or partial bytes consumed so far.
func (r *Reader) BytePos() int {
	return (r.pos + 7) >> 3
}

// BitsLeft returns the number of unread bits.
func (r *Reader) BitsLeft() int {
	return len(r.data)*8 - r.pos
}
