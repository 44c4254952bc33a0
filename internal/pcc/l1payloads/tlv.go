package l1payloads

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
)

// TLVHeaderSize is the size of the type and length fields preceding each
// payload in a framed stream.
const TLVHeaderSize = 5

// DefaultMaxPayloadSize bounds a single payload unless configured otherwise.
const DefaultMaxPayloadSize = 64 << 20

// Reader splits a framed stream into payloads.
type Reader struct {
	r       io.Reader
	maxSize int
	count   int
}

// NewReader returns a Reader over r. maxSize <= 0 selects DefaultMaxPayloadSize.
func NewReader(r io.Reader, maxSize int) *Reader {
	if maxSize <= 0 {
		maxSize = DefaultMaxPayloadSize
	}
	return &Reader{r: r, maxSize: maxSize}
}

// Next returns the next payload. It returns io.EOF when the stream ends
// cleanly on a unit boundary.
func (r *Reader) Next() (*Payload, error) {
	var hdr [TLVHeaderSize]byte
	n, err := io.ReadFull(r.r, hdr[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return nil, io.EOF
		}
		return nil, pcc.Bitstreamf("tlv header", pcc.ErrTruncated, "unit %d", r.count)
	}

	length := binary.BigEndian.Uint32(hdr[1:])
	if uint64(length) > uint64(r.maxSize) {
		return nil, pcc.Bitstreamf("tlv header", pcc.ErrHeaderValue,
			"unit %d length %d exceeds %d", r.count, length, r.maxSize)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, pcc.Bitstreamf("tlv payload", pcc.ErrTruncated,
			"unit %d: want %d bytes", r.count, length)
	}
	r.count++
	return &Payload{Type: PayloadType(hdr[0]), Data: data}, nil
}

// Count returns the number of payloads read so far.
func (r *Reader) Count() int {
	return r.count
}

// Writer frames payloads onto an io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write frames and writes a single payload.
func (w *Writer) Write(p *Payload) error {
	var hdr [TLVHeaderSize]byte
	hdr[0] = byte(p.Type)
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(p.Data)))
	if _, err := w.w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write tlv header: %w", err)
	}
	if _, err := w.w.Write(p.Data); err != nil {
		return fmt.Errorf("write tlv payload: %w", err)
	}
	return nil
}

// SplitUnits decodes every framed payload held in buf.
func SplitUnits(buf []byte, maxSize int) ([]*Payload, error) {
	var out []*Payload
	for len(buf) > 0 {
		if len(buf) < TLVHeaderSize {
			return out, pcc.Bitstreamf("tlv header", pcc.ErrTruncated, "%d trailing bytes", len(buf))
		}
		length := binary.BigEndian.Uint32(buf[1:TLVHeaderSize])
		if maxSize > 0 && uint64(length) > uint64(maxSize) {
			return out, pcc.Bitstreamf("tlv header", pcc.ErrHeaderValue, "length %d exceeds %d", length, maxSize)
		}
		end := uint64(TLVHeaderSize) + uint64(length)
		if end > uint64(len(buf)) {
			return out, pcc.Bitstreamf("tlv payload", pcc.ErrTruncated, "want %d bytes, have %d", length, len(buf)-TLVHeaderSize)
		}
		data := make([]byte, length)
		copy(data, buf[TLVHeaderSize:end])
		out = append(out, &Payload{Type: PayloadType(buf[0]), Data: data})
		buf = buf[end:]
	}
	return out, nil
}
