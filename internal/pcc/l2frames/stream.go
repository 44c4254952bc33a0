package l2frames

import (
	"context"
	"errors"
	"io"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/l1payloads"
)

// DecodeStream feeds every payload of src to dec and ends the stream once
// src returns io.EOF. Payloads that fail to decode are logged and skipped
// unless abortOnError is set. Framing errors from src always stop decoding.
func DecodeStream(ctx context.Context, src l1payloads.Source, dec *Decoder, abortOnError bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := dec.Decompress(p); err != nil {
			if abortOnError {
				return err
			}
			pcc.Opsf("skipping %v payload: %v", p.Type, err)
		}
	}
	return dec.Decompress(nil)
}
