// Package l2frames owns Layer 2 (Frames) of the decoder.
//
// Responsibilities: consuming typed payloads in stream order, keeping the
// parameter set stores, decoding geometry and attribute bricks into slices
// and assembling translated slices into output frames.
// Key types: Decoder, Params, ActivationPolicy.
//
// Dependency rule: L2 may depend on L1 (l1payloads) and the coding tools,
// never on storage or monitoring.
package l2frames
