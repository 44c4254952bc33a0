// Package l1payloads owns Layer 1 (Payloads) of the decoder data model.
//
// Responsibilities: payload typing, type-length-value framing of a coded
// stream, and replay of payloads captured as UDP datagrams.
// Key types: PayloadType, Payload, Reader, Writer.
//
// Dependency rule: L1 depends only on the pcc error taxonomy; L2
// (slice and frame assembly) consumes it.
package l1payloads
