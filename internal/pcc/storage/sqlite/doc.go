// Package sqlite persists decode sessions and the frames they output.
//
// A session is one run of the decoder over one input; every frame handed
// to the output callback is recorded with its point count and bounds and,
// optionally, its positions. The schema is managed by embedded migrations.
package sqlite
