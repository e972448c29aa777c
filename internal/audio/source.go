// Package audio defines the Source contract both ingest backends
// implement (spec.md §4.1): interchangeable I²S and USB Audio Class 1
// PCM feeds delivering fixed-size stereo blocks.
package audio

import "context"

// BlockSamples is the fixed frame length handed to the spectral engine:
// 256 samples per channel, stereo, matching the compiled default
// sample_count.
const BlockSamples = 256

// Source delivers interleaved stereo int32 sample blocks. Next blocks
// until a full block is available; on a circular-buffer-backed source,
// overflowed (stale) data is silently dropped rather than returned, per
// the "keep latest" ingest behavior.
type Source interface {
	Next(ctx context.Context) ([]int32, error)
}
