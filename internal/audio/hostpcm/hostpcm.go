// Package hostpcm backs the hosted I²S stand-in with a real sound card via
// PortAudio, feeding captured samples into an audio.RingBuffer with the
// same "keep latest" overflow discipline the DMA circular buffer has.
package hostpcm

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/riegerindustries/diskomator/internal/audio"
)

// RingCapacity mirrors the ~64KiB DMA buffer's sample capacity (stereo
// int32, so 8 bytes per sample-pair).
const RingCapacity = 64 * 1024 / 8 * 2

// Source captures stereo audio from the default input device into a ring
// buffer and serves the newest BlockSamples block on each Next call.
type Source struct {
	stream *portaudio.Stream
	ring   *audio.RingBuffer
}

var _ audio.Source = (*Source)(nil)

// Open initializes PortAudio and opens the default stereo input device at
// sampleRate.
func Open(sampleRate float64) (*Source, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("hostpcm: initialize portaudio: %w", err)
	}

	var ring = audio.NewRingBuffer(RingCapacity)

	var buf = make([]int32, audio.BlockSamples*2)

	var stream, err = portaudio.OpenDefaultStream(2, 0, sampleRate, len(buf)/2, func(in []int32) {
		ring.Push(in)
	})
	if err != nil {
		_ = portaudio.Terminate()

		return nil, fmt.Errorf("hostpcm: open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()

		return nil, fmt.Errorf("hostpcm: start stream: %w", err)
	}

	return &Source{stream: stream, ring: ring}, nil
}

// Next blocks (briefly spinning) until audio.BlockSamples*2 interleaved
// samples are available, then pops the newest block.
func (s *Source) Next(ctx context.Context) ([]int32, error) {
	for {
		if block, ok := s.ring.PopBlock(audio.BlockSamples * 2); ok {
			return block, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}
}

// Close stops the stream and releases PortAudio.
func (s *Source) Close() error {
	var stopErr = s.stream.Stop()
	var closeErr = s.stream.Close()
	var termErr = portaudio.Terminate()

	if stopErr != nil {
		return fmt.Errorf("hostpcm: stop: %w", stopErr)
	}

	if closeErr != nil {
		return fmt.Errorf("hostpcm: close: %w", closeErr)
	}

	if termErr != nil {
		return fmt.Errorf("hostpcm: terminate: %w", termErr)
	}

	return nil
}
