package encoder

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultInlineLimit is the largest audio payload sent inline with an analysis request.
const DefaultInlineLimit = 18 << 20

// AdaptiveEncoder encodes WAV and FLAC side by side and keeps the WAV unless it
// exceeds the inline limit. WAV is accepted by every provider; FLAC is the fallback for long takes.
type AdaptiveEncoder struct {
	wav    *WAVEncoder
	flac   *FlacEncoder
	limit  int
	chosen Encoder
	mu     sync.Mutex
}

func NewAdaptive(limit int) (*AdaptiveEncoder, error) {
	flac, err := NewFlac()
	if err != nil {
		return nil, err
	}
	return &AdaptiveEncoder{wav: NewWAV(), flac: flac, limit: limit}, nil
}

func (e *AdaptiveEncoder) EncodeBlock(block []int16) error {
	var g errgroup.Group
	g.Go(func() error { return e.wav.EncodeBlock(block) })
	g.Go(func() error { return e.flac.EncodeBlock(block) })
	return g.Wait()
}

func (e *AdaptiveEncoder) Close() error {
	var g errgroup.Group
	g.Go(e.wav.Close)
	g.Go(e.flac.Close)
	if err := g.Wait(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.wav.Bytes()) <= e.limit {
		e.chosen = e.wav
	} else {
		e.chosen = e.flac
	}
	return nil
}

func (e *AdaptiveEncoder) selected() Encoder {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.chosen == nil {
		return e.wav
	}
	return e.chosen
}

func (e *AdaptiveEncoder) Bytes() []byte       { return e.selected().Bytes() }
func (e *AdaptiveEncoder) MIMEType() string    { return e.selected().MIMEType() }
func (e *AdaptiveEncoder) TotalFrames() uint64 { return e.wav.TotalFrames() }

func (e *AdaptiveEncoder) AddEncodeTime(d time.Duration) { e.wav.AddEncodeTime(d) }
func (e *AdaptiveEncoder) EncodeTime() time.Duration     { return e.wav.EncodeTime() }
