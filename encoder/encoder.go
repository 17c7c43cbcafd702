// Package encoder turns captured 16-bit PCM into an upload-ready audio file.
package encoder

import (
	"fmt"
	"time"
)

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

const (
	FormatWAV      = "wav"
	FormatFLAC     = "flac"
	FormatAdaptive = "auto"
)

type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	Bytes() []byte
	MIMEType() string
	TotalFrames() uint64
	AddEncodeTime(d time.Duration)
	EncodeTime() time.Duration
}

// New returns an encoder for one of the Format constants.
func New(format string) (Encoder, error) {
	switch format {
	case FormatWAV:
		return NewWAV(), nil
	case FormatFLAC:
		return NewFlac()
	case FormatAdaptive:
		return NewAdaptive(DefaultInlineLimit)
	default:
		return nil, fmt.Errorf("unknown audio format %q", format)
	}
}

// Duration converts a frame count at SampleRate into wall time.
func Duration(frames uint64) time.Duration {
	return time.Duration(frames) * time.Second / SampleRate
}
