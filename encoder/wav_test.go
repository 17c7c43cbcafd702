package encoder

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestWAVEncoderHeader(t *testing.T) {
	enc := NewWAV()
	block := sineBlock(SampleRate)
	if err := enc.EncodeBlock(block); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	out := enc.Bytes()
	if len(out) != wavHeaderSize+SampleRate*2 {
		t.Fatalf("len = %d", len(out))
	}
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" || string(out[36:40]) != "data" {
		t.Error("bad RIFF markers")
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != SampleRate {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != SampleRate*2 {
		t.Errorf("data size = %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[wavHeaderSize+2:])); got != block[1] {
		t.Errorf("second sample = %d, want %d", got, block[1])
	}
}

func TestWAVBytesBeforeClose(t *testing.T) {
	enc := NewWAV()
	enc.EncodeBlock(sineBlock(10))
	if enc.Bytes() != nil {
		t.Error("Bytes before Close should be nil")
	}
}

func TestNew(t *testing.T) {
	for _, tt := range []struct {
		format string
		mime   string
	}{
		{FormatWAV, "audio/wav"},
		{FormatFLAC, "audio/flac"},
		{FormatAdaptive, "audio/wav"},
	} {
		t.Run(tt.format, func(t *testing.T) {
			enc, err := New(tt.format)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.format, err)
			}
			if enc.MIMEType() != tt.mime {
				t.Errorf("MIMEType = %q, want %q", enc.MIMEType(), tt.mime)
			}
		})
	}
	t.Run("unknown", func(t *testing.T) {
		if _, err := New("ogg"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestAdaptiveFallsBackToFlac(t *testing.T) {
	small, err := NewAdaptive(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	big, err := NewAdaptive(1024)
	if err != nil {
		t.Fatal(err)
	}
	for _, enc := range []*AdaptiveEncoder{small, big} {
		for range 2 {
			if err := enc.EncodeBlock(sineBlock(BlockSize)); err != nil {
				t.Fatal(err)
			}
		}
		if err := enc.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if small.MIMEType() != "audio/wav" {
		t.Errorf("under limit: %q", small.MIMEType())
	}
	if big.MIMEType() != "audio/flac" {
		t.Errorf("over limit: %q", big.MIMEType())
	}
	if big.TotalFrames() != 2*BlockSize {
		t.Errorf("TotalFrames = %d", big.TotalFrames())
	}
}

func TestDuration(t *testing.T) {
	if got := Duration(2 * SampleRate); got != 2*time.Second {
		t.Errorf("Duration = %v", got)
	}
}
