// Package recorder captures one spoken answer from the microphone into an encoded buffer.
package recorder

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"kuchen/audio"
	"kuchen/encoder"
	"kuchen/log"
)

// ErrDeviceUnavailable covers a denied permission, a missing device and a device that fails to start.
var ErrDeviceUnavailable = errors.New("microphone unavailable")

// Buffer is one encoded recording. It is handed to the analysis call once and then dropped.
type Buffer struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
}

func (b Buffer) Base64() string {
	return base64.StdEncoding.EncodeToString(b.Data)
}

func (b Buffer) DataURL() string {
	return "data:" + b.MIMEType + ";base64," + b.Base64()
}

type Recorder struct {
	ctx    audio.Context
	device *audio.DeviceInfo
	format string

	opMu sync.Mutex // serializes StartCapture and StopCapture

	mu         sync.Mutex
	active     bool
	capture    audio.CaptureDevice
	onComplete func(Buffer)
	started    time.Time

	bufMu   sync.Mutex
	enc     encoder.Encoder
	pending []int16
	peak    float64

	level atomic.Uint64 // math.Float64bits of the last chunk's RMS
}

// New returns a recorder that opens device (nil for the system default) on every capture.
func New(ctx audio.Context, device *audio.DeviceInfo, format string) *Recorder {
	return &Recorder{ctx: ctx, device: device, format: format}
}

func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Level returns the RMS level of the most recent audio chunk in [0, 1].
func (r *Recorder) Level() float64 {
	return math.Float64frombits(r.level.Load())
}

// TakePeak returns the loudest chunk level since the previous call and resets it.
func (r *Recorder) TakePeak() float64 {
	r.bufMu.Lock()
	defer r.bufMu.Unlock()
	p := r.peak
	r.peak = 0
	return p
}

// StartCapture opens the microphone and starts recording. A call while a capture is running is
// ignored. onComplete receives the finished buffer from StopCapture.
func (r *Recorder) StartCapture(onComplete func(Buffer)) error {
	r.opMu.Lock()
	defer r.opMu.Unlock()
	if r.Active() {
		return nil
	}

	enc, err := encoder.New(r.format)
	if err != nil {
		return err
	}

	capture, err := r.ctx.NewCapture(r.device, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	r.bufMu.Lock()
	r.enc = enc
	r.pending = r.pending[:0]
	r.peak = 0
	r.bufMu.Unlock()
	r.level.Store(0)

	capture.SetCallback(r.feed)
	if err := capture.Start(); err != nil {
		capture.ClearCallback()
		capture.Close()
		r.bufMu.Lock()
		r.enc = nil
		r.bufMu.Unlock()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	r.mu.Lock()
	r.active = true
	r.capture = capture
	r.onComplete = onComplete
	r.started = time.Now()
	r.mu.Unlock()

	log.Capture("start", capture.DeviceName(), 0)
	return nil
}

func (r *Recorder) feed(data []byte, _ uint32) {
	if len(data) < 2 {
		return
	}
	level := rms(data)
	r.level.Store(math.Float64bits(level))

	r.bufMu.Lock()
	defer r.bufMu.Unlock()
	if r.enc == nil {
		return
	}
	r.peak = max(r.peak, level)
	for i := 0; i+1 < len(data); i += 2 {
		r.pending = append(r.pending, int16(binary.LittleEndian.Uint16(data[i:])))
	}
	for len(r.pending) >= encoder.BlockSize {
		start := time.Now()
		if err := r.enc.EncodeBlock(r.pending[:encoder.BlockSize]); err != nil {
			log.Errorf("encode block: %v", err)
		}
		r.enc.AddEncodeTime(time.Since(start))
		r.pending = append(r.pending[:0], r.pending[encoder.BlockSize:]...)
	}
}

// StopCapture ends a running capture, releases the microphone and emits the buffer exactly once.
// It does nothing when no capture is running.
func (r *Recorder) StopCapture() {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	capture := r.capture
	onComplete := r.onComplete
	elapsed := time.Since(r.started)
	r.active = false
	r.capture = nil
	r.onComplete = nil
	r.mu.Unlock()

	capture.Stop()
	capture.ClearCallback()
	capture.Close()
	log.Capture("stop", capture.DeviceName(), elapsed)

	r.bufMu.Lock()
	enc := r.enc
	r.enc = nil
	if len(r.pending) > 0 {
		if err := enc.EncodeBlock(r.pending); err != nil {
			log.Errorf("encode tail: %v", err)
		}
		r.pending = r.pending[:0]
	}
	r.bufMu.Unlock()

	if err := enc.Close(); err != nil {
		log.Errorf("finalize recording: %v", err)
		return
	}
	buf := Buffer{
		Data:     enc.Bytes(),
		MIMEType: enc.MIMEType(),
		Duration: encoder.Duration(enc.TotalFrames()),
	}
	if onComplete != nil {
		onComplete(buf)
	}
}

func rms(data []byte) float64 {
	var sumSquares float64
	n := len(data) / 2
	for i := 0; i+1 < len(data); i += 2 {
		sample := float64(int16(binary.LittleEndian.Uint16(data[i:]))) / 32768.0
		sumSquares += sample * sample
	}
	return math.Sqrt(sumSquares / float64(n))
}
