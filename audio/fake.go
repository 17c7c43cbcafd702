package audio

import (
	"encoding/binary"
	"math"
	"os"
	"sync"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext replays fixed PCM instead of opening a microphone.
type FakeContext struct {
	pcm        []byte
	sampleRate int
	realtime   bool

	// NewCaptureErr and StartErr simulate a denied or missing microphone.
	NewCaptureErr error
	StartErr      error

	mu       sync.Mutex
	captures []*FakeCapture
}

func NewFakeContext(wavPath string, realtime bool) (*FakeContext, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}
	if len(data) > WAVHeaderSize {
		data = data[WAVHeaderSize:]
	}
	return &FakeContext{pcm: data, sampleRate: 16000, realtime: realtime}, nil
}

// NewToneContext produces a sine tone of the given length, fed in one burst on Start.
func NewToneContext(sampleRate int, length time.Duration) *FakeContext {
	return &FakeContext{pcm: Tone(sampleRate, 440, length), sampleRate: sampleRate}
}

// Tone returns 16-bit mono PCM of a sine wave at half amplitude.
func Tone(sampleRate int, freq float64, length time.Duration) []byte {
	n := int(float64(sampleRate) * length.Seconds())
	pcm := make([]byte, n*fakeBytesPerFrame)
	for i := range n {
		s := int16(math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) * 16384)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	if f.NewCaptureErr != nil {
		return nil, f.NewCaptureErr
	}
	c := &FakeCapture{pcm: f.pcm, sampleRate: f.sampleRate, realtime: f.realtime, startErr: f.StartErr, audioDone: make(chan struct{})}
	f.mu.Lock()
	f.captures = append(f.captures, c)
	f.mu.Unlock()
	return c, nil
}

// Captures returns every capture handed out so far.
func (f *FakeContext) Captures() []*FakeCapture {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeCapture(nil), f.captures...)
}

type FakeCapture struct {
	pcm        []byte
	sampleRate int
	realtime   bool
	startErr   error
	audioDone  chan struct{}

	mu       sync.Mutex
	cb       DataCallback
	running  bool
	closed   bool
	stopCh   chan struct{}
	feedDone chan struct{}
}

// AudioDone is closed once the whole PCM source has been delivered.
func (f *FakeCapture) AudioDone() <-chan struct{} { return f.audioDone }

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake" }

// Running reports whether the capture is started and not yet stopped.
func (f *FakeCapture) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Closed reports whether the device has been released.
func (f *FakeCapture) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *FakeCapture) callback() DataCallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb
}

func (f *FakeCapture) feedChunk(cb DataCallback, pos, chunkBytes int) int {
	end := min(pos+chunkBytes, len(f.pcm))
	chunk := make([]byte, end-pos)
	copy(chunk, f.pcm[pos:end])
	cb(chunk, uint32(len(chunk)/fakeBytesPerFrame))
	return end
}

func (f *FakeCapture) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	f.running = true
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})
	f.mu.Unlock()

	chunkBytes := fakeFrameSize * fakeBytesPerFrame

	if !f.realtime {
		if cb := f.callback(); cb != nil {
			for pos := 0; pos < len(f.pcm); {
				pos = f.feedChunk(cb, pos, chunkBytes)
			}
		}
		close(f.audioDone)
		close(f.feedDone)
		return nil
	}

	interval := time.Duration(fakeFrameSize) * time.Second / time.Duration(f.sampleRate)
	go func() {
		defer close(f.feedDone)
		pos := 0
		for {
			select {
			case <-f.stopCh:
				return
			case <-time.After(interval):
			}
			if pos >= len(f.pcm) {
				if pos == len(f.pcm) {
					close(f.audioDone)
					pos++
				}
				continue
			}
			if cb := f.callback(); cb != nil {
				pos = f.feedChunk(cb, pos, chunkBytes)
			}
		}
	}()
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	close(f.stopCh)
	done := f.feedDone
	f.mu.Unlock()
	<-done
}

func (f *FakeCapture) Close() {
	f.Stop()
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}
