package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SafetyTimeout forces a release when the user never lets go
const SafetyTimeout = 7 * time.Second

// ErrDenied is reported when the microphone cannot be acquired
var ErrDenied = errors.New("microphone access denied")

// State of the capture machine
type State int

const (
	Idle State = iota
	Recording
	Transcribing
)

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	}
	return "idle"
}

// Stream is an opened microphone
type Stream interface {
	Start() error
	// Stop ends capture and returns what was recorded, possibly nothing
	Stop() ([]byte, error)
	// Close releases the device. It may be called more than once.
	Close() error
}

// Microphone hands out streams
type Microphone interface {
	Open(ctx context.Context) (Stream, error)
	MIMEType() string
}

// Transcriber turns recorded audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, lang string) (string, error)
}

// Config wires a Capture. Microphone and Transcriber are required.
type Config struct {
	Microphone  Microphone
	Transcriber Transcriber
	Language    string
	Logger      *zap.Logger

	// AfterFunc schedules the safety timeout, time.AfterFunc when nil
	AfterFunc func(d time.Duration, f func()) (stop func())

	OnTranscript func(text string)
	OnError      func(err error)
	OnState      func(s State)
}

// Capture is the press-to-talk state machine
type Capture struct {
	cfg Config

	mu      sync.Mutex
	state   State
	pressed bool
	pending bool
	token   uint64
	stream  Stream
	stopTTL func()

	wg sync.WaitGroup
}

// NewCapture creates an idle capture
func NewCapture(cfg Config) *Capture {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, f func()) func() {
			t := time.AfterFunc(d, f)
			return func() { t.Stop() }
		}
	}
	return &Capture{cfg: cfg}
}

// State returns the current state
func (c *Capture) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Press asks for the microphone and starts recording once it is granted.
// It is ignored unless the capture is idle with no request in flight.
func (c *Capture) Press(ctx context.Context) {
	c.mu.Lock()
	if c.state != Idle || c.pending {
		c.mu.Unlock()
		return
	}
	c.token++
	tok := c.token
	c.pending = true
	c.pressed = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		stream, err := c.cfg.Microphone.Open(ctx)
		c.granted(ctx, tok, stream, err)
	}()
}

func (c *Capture) granted(ctx context.Context, tok uint64, stream Stream, err error) {
	c.mu.Lock()
	if tok == c.token {
		c.pending = false
	}

	if err != nil {
		current := tok == c.token
		c.mu.Unlock()
		c.cfg.Logger.Warn("microphone unavailable", zap.Error(err))
		if current {
			if !errors.Is(err, ErrDenied) {
				err = fmt.Errorf("%w: %v", ErrDenied, err)
			}
			c.reportError(err)
		}
		return
	}

	if tok != c.token || !c.pressed {
		c.mu.Unlock()
		c.cfg.Logger.Debug("released before microphone was granted")
		c.closeStream(stream)
		return
	}

	if err := stream.Start(); err != nil {
		c.mu.Unlock()
		c.closeStream(stream)
		c.reportError(fmt.Errorf("failed to start recording: %w", err))
		return
	}

	c.stream = stream
	c.stopTTL = c.cfg.AfterFunc(SafetyTimeout, func() {
		c.cfg.Logger.Debug("safety timeout reached")
		c.release(ctx, tok)
	})
	c.state = Recording
	c.mu.Unlock()

	c.notify(Recording)
}

// Release stops recording and hands the audio to the transcriber
func (c *Capture) Release(ctx context.Context) {
	c.mu.Lock()
	tok := c.token
	c.mu.Unlock()
	c.release(ctx, tok)
}

func (c *Capture) release(ctx context.Context, tok uint64) {
	c.mu.Lock()
	if tok != c.token {
		c.mu.Unlock()
		return
	}
	c.pressed = false
	// A nil stream while Recording means another release is already stopping it
	if c.state != Recording || c.stream == nil {
		c.mu.Unlock()
		return
	}

	c.stopTimeout()
	stream := c.stream
	c.stream = nil
	c.mu.Unlock()

	// Stopping a recorder can take a while; keep the lock free meanwhile
	data, err := stream.Stop()
	c.closeStream(stream)
	if err != nil {
		c.cfg.Logger.Warn("recording failed", zap.Error(err))
	}

	c.mu.Lock()
	if tok != c.token {
		c.mu.Unlock()
		return
	}
	if err != nil || len(data) == 0 {
		c.state = Idle
		c.mu.Unlock()
		c.notify(Idle)
		return
	}

	c.state = Transcribing
	lang := c.cfg.Language
	c.mu.Unlock()
	c.notify(Transcribing)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.transcribe(ctx, tok, data, lang)
	}()
}

func (c *Capture) transcribe(ctx context.Context, tok uint64, data []byte, lang string) {
	text, err := c.cfg.Transcriber.Transcribe(ctx, data, c.cfg.Microphone.MIMEType(), lang)
	if err != nil {
		c.cfg.Logger.Warn("transcription failed", zap.Error(err))
		text = ""
	}

	c.mu.Lock()
	if tok != c.token || c.state != Transcribing {
		c.mu.Unlock()
		c.cfg.Logger.Debug("dropping stale transcript")
		return
	}
	c.state = Idle
	c.mu.Unlock()

	c.notify(Idle)
	if text != "" && c.cfg.OnTranscript != nil {
		c.cfg.OnTranscript(text)
	}
}

// Close tears the capture down, releasing any open stream. Pending grants
// and transcriptions are discarded.
func (c *Capture) Close() error {
	c.mu.Lock()
	c.token++
	c.pressed = false
	c.pending = false
	c.stopTimeout()
	stream := c.stream
	c.stream = nil
	wasIdle := c.state == Idle
	c.state = Idle
	c.mu.Unlock()

	var err error
	if stream != nil {
		_, _ = stream.Stop()
		err = stream.Close()
	}
	if !wasIdle {
		c.notify(Idle)
	}
	return err
}

// Wait blocks until in-flight grants and transcriptions have finished
func (c *Capture) Wait() {
	c.wg.Wait()
}

func (c *Capture) stopTimeout() {
	if c.stopTTL != nil {
		c.stopTTL()
		c.stopTTL = nil
	}
}

func (c *Capture) closeStream(s Stream) {
	if err := s.Close(); err != nil {
		c.cfg.Logger.Warn("failed to release microphone", zap.Error(err))
	}
}

func (c *Capture) reportError(err error) {
	if c.cfg.OnError != nil {
		c.cfg.OnError(err)
	}
}

func (c *Capture) notify(s State) {
	if c.cfg.OnState != nil {
		c.cfg.OnState(s)
	}
}
