package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	mu      sync.Mutex
	data    []byte
	started bool
	stopped bool
	closes  int
}

func (s *fakeStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *fakeStream) Stop() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return s.data, nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeStream) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *fakeStream) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// fakeMicrophone blocks Open until grant is called so tests control when
// access arrives.
type fakeMicrophone struct {
	stream *fakeStream
	err    error
	gate   chan struct{}
	opens  int
	mu     sync.Mutex
}

func newFakeMicrophone(data []byte) *fakeMicrophone {
	return &fakeMicrophone{stream: &fakeStream{data: data}, gate: make(chan struct{})}
}

func (m *fakeMicrophone) Open(ctx context.Context) (Stream, error) {
	m.mu.Lock()
	m.opens++
	m.mu.Unlock()
	<-m.gate
	if m.err != nil {
		return nil, m.err
	}
	return m.stream, nil
}

func (m *fakeMicrophone) MIMEType() string { return "audio/test" }

func (m *fakeMicrophone) grant() { close(m.gate) }

type mockTranscriber struct {
	mock.Mock
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, lang string) (string, error) {
	args := m.Called(ctx, audio, mimeType, lang)
	return args.String(0), args.Error(1)
}

type fakeTimers struct {
	mu  sync.Mutex
	fns []func()
	d   []time.Duration
}

func (f *fakeTimers) AfterFunc(d time.Duration, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.fns)
	f.fns = append(f.fns, fn)
	f.d = append(f.d, d)
	return func() {
		f.mu.Lock()
		f.fns[idx] = nil
		f.mu.Unlock()
	}
}

// fire runs every pending callback once. Entries are cleared in place so a
// callback may still cancel its own timer.
func (f *fakeTimers) fire() {
	f.mu.Lock()
	var due []func()
	for i, fn := range f.fns {
		if fn != nil {
			due = append(due, fn)
			f.fns[i] = nil
		}
	}
	f.mu.Unlock()
	for _, fn := range due {
		fn()
	}
}

func (f *fakeTimers) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, fn := range f.fns {
		if fn != nil {
			n++
		}
	}
	return n
}

type recorder struct {
	mu          sync.Mutex
	transcripts []string
	errs        []error
}

func (r *recorder) transcript(s string) {
	r.mu.Lock()
	r.transcripts = append(r.transcripts, s)
	r.mu.Unlock()
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.transcripts...)
}

func (r *recorder) err(e error) {
	r.mu.Lock()
	r.errs = append(r.errs, e)
	r.mu.Unlock()
}

func newCapture(mic Microphone, tr Transcriber, timers *fakeTimers, rec *recorder) *Capture {
	return NewCapture(Config{
		Microphone:   mic,
		Transcriber:  tr,
		Language:     "ru",
		AfterFunc:    timers.AfterFunc,
		OnTranscript: rec.transcript,
		OnError:      rec.err,
	})
}

func TestPressReleaseTranscribes(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	tr := &mockTranscriber{}
	tr.On("Transcribe", mock.Anything, []byte("audio"), "audio/test", "ru").Return("hola", nil)
	timers := &fakeTimers{}
	rec := &recorder{}
	c := newCapture(mic, tr, timers, rec)

	c.Press(context.Background())
	mic.grant()
	require.Eventually(t, func() bool { return c.State() == Recording }, time.Second, time.Millisecond)
	assert.Equal(t, []time.Duration{SafetyTimeout}, timers.d)

	c.Release(context.Background())
	c.Wait()

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []string{"hola"}, rec.got())
	assert.Equal(t, 1, mic.stream.closeCount())
	tr.AssertExpectations(t)
}

func TestReleaseWithoutAudioSkipsTranscriber(t *testing.T) {
	mic := newFakeMicrophone(nil)
	tr := &mockTranscriber{}
	timers := &fakeTimers{}
	rec := &recorder{}
	c := newCapture(mic, tr, timers, rec)

	c.Press(context.Background())
	mic.grant()
	require.Eventually(t, func() bool { return c.State() == Recording }, time.Second, time.Millisecond)

	c.Release(context.Background())
	c.Wait()

	assert.Equal(t, Idle, c.State())
	tr.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, rec.got())
	assert.Equal(t, 1, mic.stream.closeCount())
}

func TestReleaseBeforeGrantClosesStream(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	tr := &mockTranscriber{}
	timers := &fakeTimers{}
	rec := &recorder{}
	c := newCapture(mic, tr, timers, rec)

	c.Press(context.Background())
	c.Release(context.Background())
	mic.grant()
	c.Wait()

	assert.Equal(t, Idle, c.State())
	assert.False(t, mic.stream.started)
	assert.Equal(t, 1, mic.stream.closeCount())
	assert.Empty(t, timers.fns)
	tr.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeniedReportsOnce(t *testing.T) {
	mic := newFakeMicrophone(nil)
	mic.err = errors.New("permission denied by user")
	timers := &fakeTimers{}
	rec := &recorder{}
	c := newCapture(mic, &mockTranscriber{}, timers, rec)

	c.Press(context.Background())
	mic.grant()
	c.Wait()

	assert.Equal(t, Idle, c.State())
	require.Len(t, rec.errs, 1)
	assert.ErrorIs(t, rec.errs[0], ErrDenied)

	// Another press works again after a denial
	c.Press(context.Background())
	c.Wait()
	assert.Len(t, rec.errs, 2)
}

func TestPressIgnoredWhilePending(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	timers := &fakeTimers{}
	c := newCapture(mic, &mockTranscriber{}, timers, &recorder{})

	c.Press(context.Background())
	c.Press(context.Background())
	mic.grant()
	c.Wait()

	assert.Equal(t, 1, mic.opens)
	assert.Equal(t, Recording, c.State())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, mic.stream.closeCount())
}

func TestSafetyTimeoutForcesRelease(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	tr := &mockTranscriber{}
	tr.On("Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("adiós", nil)
	timers := &fakeTimers{}
	rec := &recorder{}
	c := newCapture(mic, tr, timers, rec)

	c.Press(context.Background())
	mic.grant()
	require.Eventually(t, func() bool { return c.State() == Recording }, time.Second, time.Millisecond)
	require.Equal(t, 1, timers.pending())
	assert.Equal(t, SafetyTimeout, timers.d[0])

	timers.fire()
	c.Wait()

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []string{"adiós"}, rec.got())
	assert.True(t, mic.stream.wasStopped())
	assert.Equal(t, 1, mic.stream.closeCount())
	assert.Zero(t, timers.pending())

	// A later manual release is a no-op
	c.Release(context.Background())
	c.Wait()
	assert.Equal(t, []string{"adiós"}, rec.got())
}

func TestSafetyTimeoutWithRealTimer(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	tr := &mockTranscriber{}
	tr.On("Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("adiós", nil)
	rec := &recorder{}
	c := NewCapture(Config{
		Microphone:  mic,
		Transcriber: tr,
		AfterFunc: func(_ time.Duration, f func()) func() {
			tm := time.AfterFunc(10*time.Millisecond, f)
			return func() { tm.Stop() }
		},
		OnTranscript: rec.transcript,
	})

	c.Press(context.Background())
	mic.grant()
	require.Eventually(t, func() bool { return len(rec.got()) == 1 }, 2*time.Second, time.Millisecond)
	c.Wait()

	assert.Equal(t, Idle, c.State())
	assert.True(t, mic.stream.wasStopped())
}

// slowTranscriber blocks until released so the test can interleave Close
type slowTranscriber struct {
	started chan struct{}
	release chan struct{}
}

func (s *slowTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, lang string) (string, error) {
	close(s.started)
	<-s.release
	return "tarde", nil
}

func TestCloseDiscardsLateTranscript(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	tr := &slowTranscriber{started: make(chan struct{}), release: make(chan struct{})}
	timers := &fakeTimers{}
	rec := &recorder{}
	c := newCapture(mic, tr, timers, rec)

	c.Press(context.Background())
	mic.grant()
	require.Eventually(t, func() bool { return c.State() == Recording }, time.Second, time.Millisecond)
	c.Release(context.Background())
	<-tr.started
	assert.Equal(t, Transcribing, c.State())

	require.NoError(t, c.Close())
	close(tr.release)
	c.Wait()

	assert.Empty(t, rec.got())
	assert.Equal(t, Idle, c.State())
}

func TestTranscriberFailureReturnsToIdle(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	tr := &mockTranscriber{}
	tr.On("Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("503"))
	timers := &fakeTimers{}
	rec := &recorder{}
	c := newCapture(mic, tr, timers, rec)

	c.Press(context.Background())
	mic.grant()
	require.Eventually(t, func() bool { return c.State() == Recording }, time.Second, time.Millisecond)
	c.Release(context.Background())
	c.Wait()

	assert.Equal(t, Idle, c.State())
	assert.Empty(t, rec.got())
	assert.Empty(t, rec.errs)
}

func TestCloseWhileRecordingReleasesDevice(t *testing.T) {
	mic := newFakeMicrophone([]byte("audio"))
	timers := &fakeTimers{}
	c := newCapture(mic, &mockTranscriber{}, timers, &recorder{})

	c.Press(context.Background())
	mic.grant()
	require.Eventually(t, func() bool { return c.State() == Recording }, time.Second, time.Millisecond)

	require.NoError(t, c.Close())
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, mic.stream.closeCount())

	// The timeout firing after Close must not touch the closed stream
	timers.fire()
	assert.Equal(t, 1, mic.stream.closeCount())
}

func TestExecMicrophone_MissingRecorderIsDenied(t *testing.T) {
	mic := &ExecMicrophone{Recorder: "palabra-no-such-recorder"}
	_, err := mic.Open(context.Background())
	assert.ErrorIs(t, err, ErrDenied)

	mic = &ExecMicrophone{}
	_, err = mic.Open(context.Background())
	assert.ErrorIs(t, err, ErrDenied)
	assert.Equal(t, WAVMIMEType, mic.MIMEType())
}

func TestRecorderArgs(t *testing.T) {
	assert.Contains(t, recorderArgs("/usr/bin/arecord"), "wav")
	assert.NotEmpty(t, recorderArgs("rec"))
	assert.Nil(t, recorderArgs("custom-recorder"))
}

// slowStream holds Stop until unblock is closed, like a recorder that
// needs time to flush its file
type slowStream struct {
	fakeStream
	stopping chan struct{}
	unblock  chan struct{}
}

func (s *slowStream) Stop() ([]byte, error) {
	close(s.stopping)
	<-s.unblock
	return s.fakeStream.Stop()
}

type slowMicrophone struct{ stream *slowStream }

func (m *slowMicrophone) Open(context.Context) (Stream, error) { return m.stream, nil }
func (m *slowMicrophone) MIMEType() string                     { return "audio/test" }

func TestSlowStopDoesNotBlockCapture(t *testing.T) {
	stream := &slowStream{
		fakeStream: fakeStream{data: []byte("audio")},
		stopping:   make(chan struct{}),
		unblock:    make(chan struct{}),
	}
	tr := &mockTranscriber{}
	rec := &recorder{}
	c := newCapture(&slowMicrophone{stream: stream}, tr, &fakeTimers{}, rec)

	c.Press(context.Background())
	require.Eventually(t, func() bool { return c.State() == Recording }, time.Second, time.Millisecond)

	go c.Release(context.Background())
	<-stream.stopping

	done := make(chan struct{})
	go func() {
		_ = c.State()
		_ = c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("capture stayed locked while the stream was stopping")
	}

	close(stream.unblock)
	require.Eventually(t, func() bool { return stream.closeCount() == 1 }, time.Second, time.Millisecond)
	c.Wait()

	assert.Equal(t, Idle, c.State())
	assert.Empty(t, rec.got())
	tr.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
