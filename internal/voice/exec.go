package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// WAVMIMEType is the MIME type of recordings made by ExecMicrophone
const WAVMIMEType = "audio/wav"

// recorderArgs returns the arguments for known recorders; the output file
// is appended last.
func recorderArgs(recorder string) []string {
	switch filepath.Base(recorder) {
	case "arecord":
		return []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav"}
	case "rec", "sox":
		return []string{"-q", "-r", "16000", "-c", "1", "-b", "16"}
	}
	return nil
}

// ExecMicrophone records by running an external recorder such as arecord
// (ALSA) or rec (SoX) into a temporary WAV file.
type ExecMicrophone struct {
	Recorder string
	Args     []string
	TempDir  string
}

// NewExecMicrophone picks recorder, or the first of arecord and rec found
// in PATH when recorder is empty.
func NewExecMicrophone(recorder string) *ExecMicrophone {
	if recorder == "" {
		for _, candidate := range []string{"arecord", "rec"} {
			if _, err := exec.LookPath(candidate); err == nil {
				recorder = candidate
				break
			}
		}
	}
	return &ExecMicrophone{Recorder: recorder, Args: recorderArgs(recorder)}
}

// MIMEType implements Microphone
func (m *ExecMicrophone) MIMEType() string {
	return WAVMIMEType
}

// Open implements Microphone. A missing recorder counts as denied access.
func (m *ExecMicrophone) Open(ctx context.Context) (Stream, error) {
	if m.Recorder == "" {
		return nil, fmt.Errorf("%w: no recorder found, install alsa-utils or sox", ErrDenied)
	}
	path, err := exec.LookPath(m.Recorder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(m.TempDir, "palabra-rec-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}
	f.Close()

	args := append(append([]string{}, m.Args...), f.Name())
	return &execStream{cmd: exec.Command(path, args...), file: f.Name()}, nil
}

type execStream struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	file    string
	started bool
	stopped bool
	closed  bool
}

func (s *execStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start recorder: %w", err)
	}
	s.started = true
	return nil
}

func (s *execStream) Stop() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		return nil, nil
	}
	s.stopped = true

	// Recorders finalise the WAV header on SIGINT
	_ = s.cmd.Process.Signal(os.Interrupt)
	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		_ = s.cmd.Process.Kill()
		<-done
	}

	data, err := os.ReadFile(s.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	// A bare 44 byte header means nothing was captured
	if len(data) <= 44 {
		return nil, nil
	}
	return data, nil
}

func (s *execStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.started && !s.stopped {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
		s.stopped = true
	}
	if err := os.Remove(s.file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove recording: %w", err)
	}
	return nil
}
