package audio

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ESpeakProvider speaks through a local espeak-ng binary. It needs no key
// and is the last resort when the remote providers fail.
type ESpeakProvider struct {
	voice    string
	wpm      int
	lookPath func(string) (string, error)
}

// NewESpeakProvider returns an espeak-ng provider for voice ("es" when
// empty). It fails when espeak-ng is not on PATH.
func NewESpeakProvider(voice string) (Provider, error) {
	p := newESpeak(voice, exec.LookPath)
	if err := p.IsAvailable(); err != nil {
		return nil, err
	}
	return p, nil
}

func newESpeak(voice string, lookPath func(string) (string, error)) *ESpeakProvider {
	if voice == "" {
		voice = "es"
	}
	return &ESpeakProvider{voice: voice, wpm: 140, lookPath: lookPath}
}

func (p *ESpeakProvider) args(text, wavFile string) []string {
	return []string{"-v", p.voice, "-s", strconv.Itoa(p.wpm), "-w", wavFile, text}
}

// GenerateAudio writes WAV, or MP3 through ffmpeg when outputFile ends in .mp3.
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpanishText(text); err != nil {
		return err
	}
	text = strings.TrimSpace(text)

	render := func(wavFile string) error {
		if err := ensureDir(wavFile); err != nil {
			return err
		}
		out, err := exec.CommandContext(ctx, "espeak-ng", p.args(text, wavFile)...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("espeak-ng failed: %w: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	if strings.ToLower(filepath.Ext(outputFile)) == ".mp3" {
		return writeViaWAV(ctx, outputFile, render)
	}
	return render(outputFile)
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks that espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	if _, err := p.lookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}
