package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/palabra/internal"
	"codeberg.org/snonux/palabra/internal/audio"
	"codeberg.org/snonux/palabra/internal/cli"
	"codeberg.org/snonux/palabra/internal/models"
	"codeberg.org/snonux/palabra/internal/voice"
)

// ErrNoSpeech is returned when no speech provider could be set up
var ErrNoSpeech = errors.New("no speech provider available")

// Speak synthesises text and plays it unless --no-play is set
func (p *Processor) Speak(ctx context.Context, text string) error {
	if err := audio.ValidateSpanishText(text); err != nil {
		return err
	}
	if p.speaker == nil {
		return ErrNoSpeech
	}

	dir := filepath.Join(os.TempDir(), "palabra")
	outputFile := filepath.Join(dir, fmt.Sprintf("%s.%s", internal.SanitizeFilename(text), p.flags.AudioFormat))
	if err := p.speaker.GenerateAudio(ctx, text, outputFile); err != nil {
		return fmt.Errorf("audio generation failed: %w", err)
	}
	p.logger.Debug("generated audio", zap.String("provider", p.speaker.Name()), zap.String("file", outputFile))

	if p.flags.NoPlay {
		fmt.Fprintf(p.out, "Audio saved to %s\n", outputFile)
		return nil
	}
	return p.play(ctx, outputFile)
}

// Listen records one utterance and prints its transcription. With --add
// the transcribed word is added to the list.
func (p *Processor) Listen(ctx context.Context) error {
	var (
		mu         sync.Mutex
		transcript string
	)
	// started receives nil once recording runs, or the capture error
	started := make(chan error, 1)
	signal := func(err error) {
		select {
		case started <- err:
		default:
		}
	}

	capture := voice.NewCapture(voice.Config{
		Microphone:  p.microphone,
		Transcriber: p.transcriber,
		Language:    p.words.Language(),
		Logger:      p.logger,
		OnTranscript: func(text string) {
			mu.Lock()
			transcript = text
			mu.Unlock()
		},
		OnError: signal,
		OnState: func(s voice.State) {
			switch s {
			case voice.Recording:
				fmt.Fprintf(p.out, "Recording... press Enter to stop (stops after %s)\n", voice.SafetyTimeout)
				signal(nil)
			case voice.Transcribing:
				fmt.Fprintln(p.out, "Transcribing...")
			}
		},
	})
	defer capture.Close()

	fmt.Fprintln(p.out, "Press Enter and speak a Spanish word")
	if _, ok := p.readLine(); !ok {
		return nil
	}

	capture.Press(ctx)
	select {
	case err := <-started:
		if err != nil {
			capture.Wait()
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	p.readLine()
	capture.Release(ctx)
	capture.Wait()

	mu.Lock()
	text := transcript
	mu.Unlock()

	if text == "" {
		fmt.Fprintln(p.out, "Nothing recognised")
		return nil
	}
	fmt.Fprintf(p.out, "Heard: %s\n", text)
	if p.flags.Add {
		return p.Add(ctx, text, "", false)
	}
	return nil
}

// ListModels prints the OpenAI models usable with the configured key
func (p *Processor) ListModels(ctx context.Context) error {
	lister := models.NewLister(cli.GetOpenAIKey())
	return lister.ListAvailableModels(ctx, p.out)
}
