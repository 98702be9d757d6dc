package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// playerCommand picks a command line able to play file on this platform
func playerCommand(ctx context.Context, goos, file string, lookPath func(string) (string, error)) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.CommandContext(ctx, "afplay", file), nil
	case "linux", "freebsd", "openbsd":
		// Try multiple commands in order of preference
		candidates := [][]string{
			{"paplay", file},
			{"aplay", "-q", file},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", file},
			{"play", "-q", file}, // SoX
			{"mpg123", "-q", file},
		}
		for _, c := range candidates {
			if _, err := lookPath(c[0]); err == nil {
				return exec.CommandContext(ctx, c[0], c[1:]...), nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install pulseaudio-utils, alsa-utils, ffmpeg, sox, or mpg123")
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "/min", "/wait", file), nil
	}
	return nil, fmt.Errorf("unsupported platform: %s", goos)
}

// Play plays file and blocks until playback ends or ctx is cancelled
func Play(ctx context.Context, file string) error {
	cmd, err := playerCommand(ctx, runtime.GOOS, file, exec.LookPath)
	if err != nil {
		return err
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("playback failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}
