package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Gemini speech output format
const (
	GeminiSampleRate    = 24000
	GeminiChannels      = 1
	GeminiBitsPerSample = 16
)

// WriteWAV wraps raw little-endian PCM samples in a RIFF/WAVE header
func WriteWAV(w io.Writer, pcm []byte, sampleRate, channels, bitsPerSample int) error {
	blockAlign := channels * bitsPerSample / 8
	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + len(pcm)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(bitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(pcm)),
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

// ConvertWAVToMP3 re-encodes wavFile as mp3File with ffmpeg.
func ConvertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}
	out, err := exec.CommandContext(ctx, "ffmpeg", "-loglevel", "error", "-i", wavFile, "-acodec", "mp3", "-y", mp3File).CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// writeViaWAV lets gen render a temporary WAV next to outputFile and then
// converts it to MP3.
func writeViaWAV(ctx context.Context, outputFile string, gen func(wavFile string) error) error {
	tmp := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".tmp.wav"
	defer os.Remove(tmp)
	if err := gen(tmp); err != nil {
		return err
	}
	return ConvertWAVToMP3(ctx, tmp, outputFile)
}
