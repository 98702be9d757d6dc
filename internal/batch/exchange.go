package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/snonux/palabra/internal/words"
)

// Header is the literal first line of every export file
const Header = "PALABRA_EXPORT_V1"

// MaxFieldLength is the exclusive upper bound on a field's length in runes
const MaxFieldLength = 100

var (
	// ErrBadHeader is returned when the first line is not Header
	ErrBadHeader = errors.New("not a palabra export file")

	// ErrNoEntries is returned when a file has no usable pairs
	ErrNoEntries = errors.New("no valid word pairs found")
)

// Write writes pairs in export format
func Write(w io.Writer, pairs []words.Pair) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprint(bw, Header); err != nil {
		return err
	}
	for _, p := range pairs {
		if _, err := fmt.Fprintf(bw, "\n%s, %s", p.Spanish, p.Russian); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses an export file. Lines that are empty, have fewer than two
// comma separated fields, or whose trimmed fields are empty or too long
// are skipped.
//
// Format:
//
//	PALABRA_EXPORT_V1
//	Hola, Привет
//	Agua, Вода
func Read(r io.Reader) ([]words.Pair, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import data: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	if strings.TrimSpace(lines[0]) != Header {
		return nil, ErrBadHeader
	}

	var pairs []words.Pair
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		spanish := strings.TrimSpace(parts[0])
		russian := strings.TrimSpace(parts[1])
		if !validField(spanish) || !validField(russian) {
			continue
		}
		pairs = append(pairs, words.Pair{Spanish: spanish, Russian: russian})
	}

	if len(pairs) == 0 {
		return nil, ErrNoEntries
	}
	return pairs, nil
}

func validField(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n < MaxFieldLength
}

// ReadFile parses the export file at path
func ReadFile(path string) ([]words.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes pairs to path in export format
func WriteFile(path string, pairs []words.Pair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Write(f, pairs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return f.Close()
}

// ExportFilename returns the dated file name used for exports
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("palabra_export_%s.txt", t.Format("2006-01-02"))
}
