package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/palabra/internal/audio"
	"codeberg.org/snonux/palabra/internal/cli"
	"codeberg.org/snonux/palabra/internal/quiz"
	"codeberg.org/snonux/palabra/internal/storage"
	"codeberg.org/snonux/palabra/internal/translation"
	"codeberg.org/snonux/palabra/internal/voice"
	"codeberg.org/snonux/palabra/internal/words"
)

// DatabaseName is the sqlite file inside the state directory
const DatabaseName = "palabra.db"

// Processor handles the command logic
type Processor struct {
	flags  *cli.Flags
	logger *zap.Logger

	storage storage.Storage
	words   *words.Store

	translator  *translation.Translator
	hinter      quiz.Hinter
	speaker     audio.Provider
	transcriber voice.Transcriber
	microphone  voice.Microphone
	play        func(ctx context.Context, file string) error
	scheduler   quiz.Scheduler

	in  *bufio.Reader
	out io.Writer
	now func() time.Time
}

// NewProcessor opens the word store and sets up the collaborators
func NewProcessor(ctx context.Context, flags *cli.Flags, logger *zap.Logger) (*Processor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	st, err := openStorage(flags)
	if err != nil {
		return nil, err
	}

	store := words.NewStore(st, logger)
	if err := store.Load(); err != nil {
		st.Close()
		return nil, err
	}

	p := &Processor{
		flags:     flags,
		logger:    logger,
		storage:   st,
		words:     store,
		play:      audio.Play,
		scheduler: quiz.TimeScheduler{},
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		now:       time.Now,
	}
	p.setupCollaborators(ctx)
	return p, nil
}

func openStorage(flags *cli.Flags) (storage.Storage, error) {
	if flags.Ephemeral {
		return storage.NewMemory(), nil
	}
	dir := stateDir(flags)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return storage.OpenSQLite(filepath.Join(dir, DatabaseName))
}

func stateDir(flags *cli.Flags) string {
	if flags.StateDir == "" {
		return cli.DefaultStateDir()
	}
	return flags.StateDir
}

// Close releases the storage
func (p *Processor) Close() error {
	return p.storage.Close()
}

// Words exposes the store, mainly for tests and embedding
func (p *Processor) Words() *words.Store {
	return p.words
}

// Run dispatches a command
func (p *Processor) Run(ctx context.Context, action cli.Action, args []string) error {
	switch action {
	case cli.ActionAdd:
		russian := ""
		if len(args) > 1 {
			russian = args[1]
		}
		return p.Add(ctx, args[0], russian, p.flags.Speak)
	case cli.ActionEdit:
		return p.Edit(args[0], args[1], args[2])
	case cli.ActionDelete:
		return p.Delete(args...)
	case cli.ActionList:
		return p.List()
	case cli.ActionRecent:
		return p.Recent()
	case cli.ActionClean:
		kind := ""
		if len(args) > 0 {
			kind = args[0]
		}
		return p.Clean(kind)
	case cli.ActionClear:
		return p.Clear()
	case cli.ActionExport:
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return p.Export(path)
	case cli.ActionImport:
		return p.Import(args[0])
	case cli.ActionRandom:
		return p.Random(ctx)
	case cli.ActionSpeak:
		return p.Speak(ctx, strings.Join(args, " "))
	case cli.ActionListen:
		return p.Listen(ctx)
	case cli.ActionQuiz:
		return p.Quiz(ctx)
	case cli.ActionLang:
		lang := ""
		if len(args) > 0 {
			lang = args[0]
		}
		return p.Lang(lang)
	case cli.ActionModels:
		return p.ListModels(ctx)
	}
	return fmt.Errorf("unknown command: %s", action)
}

// confirm asks a yes/no question unless --yes was given
func (p *Processor) confirm(question string) bool {
	if p.flags.Yes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	answer, _ := p.readLine()
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// readLine returns the next trimmed input line. ok is false once the
// input is exhausted.
func (p *Processor) readLine() (line string, ok bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
