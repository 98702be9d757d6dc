package quiz

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/palabra/internal/words"
)

// AutoAdvanceDelay is how long a correct answer stays on screen
const AutoAdvanceDelay = 1200 * time.Millisecond

// MaxDistractors is the number of wrong options per question
const MaxDistractors = 3

var (
	ErrNoWords      = errors.New("no words to quiz")
	ErrNotAnswering = errors.New("question is not awaiting an answer")
	ErrNotAnswered  = errors.New("question has not been answered yet")
	ErrNotWrong     = errors.New("hints are only available after a wrong answer")
)

// State of a quiz session
type State int

const (
	Idle State = iota
	Answering
	Answered
	Finished
)

func (s State) String() string {
	switch s {
	case Answering:
		return "answering"
	case Answered:
		return "answered"
	case Finished:
		return "finished"
	}
	return "idle"
}

// Result of the current question
type Result int

const (
	ResultNone Result = iota
	ResultCorrect
	ResultWrong
)

// Stats counts answers in the session
type Stats struct {
	Correct int
	Wrong   int
}

// Session is a copy of the engine state handed to callers
type Session struct {
	State    State
	Words    []words.Entry
	Index    int
	Options  []string
	Selected string
	Result   Result
	Hint     string
	Stats    Stats
}

// Finished reports whether the session has ended
func (s Session) Finished() bool {
	return s.State == Finished
}

// Current returns the word being asked, if any
func (s Session) Current() (words.Entry, bool) {
	if s.State == Idle || s.State == Finished || s.Index >= len(s.Words) {
		return words.Entry{}, false
	}
	return s.Words[s.Index], true
}

// Hinter produces a mnemonic hint for a word
type Hinter interface {
	Hint(ctx context.Context, spanish, russian, lang string) (string, error)
}

// Config configures an Engine. All fields are optional.
type Config struct {
	Scheduler Scheduler
	Hinter    Hinter
	Language  string
	Rand      *rand.Rand
	Logger    *zap.Logger
	OnChange  func(Session)
}

// Engine drives one quiz session at a time
type Engine struct {
	mu sync.Mutex

	scheduler Scheduler
	hinter    Hinter
	language  string
	rng       *rand.Rand
	logger    *zap.Logger
	onChange  func(Session)

	session Session
	// generation changes whenever the question changes; stale timers and
	// hint replies compare against it
	generation uint64
	cancel     Cancel
}

// New creates an idle engine
func New(cfg Config) *Engine {
	e := &Engine{
		scheduler: cfg.Scheduler,
		hinter:    cfg.Hinter,
		language:  cfg.Language,
		rng:       cfg.Rand,
		logger:    cfg.Logger,
		onChange:  cfg.OnChange,
	}
	if e.scheduler == nil {
		e.scheduler = TimeScheduler{}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.language == "" {
		e.language = words.LanguageRussian
	}
	return e
}

// Session returns a copy of the current state
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Start begins a new session over a shuffled copy of list, replacing any
// session in progress.
func (e *Engine) Start(list []words.Entry) error {
	if len(list) == 0 {
		return ErrNoWords
	}

	e.mu.Lock()
	e.stopTimer()
	e.generation++

	shuffled := make([]words.Entry, len(list))
	copy(shuffled, list)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	e.session = Session{State: Answering, Words: shuffled}
	e.session.Options = e.options(0)
	snap := e.snapshot()
	e.mu.Unlock()

	e.logger.Debug("quiz started", zap.Int("words", len(shuffled)))
	e.notify(snap)
	return nil
}

// options builds the shuffled choice list for question i
func (e *Engine) options(i int) []string {
	list := e.session.Words
	correct := list[i].Russian

	seen := map[string]bool{correct: true}
	var pool []string
	for j, w := range list {
		if j == i || seen[w.Russian] {
			continue
		}
		seen[w.Russian] = true
		pool = append(pool, w.Russian)
	}

	e.rng.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })
	if len(pool) > MaxDistractors {
		pool = pool[:MaxDistractors]
	}

	opts := append([]string{correct}, pool...)
	e.rng.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
	return opts
}

// Select locks an answer. A correct answer schedules the next question.
func (e *Engine) Select(option string) (bool, error) {
	e.mu.Lock()
	if e.session.State != Answering {
		e.mu.Unlock()
		return false, ErrNotAnswering
	}

	correct := option == e.session.Words[e.session.Index].Russian
	e.session.State = Answered
	e.session.Selected = option
	if correct {
		e.session.Result = ResultCorrect
		e.session.Stats.Correct++
		gen := e.generation
		e.cancel = e.scheduler.AfterFunc(AutoAdvanceDelay, func() {
			e.autoAdvance(gen)
		})
	} else {
		e.session.Result = ResultWrong
		e.session.Stats.Wrong++
	}
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return correct, nil
}

func (e *Engine) autoAdvance(gen uint64) {
	e.mu.Lock()
	if gen != e.generation || e.session.State != Answered {
		e.mu.Unlock()
		return
	}
	e.cancel = nil
	e.advance()
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
}

// Next moves past an answered question, finishing after the last one
func (e *Engine) Next() error {
	e.mu.Lock()
	if e.session.State != Answered {
		e.mu.Unlock()
		return ErrNotAnswered
	}
	e.stopTimer()
	e.advance()
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return nil
}

// advance must be called with mu held
func (e *Engine) advance() {
	e.generation++
	e.session.Selected = ""
	e.session.Result = ResultNone
	e.session.Hint = ""
	e.session.Options = nil

	if e.session.Index+1 >= len(e.session.Words) {
		e.session.State = Finished
		return
	}
	e.session.Index++
	e.session.Options = e.options(e.session.Index)
	e.session.State = Answering
}

// Abort ends the session early. It is a no-op when idle or finished.
func (e *Engine) Abort() {
	e.mu.Lock()
	if e.session.State == Idle || e.session.State == Finished {
		e.mu.Unlock()
		return
	}
	e.stopTimer()
	e.generation++
	e.session.State = Finished
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
}

// RequestHint asks the hinter about the current word after a wrong answer.
// The reply is attached only if the session is still on that question.
// Hinter failures leave the hint empty.
func (e *Engine) RequestHint(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.session.State != Answered || e.session.Result != ResultWrong {
		e.mu.Unlock()
		return "", ErrNotWrong
	}
	if e.hinter == nil {
		e.mu.Unlock()
		return "", nil
	}
	gen := e.generation
	word := e.session.Words[e.session.Index]
	lang := e.language
	e.mu.Unlock()

	hint, err := e.hinter.Hint(ctx, word.Spanish, word.Russian, lang)
	if err != nil {
		e.logger.Warn("hint failed", zap.String("word", word.Spanish), zap.Error(err))
		hint = ""
	}

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.logger.Debug("dropping stale hint", zap.String("word", word.Spanish))
		return "", nil
	}
	e.session.Hint = hint
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return hint, nil
}

func (e *Engine) stopTimer() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) snapshot() Session {
	s := e.session
	s.Words = append([]words.Entry(nil), e.session.Words...)
	s.Options = append([]string(nil), e.session.Options...)
	return s
}

func (e *Engine) notify(s Session) {
	if e.onChange != nil {
		e.onChange(s)
	}
}
