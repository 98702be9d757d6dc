package quiz

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/palabra/internal/words"
)

type fakeScheduler struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

type fakeTimer struct {
	d         time.Duration
	f         func()
	cancelled bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.pending = append(s.pending, t)
	return func() {
		s.mu.Lock()
		t.cancelled = true
		s.mu.Unlock()
	}
}

// fireAll runs every scheduled function, including cancelled ones, to
// simulate a timer racing its cancellation.
func (s *fakeScheduler) fireAll(includeCancelled bool) int {
	s.mu.Lock()
	timers := s.pending
	s.pending = nil
	s.mu.Unlock()

	n := 0
	for _, t := range timers {
		if t.cancelled && !includeCancelled {
			continue
		}
		t.f()
		n++
	}
	return n
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

type mockHinter struct {
	mock.Mock
}

func (m *mockHinter) Hint(ctx context.Context, spanish, russian, lang string) (string, error) {
	args := m.Called(ctx, spanish, russian, lang)
	return args.String(0), args.Error(1)
}

func solMar() []words.Entry {
	return []words.Entry{
		{ID: "1", Spanish: "Sol", Russian: "Солнце"},
		{ID: "2", Spanish: "Mar", Russian: "Море"},
	}
}

func newEngine(t *testing.T, h Hinter) (*Engine, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	e := New(Config{
		Scheduler: sched,
		Hinter:    h,
		Rand:      rand.New(rand.NewSource(1)),
	})
	return e, sched
}

func wrongOption(s Session) string {
	correct := s.Words[s.Index].Russian
	for _, o := range s.Options {
		if o != correct {
			return o
		}
	}
	return ""
}

func count(opts []string, v string) int {
	n := 0
	for _, o := range opts {
		if o == v {
			n++
		}
	}
	return n
}

func TestStart_Empty(t *testing.T) {
	e, _ := newEngine(t, nil)
	assert.ErrorIs(t, e.Start(nil), ErrNoWords)
	assert.Equal(t, Idle, e.Session().State)
}

func TestStart_SolMar(t *testing.T) {
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Start(solMar()))

	s := e.Session()
	assert.Equal(t, Answering, s.State)
	assert.Len(t, s.Words, 2)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, Stats{}, s.Stats)
	assert.ElementsMatch(t, []string{"Солнце", "Море"}, s.Options)
	assert.Equal(t, 1, count(s.Options, s.Words[0].Russian))
}

func TestCorrectAnswerAutoAdvances(t *testing.T) {
	e, sched := newEngine(t, nil)
	require.NoError(t, e.Start(solMar()))
	s := e.Session()

	ok, err := e.Select(s.Words[0].Russian)
	require.NoError(t, err)
	assert.True(t, ok)

	s = e.Session()
	assert.Equal(t, Answered, s.State)
	assert.Equal(t, ResultCorrect, s.Result)
	assert.Equal(t, 1, s.Stats.Correct)
	assert.Equal(t, 0, s.Index)
	require.Equal(t, 1, sched.count())
	assert.Equal(t, AutoAdvanceDelay, sched.pending[0].d)

	sched.fireAll(false)

	s = e.Session()
	assert.Equal(t, Answering, s.State)
	assert.Equal(t, 1, s.Index)
	assert.Empty(t, s.Selected)
	assert.Equal(t, ResultNone, s.Result)
	assert.Equal(t, 1, count(s.Options, s.Words[1].Russian))
}

func TestWrongAnswerWaitsForNext(t *testing.T) {
	e, sched := newEngine(t, nil)
	require.NoError(t, e.Start(solMar()))

	ok, err := e.Select(wrongOption(e.Session()))
	require.NoError(t, err)
	assert.False(t, ok)

	s := e.Session()
	assert.Equal(t, Answered, s.State)
	assert.Equal(t, ResultWrong, s.Result)
	assert.Equal(t, 1, s.Stats.Wrong)
	assert.Zero(t, sched.count())

	require.NoError(t, e.Next())
	s = e.Session()
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, Answering, s.State)

	_, err = e.Select(wrongOption(s))
	require.NoError(t, err)
	require.NoError(t, e.Next())
	s = e.Session()
	assert.Equal(t, Finished, s.State)
	assert.True(t, s.Finished())
	assert.Equal(t, Stats{Correct: 0, Wrong: 2}, s.Stats)
}

func TestCorrectOnLastQuestionFinishes(t *testing.T) {
	e, sched := newEngine(t, nil)
	require.NoError(t, e.Start(solMar()[:1]))

	_, err := e.Select("Солнце")
	require.NoError(t, err)
	sched.fireAll(false)
	assert.Equal(t, Finished, e.Session().State)
}

func TestSelectAndNextGuards(t *testing.T) {
	e, _ := newEngine(t, nil)

	_, err := e.Select("x")
	assert.ErrorIs(t, err, ErrNotAnswering)
	assert.ErrorIs(t, e.Next(), ErrNotAnswered)

	require.NoError(t, e.Start(solMar()))
	assert.ErrorIs(t, e.Next(), ErrNotAnswered)

	_, err = e.Select(wrongOption(e.Session()))
	require.NoError(t, err)
	_, err = e.Select("Море")
	assert.ErrorIs(t, err, ErrNotAnswering)
	assert.Equal(t, 1, e.Session().Stats.Wrong+e.Session().Stats.Correct)
}

func TestNextCancelsAutoAdvance(t *testing.T) {
	e, sched := newEngine(t, nil)
	require.NoError(t, e.Start(solMar()))

	_, err := e.Select(e.Session().Words[0].Russian)
	require.NoError(t, err)
	require.NoError(t, e.Next())
	assert.Zero(t, sched.count())

	// A timer that fires despite cancellation must not skip question 2
	sched.fireAll(true)
	s := e.Session()
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, Answering, s.State)
}

func TestAbort(t *testing.T) {
	e, sched := newEngine(t, nil)
	e.Abort()
	assert.Equal(t, Idle, e.Session().State)

	require.NoError(t, e.Start(solMar()))
	_, err := e.Select(e.Session().Words[0].Russian)
	require.NoError(t, err)

	e.Abort()
	assert.Equal(t, Finished, e.Session().State)
	sched.fireAll(true)
	assert.Equal(t, Finished, e.Session().State)
	assert.Equal(t, 0, e.Session().Index)

	_, err = e.Select("Море")
	assert.ErrorIs(t, err, ErrNotAnswering)
}

func TestRestartReplacesSession(t *testing.T) {
	e, sched := newEngine(t, nil)
	require.NoError(t, e.Start(solMar()))
	_, err := e.Select(e.Session().Words[0].Russian)
	require.NoError(t, err)

	require.NoError(t, e.Start(solMar()))
	sched.fireAll(true)

	s := e.Session()
	assert.Equal(t, Answering, s.State)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, Stats{}, s.Stats)
}

func TestOptions(t *testing.T) {
	list := []words.Entry{
		{ID: "1", Spanish: "Gato", Russian: "Кот"},
		{ID: "2", Spanish: "Minino", Russian: "Кот"},
		{ID: "3", Spanish: "Perro", Russian: "Собака"},
		{ID: "4", Spanish: "Casa", Russian: "Дом"},
		{ID: "5", Spanish: "Agua", Russian: "Вода"},
		{ID: "6", Spanish: "Sol", Russian: "Солнце"},
	}

	for seed := int64(0); seed < 50; seed++ {
		e := New(Config{Scheduler: &fakeScheduler{}, Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, e.Start(list))

		for {
			s := e.Session()
			if s.State == Finished {
				break
			}
			correct := s.Words[s.Index].Russian
			assert.Equal(t, 1, count(s.Options, correct))
			assert.Len(t, s.Options, 1+MaxDistractors)
			seen := map[string]bool{}
			for _, o := range s.Options {
				assert.False(t, seen[o], "duplicate option %s", o)
				seen[o] = true
			}
			_, err := e.Select(wrongOption(s))
			require.NoError(t, err)
			require.NoError(t, e.Next())
		}
	}
}

func TestOptions_SingleWord(t *testing.T) {
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Start([]words.Entry{{ID: "1", Spanish: "Sol", Russian: "Солнце"}}))
	assert.Equal(t, []string{"Солнце"}, e.Session().Options)
}

func TestStartDoesNotMutateInput(t *testing.T) {
	list := solMar()
	e, _ := newEngine(t, nil)
	require.NoError(t, e.Start(list))
	assert.Equal(t, solMar(), list)
}

func TestRequestHint(t *testing.T) {
	h := &mockHinter{}
	e := New(Config{
		Scheduler: &fakeScheduler{},
		Hinter:    h,
		Language:  "en",
		Rand:      rand.New(rand.NewSource(1)),
	})
	require.NoError(t, e.Start(solMar()))

	_, err := e.RequestHint(context.Background())
	assert.ErrorIs(t, err, ErrNotWrong)

	s := e.Session()
	word := s.Words[0]
	h.On("Hint", mock.Anything, word.Spanish, word.Russian, "en").Return("Think of the sun", nil)

	_, err = e.Select(wrongOption(s))
	require.NoError(t, err)

	hint, err := e.RequestHint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Think of the sun", hint)
	assert.Equal(t, "Think of the sun", e.Session().Hint)
	h.AssertExpectations(t)

	require.NoError(t, e.Next())
	assert.Empty(t, e.Session().Hint)
}

func TestRequestHint_FailureGivesEmptyHint(t *testing.T) {
	h := &mockHinter{}
	e, _ := newEngine(t, h)
	require.NoError(t, e.Start(solMar()))
	h.On("Hint", mock.Anything, mock.Anything, mock.Anything, "ru").Return("", errors.New("quota"))

	_, err := e.Select(wrongOption(e.Session()))
	require.NoError(t, err)

	hint, err := e.RequestHint(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hint)
	assert.Equal(t, Answered, e.Session().State)
}

// blockingHinter lets the test move the session on while a hint is in flight
type blockingHinter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingHinter) Hint(ctx context.Context, spanish, russian, lang string) (string, error) {
	close(b.started)
	<-b.release
	return "late hint", nil
}

func TestRequestHint_StaleReplyDropped(t *testing.T) {
	h := &blockingHinter{started: make(chan struct{}), release: make(chan struct{})}
	e, _ := newEngine(t, h)
	require.NoError(t, e.Start(solMar()))
	_, err := e.Select(wrongOption(e.Session()))
	require.NoError(t, err)

	done := make(chan string)
	go func() {
		hint, _ := e.RequestHint(context.Background())
		done <- hint
	}()

	<-h.started
	require.NoError(t, e.Next())
	close(h.release)

	assert.Empty(t, <-done)
	s := e.Session()
	assert.Equal(t, 1, s.Index)
	assert.Empty(t, s.Hint)
}

func TestOnChange(t *testing.T) {
	var states []State
	sched := &fakeScheduler{}
	e := New(Config{
		Scheduler: sched,
		Rand:      rand.New(rand.NewSource(3)),
		OnChange:  func(s Session) { states = append(states, s.State) },
	})

	require.NoError(t, e.Start(solMar()))
	_, err := e.Select(e.Session().Words[0].Russian)
	require.NoError(t, err)
	sched.fireAll(false)
	e.Abort()

	assert.Equal(t, []State{Answering, Answered, Answering, Finished}, states)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "answering", Answering.String())
	assert.Equal(t, "answered", Answered.String())
	assert.Equal(t, "finished", Finished.String())
}
