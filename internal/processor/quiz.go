package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"codeberg.org/snonux/palabra/internal/quiz"
)

// Quiz runs an interactive multiple-choice session over all words.
// Answers are given by option number; after a wrong answer h asks for a
// hint, n (or an empty line) moves on and q quits.
func (p *Processor) Quiz(ctx context.Context) error {
	changes := make(chan quiz.Session, 16)
	engine := quiz.New(quiz.Config{
		Scheduler: p.scheduler,
		Hinter:    p.hinter,
		Language:  p.words.Language(),
		Logger:    p.logger,
		OnChange: func(s quiz.Session) {
			select {
			case changes <- s:
			default:
			}
		},
	})

	if err := engine.Start(p.words.Entries()); err != nil {
		return err
	}
	defer engine.Abort()

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	for {
		s := engine.Session()
		if s.Finished() {
			break
		}
		current, _ := s.Current()

		fmt.Fprintln(p.out)
		bold.Fprintf(p.out, "[%d/%d] %s\n", s.Index+1, len(s.Words), current.Spanish)
		for i, opt := range s.Options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprint(p.out, "> ")

		line, ok := p.readLine()
		if !ok || line == "q" {
			engine.Abort()
			break
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(s.Options) {
			fmt.Fprintf(p.out, "Enter a number between 1 and %d, or q to quit\n", len(s.Options))
			continue
		}

		drain(changes)
		correct, err := engine.Select(s.Options[n-1])
		if err != nil {
			return err
		}
		if correct {
			green.Fprintf(p.out, "Correct! %s - %s\n", current.Spanish, current.Russian)
			p.awaitAdvance(engine, changes, s.Index)
			continue
		}

		red.Fprintf(p.out, "Wrong. %s - %s\n", current.Spanish, current.Russian)
		if quit := p.afterWrongAnswer(ctx, engine); quit {
			engine.Abort()
			break
		}
	}

	stats := engine.Session().Stats
	bold.Fprintf(p.out, "\nCorrect: %d  Wrong: %d\n", stats.Correct, stats.Wrong)
	return nil
}

// afterWrongAnswer handles the hint/next/quit prompt. It reports whether
// the user quit.
func (p *Processor) afterWrongAnswer(ctx context.Context, engine *quiz.Engine) bool {
	for {
		fmt.Fprint(p.out, "[h]int, [n]ext, [q]uit > ")
		line, ok := p.readLine()
		if !ok {
			return true
		}
		switch strings.ToLower(line) {
		case "h":
			hint, err := engine.RequestHint(ctx)
			if err != nil {
				return false
			}
			if hint == "" {
				fmt.Fprintln(p.out, "No hint available")
			} else {
				color.New(color.Italic).Fprintln(p.out, hint)
			}
		case "", "n":
			engine.Next()
			return false
		case "q":
			return true
		}
	}
}

// awaitAdvance blocks until the engine moved past question index on its
// own. A generous deadline covers a scheduler that never fires.
func (p *Processor) awaitAdvance(engine *quiz.Engine, changes <-chan quiz.Session, index int) {
	deadline := time.After(3 * quiz.AutoAdvanceDelay)
	for {
		select {
		case s := <-changes:
			if s.Finished() || s.Index != index {
				return
			}
		case <-deadline:
			engine.Next()
			return
		}
	}
}

func drain(changes <-chan quiz.Session) {
	for {
		select {
		case <-changes:
		default:
			return
		}
	}
}
