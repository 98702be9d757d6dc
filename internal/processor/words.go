package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"codeberg.org/snonux/palabra/internal/dictionary"
	"codeberg.org/snonux/palabra/internal/listview"
	"codeberg.org/snonux/palabra/internal/translation"
	"codeberg.org/snonux/palabra/internal/words"
)

// ErrNoTranslation is returned when a word is added without its Russian
// side and no translation could be produced
var ErrNoTranslation = errors.New("no translation available, please provide the Russian word")

// Add stores a pair. A missing Russian side is translated first.
func (p *Processor) Add(ctx context.Context, spanish, russian string, speak bool) error {
	if russian == "" && spanish != "" {
		target := p.words.Language()
		fmt.Fprintf(p.out, "Translating to %s...\n", translation.TargetName(target))
		russian = p.translator.TranslateWord(ctx, spanish, target)
		if russian == "" {
			return ErrNoTranslation
		}
	}

	id, created, err := p.words.Add(spanish, russian)
	if err != nil {
		return err
	}
	entry, _ := p.words.Get(id)
	if created {
		fmt.Fprintf(p.out, "Added: %s\n", formatEntry(entry))
	} else {
		fmt.Fprintf(p.out, "Already in your list: %s\n", formatEntry(entry))
	}

	if speak {
		if err := p.Speak(ctx, entry.Spanish); err != nil {
			p.logger.Warn("pronunciation failed", zap.String("word", entry.Spanish), zap.Error(err))
			fmt.Fprintf(p.out, "Warning: could not pronounce %s: %v\n", entry.Spanish, err)
		}
	}
	return nil
}

// Edit replaces the text of an entry
func (p *Processor) Edit(ref, spanish, russian string) error {
	id, err := p.resolveID(ref)
	if err != nil {
		return err
	}
	ok, err := p.words.Update(id, spanish, russian)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no word with id %s", id)
	}
	entry, _ := p.words.Get(id)
	fmt.Fprintf(p.out, "Updated: %s\n", formatEntry(entry))
	return nil
}

// Delete removes the given entries
func (p *Processor) Delete(refs ...string) error {
	set := make(map[string]bool, len(refs))
	for _, ref := range refs {
		id, err := p.resolveID(ref)
		if err != nil {
			return err
		}
		set[id] = true
	}
	n, err := p.words.DeleteMany(set)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Deleted %d word(s)\n", n)
	return nil
}

// List prints the filtered and sorted word list page by page
func (p *Processor) List() error {
	sortBy, ok := listview.ParseSortBy(p.flags.SortBy)
	if !ok {
		return fmt.Errorf("unknown sort order: %s", p.flags.SortBy)
	}
	letter, err := p.letter()
	if err != nil {
		return err
	}
	result := listview.Apply(p.words.Entries(), listview.Query{
		Search: p.flags.Search,
		SortBy: sortBy,
		Letter: letter,
	})

	view := listview.NewView()
	view.SetItems(result)
	for page := 1; page < p.flags.Page || p.flags.All; page++ {
		if !view.ReachedEnd() {
			break
		}
	}

	if view.Total() == 0 {
		fmt.Fprintln(p.out, "No words found")
		return nil
	}
	for _, e := range view.Visible() {
		fmt.Fprintln(p.out, p.listLine(e))
	}
	fmt.Fprintf(p.out, "\nShowing %d of %d", len(view.Visible()), view.Total())
	if view.HasMore() {
		fmt.Fprintf(p.out, " (use --page %d or --all for more)", p.flags.Page+1)
	}
	fmt.Fprintln(p.out)
	return nil
}

// Recent prints the latest manually added words
func (p *Processor) Recent() error {
	recent := listview.Recent(p.words.Entries())
	if len(recent) == 0 {
		fmt.Fprintln(p.out, "No words yet. Add one with: palabra add <spanish> [russian]")
		return nil
	}
	color.New(color.Bold).Fprintf(p.out, "Recently added (%d words in total)\n", p.words.Len())
	for _, e := range recent {
		fmt.Fprintln(p.out, p.listLine(e))
	}
	return nil
}

// Random suggests a word from the built-in dictionary
func (p *Processor) Random(ctx context.Context) error {
	letter, err := p.letter()
	if err != nil {
		return err
	}
	pair := dictionary.RandomWord(letter)
	fmt.Fprintf(p.out, "%s - %s\n", pair.Spanish, pair.Russian)
	if !p.flags.Add {
		return nil
	}
	return p.Add(ctx, pair.Spanish, pair.Russian, false)
}

// Lang shows or sets the interface language
func (p *Processor) Lang(lang string) error {
	if lang == "" {
		fmt.Fprintln(p.out, p.words.Language())
		return nil
	}
	if err := p.words.SetLanguage(lang); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Language set to %s\n", lang)
	return nil
}

// resolveID accepts a full id or an unambiguous prefix as printed by list
func (p *Processor) resolveID(ref string) (string, error) {
	if _, ok := p.words.Get(ref); ok {
		return ref, nil
	}
	var match string
	for _, e := range p.words.Entries() {
		if ref == "" || !strings.HasPrefix(e.ID, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("id %s is ambiguous", ref)
		}
		match = e.ID
	}
	if match == "" {
		return "", fmt.Errorf("no word with id %s", ref)
	}
	return match, nil
}

func (p *Processor) letter() (string, error) {
	letter, ok := listview.ParseLetter(p.flags.Letter)
	if !ok {
		return "", fmt.Errorf("unknown letter %q, use one of %s or %s",
			p.flags.Letter, strings.Join(listview.Alphabet, ""), listview.AllLetters)
	}
	return letter, nil
}

// listLine prefixes the most recently saved entry with a marker
func (p *Processor) listLine(e words.Entry) string {
	if e.ID == p.words.LastSavedID() {
		return "* " + formatEntry(e)
	}
	return "  " + formatEntry(e)
}

func formatEntry(e words.Entry) string {
	return fmt.Sprintf("%s  %s - %s", shortID(e.ID), e.Spanish, e.Russian)
}

// shortID keeps the listing readable; ids are UUIDs
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
