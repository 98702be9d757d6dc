package listview

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"codeberg.org/snonux/palabra/internal/words"
)

// SortBy selects the field the list is ordered by
type SortBy string

const (
	SortSpanish SortBy = "alpha-es"
	SortRussian SortBy = "alpha-ru"
)

// AllLetters disables the letter filter
const AllLetters = "All"

// RecentLimit caps the recent view
const RecentLimit = 5

// Alphabet lists the letters offered by the letter filter
var Alphabet = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "Ñ", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

// Query describes a list projection
type Query struct {
	Search string
	SortBy SortBy
	Letter string
}

// ParseSortBy validates a sort key, defaulting to SortSpanish when empty
func ParseSortBy(s string) (SortBy, bool) {
	switch SortBy(s) {
	case "", SortSpanish:
		return SortSpanish, true
	case SortRussian:
		return SortRussian, true
	}
	return "", false
}

// ParseLetter normalises a letter filter. Empty and "All" in any case map
// to AllLetters; anything outside Alphabet is rejected.
func ParseLetter(s string) (string, bool) {
	letter := strings.ToUpper(strings.TrimSpace(s))
	if letter == "" || letter == strings.ToUpper(AllLetters) {
		return AllLetters, true
	}
	for _, l := range Alphabet {
		if l == letter {
			return l, true
		}
	}
	return "", false
}

// Apply filters by letter, then search text, then sorts. The input slice is
// left untouched.
func Apply(entries []words.Entry, q Query) []words.Entry {
	letter := strings.ToUpper(strings.TrimSpace(q.Letter))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	result := make([]words.Entry, 0, len(entries))
	for _, e := range entries {
		if letter != "" && letter != strings.ToUpper(AllLetters) &&
			!strings.HasPrefix(strings.ToUpper(e.Spanish), letter) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Spanish), search) &&
			!strings.Contains(strings.ToLower(e.Russian), search) {
			continue
		}
		result = append(result, e)
	}

	sortEntries(result, q.SortBy)
	return result
}

func sortEntries(entries []words.Entry, by SortBy) {
	tag := language.Spanish
	field := func(e words.Entry) string { return e.Spanish }
	if by == SortRussian {
		tag = language.Russian
		field = func(e words.Entry) string { return e.Russian }
	}

	// A collator keeps internal buffers, so each sort gets its own
	c := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		return c.CompareString(field(entries[i]), field(entries[j])) < 0
	})
}

// Recent returns the first RecentLimit manual entries in store order
func Recent(entries []words.Entry) []words.Entry {
	var recent []words.Entry
	for _, e := range entries {
		if !e.IsManual {
			continue
		}
		recent = append(recent, e)
		if len(recent) == RecentLimit {
			break
		}
	}
	return recent
}
