package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/palabra/internal/words"
)

// MaxFieldLength is the longest field a real entry may have, in runes
const MaxFieldLength = 80

// MaxSymbols is the number of symbol characters tolerated in an entry
const MaxSymbols = 4

// Symbols is the set counted by the symbol-density rule
const Symbols = "?%*:[]{}@#$^&()_+|~=`"

// Rule is one junk heuristic. Match receives the entry and the lowered
// "spanish russian" text.
type Rule struct {
	Name  string
	Match func(e words.Entry, text string) bool
}

var letters = regexp.MustCompile(`[a-zа-яё]`)

// patterns resemble markup or source code that leaked into entries
var patterns = []string{
	`{`, `}`, `\[`, `\]`, `"\.`, `:\s*\[`,
	`\.tsx`, `\.html`,
	`destination`, `inlinedata`, `mimetype`, `base64`, `data:image`,
	`const\s+`, `export\s+`, `import\s+`, `return\s+`, `function\s+`,
	`\*\?:`,
}

// Rules is evaluated in order; the first match names the classification
var Rules = buildRules()

func buildRules() []Rule {
	rules := []Rule{
		{
			Name: "no-letters",
			Match: func(_ words.Entry, text string) bool {
				return !letters.MatchString(text)
			},
		},
		{
			Name: "too-long",
			Match: func(e words.Entry, _ string) bool {
				return utf8.RuneCountInString(e.Spanish) > MaxFieldLength ||
					utf8.RuneCountInString(e.Russian) > MaxFieldLength
			},
		},
		{
			Name: "symbol-density",
			Match: func(_ words.Entry, text string) bool {
				n := 0
				for _, r := range text {
					if strings.ContainsRune(Symbols, r) {
						n++
					}
				}
				return n > MaxSymbols
			},
		},
	}

	for _, expr := range patterns {
		re := regexp.MustCompile(expr)
		rules = append(rules, Rule{
			Name: "pattern:" + expr,
			Match: func(_ words.Entry, text string) bool {
				return re.MatchString(text)
			},
		})
	}
	return rules
}

// Classify returns the name of the first matching rule
func Classify(e words.Entry) (string, bool) {
	text := strings.ToLower(e.Spanish + " " + e.Russian)
	for _, r := range Rules {
		if r.Match(e, text) {
			return r.Name, true
		}
	}
	return "", false
}
