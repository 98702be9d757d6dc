package words

import "strings"

// Entry is a single Spanish/Russian word pair
type Entry struct {
	ID       string `json:"id"`
	Spanish  string `json:"spanish"`
	Russian  string `json:"russian"`
	AddedAt  int64  `json:"addedAt"` // Unix milliseconds
	IsManual bool   `json:"isManual"`
}

// Pair is a Spanish/Russian pair without identity, as exchanged in files
type Pair struct {
	Spanish string
	Russian string
}

// Key returns the case-insensitive comparison key of a Spanish word
func Key(spanish string) string {
	return strings.ToLower(strings.TrimSpace(spanish))
}
