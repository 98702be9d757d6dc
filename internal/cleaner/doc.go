// Package cleaner finds entries that should not be in the word list:
// junk created by broken automation and later duplicates of a Spanish word.
//
// The junk heuristics live in the Rules table. Each rule has a stable name
// so callers can report why an entry was flagged.
package cleaner
