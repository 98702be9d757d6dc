// Package words owns the canonical vocabulary list. The Store keeps the
// entries in display order, enforces case-insensitive uniqueness of the
// Spanish side when words are added or imported, and writes the whole list
// to durable storage after every change.
package words
