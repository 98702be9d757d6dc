// Package listview derives what the word list shows: a filtered, sorted
// and paginated projection of the store plus the short "recent" list.
// Nothing here mutates the store.
package listview
