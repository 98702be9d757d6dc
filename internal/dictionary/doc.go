// Package dictionary holds a small built-in pool of common Spanish words
// with Russian translations, used to suggest a random word offline.
package dictionary
