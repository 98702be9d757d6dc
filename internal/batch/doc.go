// Package batch reads and writes the PALABRA_EXPORT_V1 word list files used
// to move vocabulary in and out of palabra.
package batch
