// Package mnemonic asks a language model for a one sentence memory hook
// that helps a learner remember a Spanish word. Hints are written in the
// learner's interface language and never fall back to Spanish.
package mnemonic
