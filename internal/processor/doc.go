// Package processor contains the application logic behind the palabra
// commands. It owns the word store and the AI collaborators and turns
// each command into calls on the store, the list view, the cleaner, the
// quiz engine and the voice capture.
package processor
