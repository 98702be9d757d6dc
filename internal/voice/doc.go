// Package voice implements press-to-talk dictation.
//
// Capture is a small state machine (Idle, Recording, Transcribing). Every
// press takes a fresh token; microphone grants, timeouts and transcriber
// replies carrying an older token are discarded, and the microphone is
// released on every path out of Recording.
package voice
