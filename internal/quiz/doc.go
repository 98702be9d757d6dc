// Package quiz implements the multiple-choice quiz session.
//
// A session moves through Idle, Answering, Answered and Finished. A correct
// answer advances on its own after AutoAdvanceDelay; a wrong answer waits
// for Next so the learner can ask for a mnemonic hint first. Timer fires
// and hint replies that arrive after the session moved on are dropped.
package quiz
