// Package audio produces spoken Spanish for a word or phrase. Gemini and
// OpenAI voices are used when keys are configured; espeak-ng serves as an
// offline fallback. Play hands a file to whatever player the platform has.
package audio
