// Package translation translates Spanish words into the learner's language
// using a Gemini or OpenAI text model. Results are cached in memory and
// failures degrade to an empty translation.
package translation
