// Package models lists the OpenAI models available to the configured key,
// grouped into speech, transcription and chat models.
package models
