// Package transcribe turns recorded Spanish speech into text with Gemini
// or OpenAI Whisper.
package transcribe
