// Package ai is the call boundary for the remote AI services palabra uses.
//
// A Guard runs each request through a circuit breaker and a bounded retry
// loop. Callers that must never fail use Call, which logs the error and
// hands back a fallback value instead.
package ai
