// Package upstream is the HTTP client for the mobile-network API.
//
// Send retries HTTP 502 responses with a constant delay up to a fixed attempt
// budget and returns every other status to the caller untouched. Transport
// faults are never retried; they surface as a nil response and an error
// wrapping ErrTransport.
package upstream
