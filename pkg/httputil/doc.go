// Package httputil downloads text documents for word counting.
//
// # Fetching
//
// [Client.FetchText] GETs a URL and returns its text as UTF-8:
//
//   - Plain text, Markdown, JSON and XML are returned as they are, after
//     charset conversion
//   - HTML pages are reduced to their visible text; scripts, styles and
//     markup are dropped
//   - Other content types (images, archives) are rejected
//
// Failures carry codes from package errors: a missing page is
// FILE_NOT_FOUND, an unreachable or failing server NETWORK_ERROR.
//
// # Retry
//
// Transient failures (network errors, 5xx and 429 responses) are retried
// with exponential backoff, see [Backoff]. A Retry-After header on a 429 or
// 503 response stretches the next delay.
package httputil
