// Package errs defines the error types returned to API clients.
//
// Every error that leaves the service is shaped as an HTTPError so clients
// receive a consistent JSON structure: a machine code, a human message, an
// HTTP status, optional field-level validation errors, and an optional
// client action hint.
package errs
