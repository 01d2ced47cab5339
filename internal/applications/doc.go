// Package applications provides the client for the applications review API.
//
// # Overview
//
// The package defines the Source interface the rest of docket depends on and
// two implementations of it:
//
//   - client.go: *Client, an HTTP client for the remote API
//   - mock.go: *Mock, an in-process source seeded with demo data
//   - seed.go: the demo collection and a tiny PDF generator for its CVs
//   - types.go: wire types and the Status enumeration
//
// # API Endpoints
//
//   - GET /api/applications: the full collection as a JSON array
//   - PATCH /api/applications/{id}/status: body {"status": "Approved"}
//
// Any 2xx response is success. Everything else is reported as *APIError so
// callers can inspect the status code with errors.As.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and a docket User-Agent
//   - Carry a fresh X-Request-ID so server logs can be correlated
//   - Are bounded by the client timeout (request_timeout in config)
//
// # Configuration
//
// There is no built-in API address. NewClient returns ErrNoBaseURL when the
// configured api_url is empty; a bare host:port is treated as http.
package applications
