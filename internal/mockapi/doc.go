// Package mockapi serves demo application data over the same HTTP contract
// docket's API client speaks:
//
//	GET   /api/applications
//	PATCH /api/applications/{id}/status   {"status": "Approved"}
//
// plus /health and Prometheus metrics at /metrics. Status updates can be
// failed on purpose, by id or at random, to exercise partial bulk failures.
package mockapi
