package models

import "time"

// APIResult is the envelope every tool call resolves to.
// Data and Error are never both populated.
type APIResult struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Success wraps data in a successful envelope.
func Success(data any) APIResult {
	return APIResult{OK: true, Data: data}
}

// Failure builds a failed envelope carrying msg.
func Failure(msg string) APIResult {
	return APIResult{OK: false, Error: msg}
}

// QueryParams holds the per-invocation arguments consumed by the query builder.
// Empty strings mean "not supplied".
type QueryParams struct {
	Keyword  string
	FromDate string
	ToDate   string
}

// HealthStatus is returned by GET /health and the health_check tool.
type HealthStatus struct {
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
	EndpointsAvailable int       `json:"endpointsAvailable"`
	Stateless          bool      `json:"stateless"`
}

// NewHealthStatus reports a healthy, stateless server with n configured endpoints.
func NewHealthStatus(n int, now time.Time) HealthStatus {
	return HealthStatus{
		Status:             "healthy",
		Timestamp:          now.UTC(),
		EndpointsAvailable: n,
		Stateless:          true,
	}
}
