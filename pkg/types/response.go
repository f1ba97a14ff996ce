// Package types holds the wire envelopes every StockNexus endpoint speaks.
// Successful responses wrap their payload in `data`; failures carry a coded
// error object so clients can branch on `error.code` instead of status text.
package types

// SuccessEnvelope wraps a successful payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing shape of a coded error. Details is only
// populated for codes whose metadata allows it (validation issues, conflict
// context, dependency health checks).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
