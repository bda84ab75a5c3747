// Package result defines the envelope returned by every outbound
// integration call. Handlers branch on Success alone; clients see the
// same two-branch shape no matter where a failure originated.
package result

// Error carries a normalized upstream failure. Code is optional and
// omitted from JSON when empty.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Result wraps the outcome of a single external call. Exactly one of
// Data/Error is meaningful, gated by Success. A Result is built once
// per call and never mutated afterwards.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Ok builds a success envelope around data.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failure envelope. code may be empty.
func Fail[T any](message, code string) Result[T] {
	return Result[T]{Success: false, Error: &Error{Message: message, Code: code}}
}

// Message returns the error message, or fallback when the error half
// is missing or blank.
func (r Result[T]) Message(fallback string) string {
	if r.Error == nil || r.Error.Message == "" {
		return fallback
	}
	return r.Error.Message
}

// Code returns the error code, or "" when none was supplied.
func (r Result[T]) Code() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}
