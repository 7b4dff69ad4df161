// Package provider normalizes upstream AI provider failures.
//
// Every adapter call returns either a value or a *provider.Error; no raw
// SDK or transport error crosses into the handlers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies a provider failure.
type Kind string

const (
	// NetworkFailure covers timeouts and transport-level errors.
	NetworkFailure Kind = "network_failure"
	// ProviderRejected covers error bodies returned by the provider.
	ProviderRejected Kind = "provider_rejected"
	// MalformedResponse covers provider responses missing expected fields.
	MalformedResponse Kind = "malformed_response"
)

// Error carries the normalized failure plus the provider's raw status and
// message for diagnostics. It never contains credentials.
type Error struct {
	Kind   Kind
	Status int    // provider HTTP status, 0 when unknown
	Body   string // provider message, diagnostics only
	Err    error
}

func (e *Error) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Malformed builds a MalformedResponse error.
func Malformed(format string, args ...any) *Error {
	return &Error{Kind: MalformedResponse, Body: fmt.Sprintf(format, args...)}
}

// Wrap classifies err into a *Error. Already-normalized errors pass through.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:   ProviderRejected,
			Status: apiErr.HTTPStatusCode,
			Body:   apiErr.Message,
			Err:    err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		kind := NetworkFailure
		if reqErr.HTTPStatusCode >= 400 {
			kind = ProviderRejected
		}
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &Error{Kind: kind, Status: reqErr.HTTPStatusCode, Body: body, Err: err}
	}

	if isNetwork(err) {
		return &Error{Kind: NetworkFailure, Err: err}
	}

	return &Error{Kind: ProviderRejected, Err: err}
}

// Detail returns the diagnostic string handlers put into the response
// envelope's detail field.
func Detail(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Body != "" {
			return pe.Body
		}
		if pe.Err != nil {
			return pe.Err.Error()
		}
		return string(pe.Kind)
	}
	return err.Error()
}

func isNetwork(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
