package cloudflare

import (
	"errors"
	"fmt"
)

// Error codes the platform returns for missing resources. Teardown treats
// these the same as a 404.
const (
	codeWorkerNotFound    = 10007
	codeNamespaceNotFound = 10009
	codeRouteNotFound     = 7003
	codeZoneNotFound      = 7000
)

// APIError is a structured error response from the platform: the request
// reached the API and was rejected.
type APIError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cloudflare api error %d: %s (http %d)", e.Code, e.Message, e.HTTPStatus)
}

// NotFound reports whether the error means the resource does not exist.
func (e *APIError) NotFound() bool {
	if e.HTTPStatus == 404 {
		return true
	}
	switch e.Code {
	case codeWorkerNotFound, codeNamespaceNotFound, codeRouteNotFound, codeZoneNotFound:
		return true
	}
	return false
}

// TransportError is a network-level failure: the request may or may not
// have reached the platform.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cloudflare transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
