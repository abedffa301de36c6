package gitea

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why an upstream call failed
type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"
	KindStatus      ErrorKind = "status"
	KindDecode      ErrorKind = "decode"
	KindRateLimited ErrorKind = "rate_limited"
	KindRequest     ErrorKind = "request"
)

// UpstreamError reports a failed call to the Gitea API: transport failure,
// non-2xx status or an undecodable body.
type UpstreamError struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upstream %s %s returned %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	case KindDecode:
		return fmt.Sprintf("upstream %s %s returned an invalid JSON body: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("upstream %s %s failed: %v", e.Method, e.Path, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Kind == KindStatus && ue.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether the upstream rejected the configured token
func IsUnauthorized(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Kind == KindStatus &&
		(ue.StatusCode == http.StatusUnauthorized || ue.StatusCode == http.StatusForbidden)
}
