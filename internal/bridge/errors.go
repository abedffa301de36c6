package bridge

import (
	"errors"
	"fmt"

	"github.com/johnnynv/gitea-bridge/internal/gitea"
	"github.com/johnnynv/gitea-bridge/internal/normalizer"
)

// Error kinds recorded in the journal and used as the metrics outcome
const (
	ErrorKindUpstream      = "upstream"
	ErrorKindNormalization = "normalization"
	ErrorKindInvalidInput  = "invalid_input"
	ErrorKindInternal      = "internal"
)

// InvalidInputError reports a caller argument the bridge refuses to forward
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// OperationError wraps the failure of one aggregation operation
type OperationError struct {
	Operation string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Kind classifies err into one of the ErrorKind constants
func Kind(err error) string {
	var upstreamErr *gitea.UpstreamError
	var normErr *normalizer.NormalizationError
	var inputErr *InvalidInputError

	switch {
	case errors.As(err, &inputErr):
		return ErrorKindInvalidInput
	case errors.As(err, &upstreamErr):
		return ErrorKindUpstream
	case errors.As(err, &normErr):
		return ErrorKindNormalization
	default:
		return ErrorKindInternal
	}
}

// IsInvalidInput reports whether err was caused by a bad caller argument
func IsInvalidInput(err error) bool {
	var inputErr *InvalidInputError
	return errors.As(err, &inputErr)
}
