package aws

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/aws/smithy-go"

	"github.com/imamik/storagelab/internal/util/retry"
)

// ErrNotFound is returned when a describe call finds no matching resource.
var ErrNotFound = errors.New("resource not found")

// ErrAlreadyExists is returned when a named resource already exists.
var ErrAlreadyExists = errors.New("resource already exists")

var notFoundCodes = []string{
	"InvalidInstanceID.NotFound",
	"InvalidVolume.NotFound",
	"InvalidKeyPair.NotFound",
	"FileSystemNotFound",
	"MountTargetNotFound",
	"NoSuchBucket",
	"NoSuchKey",
	"NotFound",
}

var retryableCodes = []string{
	"Throttling",
	"ThrottlingException",
	"RequestLimitExceeded",
	"RequestThrottled",
	"RequestThrottledException",
	"TooManyRequestsException",
	"SlowDown",
	"InternalError",
	"InternalFailure",
	"InternalServerException",
	"InternalServerError",
	"ServiceUnavailable",
	"Unavailable",
}

// ErrorCode returns the API error code of err, or "" if err is not an API error.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || slices.Contains(notFoundCodes, ErrorCode(err))
}

// IsRetryable reports whether err is throttling or a server-side failure.
// Context errors are never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if slices.Contains(retryableCodes, ErrorCode(err)) {
		return true
	}
	var status interface{ HTTPStatusCode() int }
	if errors.As(err, &status) {
		code := status.HTTPStatusCode()
		return code == 429 || code >= 500
	}
	return false
}

// sdkAttempts disables the SDK's own retryer on clients whose calls go
// through call, so a throttled request is retried by one loop only.
const sdkAttempts = 1

// DefaultRetry is the retry policy applied to every API call.
func DefaultRetry() []retry.Option {
	return []retry.Option{
		retry.WithMaxRetries(3),
		retry.WithInitialDelay(500 * time.Millisecond),
		retry.WithMaxDelay(5 * time.Second),
	}
}

// call runs op with the client's retry policy, retrying only transient errors.
func call[T any](ctx context.Context, opts []retry.Option, op func(context.Context) (T, error)) (T, error) {
	all := append([]retry.Option{retry.WithRetryIf(IsRetryable)}, opts...)
	return retry.Value(ctx, op, all...)
}
