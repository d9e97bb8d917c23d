package accounts

import (
	"net/http"

	"github.com/ankproject/ank-api/internal/metrics"
)

// StatusError is a provisioning failure that maps onto an HTTP status and a caller-visible detail.
type StatusError struct {
	Code   int
	Detail string
	Kind   string
}

func (e *StatusError) Error() string {
	return e.Detail
}

var (
	ErrNoUID          = &StatusError{Code: http.StatusBadRequest, Detail: "no uid", Kind: metrics.ErrorKindValidation}
	ErrNoEmail        = &StatusError{Code: http.StatusBadRequest, Detail: "no email", Kind: metrics.ErrorKindValidation}
	ErrInvalidPayload = &StatusError{Code: http.StatusBadRequest, Detail: "invalid request body", Kind: metrics.ErrorKindValidation}
	ErrBodyTooLarge   = &StatusError{Code: http.StatusRequestEntityTooLarge, Detail: "request body too large", Kind: metrics.ErrorKindValidation}
	ErrBucketNotSet   = &StatusError{Code: http.StatusInternalServerError, Detail: "UPLOAD_BUCKET is not set", Kind: metrics.ErrorKindConfiguration}
)
