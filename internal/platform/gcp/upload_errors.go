package gcp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

type UploadFailureKind string

const (
	UploadFailureRejected   UploadFailureKind = "rejected"
	UploadFailureTimeout    UploadFailureKind = "timeout"
	UploadFailureUnexpected UploadFailureKind = "unexpected"
)

// ClassifyUploadError separates authorization and policy rejections from transport failures.
func ClassifyUploadError(err error) UploadFailureKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return UploadFailureTimeout
	}
	if errors.Is(err, storage.ErrBucketNotExist) {
		return UploadFailureRejected
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusPreconditionFailed:
			return UploadFailureRejected
		}
		return UploadFailureUnexpected
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission") || strings.Contains(msg, "unauthenticated") {
		return UploadFailureRejected
	}
	return UploadFailureUnexpected
}
