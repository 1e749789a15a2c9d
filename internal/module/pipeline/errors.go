package pipeline

import (
	"fmt"

	apperrors "github.com/quickai/server/internal/utils/errors"
)

// Rejections rendered to the client.
var (
	ErrLimitReached = apperrors.QuotaExceeded("Limit reached. Upgrade to continue")
	ErrPremiumOnly  = apperrors.Forbidden("This feature is available in premium plan")
	ErrFileTooLarge = apperrors.Rejected("FILE_TOO_LARGE", "Resume file size exceeds allowed size (5MB)", nil)
	ErrInvalid      = apperrors.Rejected("INVALID_REQUEST", "Invalid request", apperrors.ErrBadRequest)
)

func invalid(message string) error {
	return apperrors.Rejected(ErrInvalid.Code, message, apperrors.ErrBadRequest)
}

func fileTooLarge(limit int64) error {
	if limit == 5<<20 {
		return ErrFileTooLarge
	}
	msg := fmt.Sprintf("Resume file size exceeds allowed size (%dMB)", limit>>20)
	return apperrors.Rejected(ErrFileTooLarge.Code, msg, nil)
}

var failureMessages = map[Kind]string{
	KindArticle:           "Failed to generate article",
	KindBlogTitle:         "Failed to generate blog title",
	KindImage:             "Failed to generate image",
	KindBackgroundRemoval: "Failed to remove image background",
	KindObjectRemoval:     "Failed to remove object from image",
	KindResumeReview:      "Failed to review resume",
}

func failureMessage(kind Kind) string {
	if msg, ok := failureMessages[kind]; ok {
		return msg
	}
	return "Operation failed"
}

// upstreamFailure wraps an adapter error in the generic envelope for kind.
func upstreamFailure(kind Kind, err error) error {
	return apperrors.Upstream(failureMessage(kind), err)
}
