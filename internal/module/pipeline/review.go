package pipeline

import (
	"bytes"
	"context"
	"errors"

	"github.com/quickai/server/internal/module/document"
	apperrors "github.com/quickai/server/internal/utils/errors"
)

const (
	reviewRecordPrompt = "Review the uploaded resume"
	reviewPromptPrefix = "Review the following resume and provide constructive feedback on its strength, " +
		"weakness, and areas for improvement. Resume Content:\n\n"
)

type resumeReviewOperation struct {
	extractor TextExtractor
	llm       TextCompleter
	maxTokens int
	maxBytes  int64
}

// NewResumeReviewOperation reviews an uploaded PDF resume.
func NewResumeReviewOperation(extractor TextExtractor, llm TextCompleter, maxTokens int, maxBytes int64) Operation {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &resumeReviewOperation{extractor: extractor, llm: llm, maxTokens: maxTokens, maxBytes: maxBytes}
}

func (o *resumeReviewOperation) Kind() Kind { return KindResumeReview }
func (o *resumeReviewOperation) Gate() Gate { return GatePlan }

func (o *resumeReviewOperation) Validate(req *Request) error {
	if req.File == nil || req.File.Size() == 0 {
		return invalid("Resume file is required")
	}
	if req.File.Size() > o.maxBytes {
		return fileTooLarge(o.maxBytes)
	}
	return nil
}

func (o *resumeReviewOperation) Execute(ctx context.Context, _ Caller, req *Request) (*Result, error) {
	data, err := req.File.Bytes()
	if err != nil {
		return nil, apperrors.Internal(failureMessage(KindResumeReview), err)
	}
	// The declared size can lie.
	if int64(len(data)) > o.maxBytes {
		return nil, fileTooLarge(o.maxBytes)
	}

	text, err := o.extractor.ExtractText(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, document.ErrUnreadable) {
			return nil, invalid("Resume must be a readable PDF")
		}
		return nil, apperrors.Internal(failureMessage(KindResumeReview), err)
	}

	content, err := o.llm.Complete(ctx, reviewPrompt(text), o.maxTokens)
	if err != nil {
		return nil, upstreamFailure(KindResumeReview, err)
	}
	return &Result{Field: FieldContent, Payload: content, Prompt: reviewRecordPrompt}, nil
}

func reviewPrompt(text string) string {
	return reviewPromptPrefix + text
}
