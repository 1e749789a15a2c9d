package pipeline

import (
	"context"
	"fmt"
	"strings"
)

type articleOperation struct {
	llm       TextCompleter
	maxTokens int
}

// NewArticleOperation generates an article of the requested length. Lengths
// above maxTokens are rejected; a maxTokens of zero disables the cap.
func NewArticleOperation(llm TextCompleter, maxTokens int) Operation {
	return &articleOperation{llm: llm, maxTokens: maxTokens}
}

func (o *articleOperation) Kind() Kind { return KindArticle }
func (o *articleOperation) Gate() Gate { return GateQuota }

func (o *articleOperation) Validate(req *Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return invalid("Prompt is required")
	}
	if req.Length < 0 {
		return invalid("Length must be a positive number")
	}
	if o.maxTokens > 0 && req.Length > o.maxTokens {
		return invalid(fmt.Sprintf("Length must not exceed %d", o.maxTokens))
	}
	return nil
}

// Execute uses the length as the token budget. Zero leaves it to the model.
func (o *articleOperation) Execute(ctx context.Context, _ Caller, req *Request) (*Result, error) {
	content, err := o.llm.Complete(ctx, req.Prompt, req.Length)
	if err != nil {
		return nil, upstreamFailure(KindArticle, err)
	}
	return &Result{Field: FieldContent, Payload: content, Prompt: req.Prompt}, nil
}

type blogTitleOperation struct {
	llm       TextCompleter
	maxTokens int
}

// NewBlogTitleOperation suggests blog titles for a keyword prompt.
func NewBlogTitleOperation(llm TextCompleter, maxTokens int) Operation {
	if maxTokens <= 0 {
		maxTokens = 100
	}
	return &blogTitleOperation{llm: llm, maxTokens: maxTokens}
}

func (o *blogTitleOperation) Kind() Kind { return KindBlogTitle }
func (o *blogTitleOperation) Gate() Gate { return GateQuota }

func (o *blogTitleOperation) Validate(req *Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return invalid("Prompt is required")
	}
	return nil
}

func (o *blogTitleOperation) Execute(ctx context.Context, _ Caller, req *Request) (*Result, error) {
	content, err := o.llm.Complete(ctx, req.Prompt, o.maxTokens)
	if err != nil {
		return nil, upstreamFailure(KindBlogTitle, err)
	}
	return &Result{Field: FieldContent, Payload: content, Prompt: req.Prompt}, nil
}
