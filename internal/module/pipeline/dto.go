package pipeline

// ArticleRequest is the body of an article request.
type ArticleRequest struct {
	Prompt string `json:"prompt" example:"Write an article about Go generics"`
	Length int    `json:"length" example:"800"`
}

// PromptRequest is the body of a blog title request.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// ImageRequest is the body of an image synthesis request.
type ImageRequest struct {
	Prompt  string `json:"prompt"`
	Publish bool   `json:"publish"`
}

// ContentResponse carries generated text.
type ContentResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}

// SecureURLResponse carries a hosted image URL.
type SecureURLResponse struct {
	Success   bool   `json:"success"`
	SecureURL string `json:"secure_url"`
}

// ErrorResponse is a failure envelope. Error is only set by image synthesis.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
