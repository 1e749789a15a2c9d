package creation

// ToggleLikeRequest is the body of a like toggle.
type ToggleLikeRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// ListResponse wraps a list of creations.
type ListResponse struct {
	Success   bool        `json:"success"`
	Creations []*Creation `json:"creations"`
}

// MessageResponse is a bare envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
