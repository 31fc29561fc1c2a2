package dto

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse body of GET /api/status.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// UpdateStatusRequest admin moderation input.
type UpdateStatusRequest struct {
	Status     string  `json:"status" validate:"required"`
	AdminNotes *string `json:"admin_notes,omitempty"` // listings only
}

// StatusUpdatedResponse result of a moderation write.
type StatusUpdatedResponse struct {
	Message            string   `json:"message"`
	ID                 string   `json:"id"`
	Status             string   `json:"status"`
	AllowedTransitions []string `json:"allowed_transitions"`
}
