package response

type APIResponse[T any] struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Data     T        `json:"data,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
