package dto

// Envelopes shared by every /users endpoint.

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ListResponse struct {
	Success bool           `json:"success"`
	Data    []UserResponse `json:"data"`
	Count   int            `json:"count"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func NewErrorResponse(message, detail string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Error: detail}
}
