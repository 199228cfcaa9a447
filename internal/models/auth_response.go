package models

// MessageResponse is the generic acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the session token issued on login
type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is written for every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
