package models

// StatusResponse reports success or failure of an operation with no payload.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginResponse is the store's answer to a login attempt. The handler layer
// turns a successful response into a signed token; the store itself never
// issues credentials.
type LoginResponse struct {
	Success  bool   `json:"success"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
	Error    string `json:"error,omitempty"`
}
