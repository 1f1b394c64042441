package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"driftwood/internal/engine/actors"
	"driftwood/internal/models"

	"github.com/google/uuid"
)

// RegisterUserRequest represents a registration request
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(&actors.RegisterUserMsg{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		s.writeResult(w, result, err)
	}
}

// HandleUserLogin verifies credentials through the store and, on success,
// layers a signed token on top of the response.
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		log.Printf("Received login request for email: %s", req.Email)
		result, err := s.ask(&actors.LoginMsg{Email: req.Email, Password: req.Password})
		if err != nil {
			s.writeResult(w, nil, err)
			return
		}

		loginResp, ok := result.(*models.LoginResponse)
		if !ok {
			s.writeResult(w, result, nil)
			return
		}

		if !loginResp.Success {
			writeJSON(w, http.StatusUnauthorized, loginResp)
			return
		}

		userID, err := uuid.Parse(loginResp.UserID)
		if err != nil {
			log.Printf("Invalid user ID in login response: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		token, err := s.Tokens.GenerateToken(userID, loginResp.IsAdmin)
		if err != nil {
			log.Printf("Failed to generate auth token: %v", err)
			http.Error(w, "Authentication error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"userId":   loginResp.UserID,
			"username": loginResp.Username,
			"isAdmin":  loginResp.IsAdmin,
			"token":    token,
		})
	}
}

// HandleUserProfile serves a user's public profile
func (s *Server) HandleUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, err := uuid.Parse(r.URL.Query().Get("userId"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(&actors.GetUserProfileMsg{UserID: userID})
		s.writeResult(w, result, askErr)
	}
}
