package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/security"
)

// sendJSONError writes a JSON error payload with the given status code.
func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a 200 JSON response.
func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Failed to encode JSON response", "error", err)
	}
}

type AuthHandler struct {
	authService *security.AuthService
}

func NewAuthHandler(authService *security.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleLogin troca a senha do dashboard por um token de sessão.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Password string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !h.authService.Authenticate(credentials.Password) {
		logger.FromContext(r.Context()).Warn("Login attempt with wrong password", "remoteAddr", r.RemoteAddr)
		sendJSONError(w, "Senha incorreta", http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := h.authService.GenerateToken()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to generate session token", "error", err)
		sendJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
}
