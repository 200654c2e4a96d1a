package handlers

import (
	"net/http"

	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login exchanges the operator's credentials for a bearer token
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	if !r.cfg.AuthEnabled() {
		respondJSON(w, http.StatusOK, map[string]interface{}{"authEnabled": false})
		return
	}

	var loginReq LoginRequest
	if !decodeJSON(w, req, &loginReq) {
		return
	}

	auth := r.cfg.Auth
	if loginReq.Username != auth.OperatorUsername || !utils.CheckPasswordHash(loginReq.Password, auth.OperatorPasswordHash) {
		logger.FromContext(req.Context()).Warn().Str("username", loginReq.Username).Msg("Failed login")
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expires, err := utils.GenerateToken(auth.OperatorUsername, auth.JWTSecret, auth.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"authEnabled": true,
		"accessToken": token,
		"expiresAt":   expires,
		"username":    auth.OperatorUsername,
	})
}
