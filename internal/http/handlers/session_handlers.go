package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/storefront/internal/auth"
	"go.uber.org/zap"
)

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CreateSessionHandler godoc
// @Summary Start a shopper session
// @Description Returns a token identifying an anonymous cart
// @Tags session
// @Produce json
// @Success 201 {object} SessionResponse
// @Failure 500 {string} string "Internal error"
// @Router /session [post]
func CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, token, expiresAt, err := auth.GenerateSessionToken()
	if err != nil {
		zap.L().Error("session token failed", zap.Error(err))
		http.Error(w, "could not create session", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusCreated, SessionResponse{Session: session, Token: token, ExpiresAt: expiresAt})
}
