package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vinhtqfx07044/laptop/internal/auth"
	"github.com/vinhtqfx07044/laptop/internal/config"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg    *config.AuthConfig
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthHandler(cfg *config.AuthConfig, tokens *auth.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
	}
}

// @Summary Staff login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body domain.LoginPayload true "Staff credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload domain.LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: must be valid JSON")
		return
	}
	if err := validate.Struct(&payload); err != nil {
		respondValidationError(w, err)
		return
	}

	if !auth.VerifyCredentials(h.cfg, payload.Username, payload.Password) {
		h.logger.Warn("failed login attempt",
			zap.String("username", payload.Username),
			zap.String("remote_addr", r.RemoteAddr),
		)
		respondWithError(w, http.StatusUnauthorized, "Tên đăng nhập hoặc mật khẩu không đúng")
		return
	}

	token, expiresAt, err := h.tokens.IssueToken(payload.Username, time.Now())
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}
