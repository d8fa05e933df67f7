package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/content"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
)

// AuthHandler implements registration and session endpoints.
type AuthHandler struct {
	Accounts AccountService
	Sessions SessionManager
	Limiter  RateLimiter
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type sessionResponse struct {
	Tokens models.SessionTokens `json:"tokens"`
}

// Register handles POST /api/v1/auth/register. The body is multipart so the
// optional avatar and cover images ride along with the account fields.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many registration attempts"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.Warn("invalid registration payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	avatarPath, _, err := formFile(r, "avatar")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid avatar upload"})
		return
	}
	defer discardTemp(avatarPath)

	coverPath, _, err := formFile(r, "coverImage")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid cover upload"})
		return
	}
	defer discardTemp(coverPath)

	user, err := h.Accounts.Register(ctx, content.RegisterInput{
		Username:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		AvatarPath: avatarPath,
		CoverPath:  coverPath,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]any{"user": userProfile(user)})
}

// Login handles POST /api/v1/auth/login.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many login attempts"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "login and password are required"})
		return
	}

	tokens, err := h.Sessions.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, sessionResponse{Tokens: tokens})
}

// Refresh handles POST /api/v1/auth/refresh. Each refresh rotates the token
// pair; the presented refresh token is spent whether or not it was current.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "refreshToken is required"})
		return
	}

	tokens, err := h.Sessions.Rotate(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, sessionResponse{Tokens: tokens})
}

// Logout handles POST /api/v1/auth/logout, revoking the stored refresh
// token for the authenticated user.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := policy.ActorFromContext(ctx)
	if actor.Anonymous() {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := h.Sessions.Revoke(ctx, actor.ID); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "logged out"})
}
