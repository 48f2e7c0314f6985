package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tthornvik/task-api/internal/api/shared"
	"github.com/tthornvik/task-api/internal/platform/logger"
	"github.com/tthornvik/task-api/internal/service"
)

// maxAvatarRequestBytes caps the whole multipart upload request. It is
// slightly larger than the avatar limit so a just-over-limit image
// produces a clean validation error instead of a truncated read.
const maxAvatarRequestBytes = service.MaxAvatarBytes + 64*1024

// UserHandler handles account and profile API requests.
type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
// If logger is nil, a default logger will be used.
func NewUserHandler(userService *service.UserService, logger *slog.Logger) *UserHandler {
	if userService == nil {
		panic("user service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, token, err := h.userService.Register(
		r.Context(), req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{User: user, Token: token})
}

// Logout handles POST /users/logout. It revokes exactly the session the
// request authenticated with.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	token, ok := getSessionTokenFromContext(r)
	if !ok {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Warn("session token missing from authenticated request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.userService.Logout(r.Context(), userID, token); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "logged out"})
}

// LogoutAll handles POST /users/logoutAll, revoking every session of
// the user.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	revoked, err := h.userService.LogoutAll(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LogoutAllResponse{SessionsRevoked: revoked})
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdateMe handles PATCH /users/me. The payload may only carry the
// updatable profile fields; anything else is rejected.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSONStrict(r, &req); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid update: "+err.Error())
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Update(r.Context(), userID, service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// DeleteMe handles DELETE /users/me. The response echoes the deleted
// profile.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Delete(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UploadAvatar handles POST /users/me/avatar. The image arrives as the
// "avatar" field of a multipart form.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequestBytes)

	file, _, err := r.FormFile("avatar")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			HandleAPIError(w, r, service.ErrAvatarTooLarge, "")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Upload must be a multipart form with an \"avatar\" file field")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Error("failed to close uploaded file", slog.String("error", err.Error()))
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			HandleAPIError(w, r, service.ErrAvatarTooLarge, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"Failed to read uploaded file", err)
		return
	}

	if err := h.userService.SetAvatar(r.Context(), userID, data); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "avatar stored"})
}

// GetAvatar handles GET /users/{id}/avatar. The route is public; stored
// avatars are always PNG.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	avatar, err := h.userService.GetAvatar(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar); err != nil {
		h.logger.Error("failed to write avatar response", slog.String("error", err.Error()))
	}
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.userService.DeleteAvatar(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "avatar removed"})
}
