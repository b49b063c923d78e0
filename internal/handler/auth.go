package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ayoub-kd/costume-rental/internal/config"
	"github.com/ayoub-kd/costume-rental/internal/model"
	"github.com/ayoub-kd/costume-rental/internal/repository"
	"github.com/ayoub-kd/costume-rental/internal/utils"
)

// AuthHandler serves registration, login and token lifecycle.
type AuthHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Cfg    *config.Config
	Log    *zap.Logger
}

func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Cfg: cfg, Log: log}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Register creates an account. Role may be "user" or "admin" and
// defaults to "user" when omitted.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	errs := fieldErrors{}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		errs.add("name", "The name field is required.")
	}
	if req.Email == "" {
		errs.add("email", "The email field is required.")
	} else if !strings.Contains(req.Email, "@") {
		errs.add("email", "The email must be a valid email address.")
	}
	if len(req.Password) < 8 {
		errs.add("password", "The password must be at least 8 characters.")
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		errs.add("role", "The selected role is invalid.")
	}
	if len(errs) > 0 {
		return failValidation(c, errs)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return failValidation(c, fieldErrors{"email": {"The email has already been taken."}})
		}
		h.Log.Error("register failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Could not create user")
	}

	return respondMsg(c, http.StatusCreated, "User registered successfully", echo.Map{
		"user": userResponse{ID: id, Name: req.Name, Email: strings.ToLower(req.Email), Role: req.Role},
	})
}

// Login verifies credentials and issues an access/refresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fail(c, http.StatusUnprocessableEntity, "Email and password are required")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Login failed")
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	return h.issueTokens(c, user)
}

// Refresh rotates a refresh token: the presented token is revoked and
// a fresh pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return fail(c, http.StatusBadRequest, "refresh_token is required")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRefresh) {
			return fail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		}
		h.Log.Error("refresh validation failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Token refresh failed")
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
	}

	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		h.Log.Warn("revoking rotated refresh token failed", zap.Error(err))
	}

	return h.issueTokens(c, user)
}

// Logout revokes every refresh token of the authenticated user.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		h.Log.Error("logout failed", zap.Error(err), zap.Uint64("user_id", uid))
		return fail(c, http.StatusInternalServerError, "Logout failed")
	}
	return respondMsg(c, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		h.Log.Error("profile lookup failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Could not load profile")
	}
	return respond(c, http.StatusOK, echo.Map{"user": toUserResponse(user)})
}

func (h *AuthHandler) issueTokens(c echo.Context, user model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Error("signing access token failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Login failed")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		h.Log.Error("generating refresh token failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Login failed")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Tokens.StoreRefresh(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		h.Log.Error("storing refresh token failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Login failed")
	}

	return respond(c, http.StatusOK, echo.Map{
		"access_token":  access.Token,
		"token_type":    "Bearer",
		"expires_in":    int64(h.Cfg.AccessTTLMin) * 60,
		"refresh_token": refresh.Raw,
		"user":          toUserResponse(user),
	})
}
