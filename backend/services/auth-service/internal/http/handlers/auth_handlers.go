package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"fueltracker/backend/services/auth-service/internal/models"
	"fueltracker/backend/services/auth-service/internal/service"
)

type authResponse struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// NewRegisterHandler handles POST /api/auth/register.
func NewRegisterHandler(authService *service.AuthService, cookies CookieOptions, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"isAdmin"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(w, r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		res, err := authService.Register(r.Context(), service.Registration{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			IsAdmin:  req.IsAdmin,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingFields):
				writeMessage(w, http.StatusBadRequest, "Please provide all required fields")
			case errors.Is(err, service.ErrEmailInUse):
				writeMessage(w, http.StatusBadRequest, "User with this email already exists")
			default:
				logger.Error("register failed", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "Server error")
			}
			return
		}

		setSession(w, res.SessionID, cookies)
		writeJSON(w, http.StatusCreated, authResponse{User: res.User, Token: res.Token})
	}
}

// NewLoginHandler handles POST /api/auth/login.
func NewLoginHandler(authService *service.AuthService, cookies CookieOptions, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  *bool  `json:"isAdmin"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(w, r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		res, err := authService.Login(r.Context(), req.Email, req.Password, req.IsAdmin)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingFields):
				writeMessage(w, http.StatusBadRequest, "Please provide email and password")
			case errors.Is(err, service.ErrInvalidCredentials):
				writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			default:
				logger.Error("login failed", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "Server error")
			}
			return
		}

		setSession(w, res.SessionID, cookies)
		writeJSON(w, http.StatusOK, authResponse{User: res.User, Token: res.Token})
	}
}

// NewMeHandler handles GET /api/auth/me.
func NewMeHandler(authService *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := authService.Me(r.Context(), sessionID(r))
		if err != nil {
			if !errors.Is(err, service.ErrNotAuthenticated) {
				logger.Warn("session lookup failed", zap.Error(err))
			}
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, map[string]models.PublicUser{"user": *user})
	}
}

// NewLogoutHandler handles POST /api/auth/logout.
func NewLogoutHandler(authService *service.AuthService, cookies CookieOptions, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authService.Logout(r.Context(), sessionID(r)); err != nil {
			logger.Error("logout failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Error logging out")
			return
		}
		clearSession(w, cookies)
		writeMessage(w, http.StatusOK, "Logged out successfully")
	}
}
