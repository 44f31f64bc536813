package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moodtrack/moodtrack-api/internal/middleware"
	"github.com/moodtrack/moodtrack-api/internal/payload"
	"github.com/moodtrack/moodtrack-api/internal/usecase"
	"github.com/moodtrack/moodtrack-api/shared/validation"
)

// AuthHandler implements register, login, logout, and the profile routes.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validation.Validator
	cookies     SessionCookies
	logger      *zerolog.Logger
}

func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	validator *validation.Validator,
	cookies SessionCookies,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		cookies:     cookies,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Message(err))
		return
	}

	user, token, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			respondMessage(w, http.StatusBadRequest, "user already exists")
			return
		}

		h.logger.Error().Err(err).Msg("failed to register user")
		respondMessage(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.cookies.Set(w, token)
	respondJSON(w, http.StatusCreated, payload.NewUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Message(err))
		return
	}

	user, token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		h.logger.Error().Err(err).Msg("failed to log in user")
		respondMessage(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.cookies.Set(w, token)
	respondJSON(w, http.StatusOK, payload.NewUserResponse(user))
}

// Logout clears the session cookie. It succeeds regardless of whether a
// session existed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	respondMessage(w, http.StatusOK, "logged out successfully")
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "not authorized, no token")
		return
	}

	user, err := h.authUsecase.GetProfile(r.Context(), sessionUser.ID.Hex())
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to get profile")
		respondMessage(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, payload.NewUserResponse(user))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "not authorized, no token")
		return
	}

	var req payload.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Message(err))
		return
	}

	user, err := h.authUsecase.UpdateProfile(r.Context(), sessionUser.ID.Hex(), usecase.UpdateProfileParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			respondMessage(w, http.StatusNotFound, "user not found")
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			respondMessage(w, http.StatusBadRequest, "user already exists")
		default:
			h.logger.Error().Err(err).Msg("failed to update profile")
			respondMessage(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.NewUserResponse(user))
}
