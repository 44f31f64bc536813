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

// MoodHandler implements the mood history routes.
type MoodHandler struct {
	moodUsecase usecase.MoodUsecase
	validator   *validation.Validator
	logger      *zerolog.Logger
}

func NewMoodHandler(
	moodUsecase usecase.MoodUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *MoodHandler {
	return &MoodHandler{
		moodUsecase: moodUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *MoodHandler) RecordMood(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "not authorized, no token")
		return
	}

	var req payload.RecordMoodRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Message(err))
		return
	}

	history, err := h.moodUsecase.RecordMood(r.Context(), sessionUser.ID.Hex(), req.Mood)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to record mood")
		respondMessage(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusCreated, payload.NewMoodHistoryResponse(history))
}

func (h *MoodHandler) GetMoodHistory(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "not authorized, no token")
		return
	}

	history, err := h.moodUsecase.GetMoodHistory(r.Context(), sessionUser.ID.Hex())
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to get mood history")
		respondMessage(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, payload.NewMoodHistoryResponse(history))
}
