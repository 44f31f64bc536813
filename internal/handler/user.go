package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/moodtrack/moodtrack-api/internal/payload"
	"github.com/moodtrack/moodtrack-api/internal/usecase"
)

// UserHandler implements administrative user routes.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	logger      *zerolog.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, logger *zerolog.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := usecase.ListUsersParams{
		Limit:  parseUintQuery(r, "limit"),
		Offset: parseUintQuery(r, "offset"),
	}

	users, err := h.userUsecase.ListUsers(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		respondMessage(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, payload.NewUserListResponse(users))
}

func parseUintQuery(r *http.Request, key string) uint64 {
	value, err := strconv.ParseUint(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0
	}
	return value
}
