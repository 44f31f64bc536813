package payload

import (
	"time"

	"github.com/moodtrack/moodtrack-api/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries a partial profile update. Absent fields are
// left unchanged, which is why everything is a pointer.
type UpdateProfileRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type RecordMoodRequest struct {
	Mood string `json:"mood" validate:"required"`
}

// UserResponse is the public view of a user record. The password hash never
// appears here.
type UserResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type MoodEntryResponse struct {
	Mood string    `json:"mood"`
	Date time.Time `json:"date"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

func NewUserListResponse(users []*model.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, user := range users {
		resp[i] = NewUserResponse(user)
	}
	return resp
}

func NewMoodHistoryResponse(entries []model.MoodEntry) []MoodEntryResponse {
	resp := make([]MoodEntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = MoodEntryResponse{Mood: entry.Mood, Date: entry.Date}
	}
	return resp
}
