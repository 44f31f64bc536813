package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/moodtrack/moodtrack-api/internal/model"
	"github.com/moodtrack/moodtrack-api/internal/repository"
)

// MoodUsecase defines the business logic for mood history operations.
// History is append-only; entries are never edited or removed.
type MoodUsecase interface {
	RecordMood(ctx context.Context, userID, mood string) ([]model.MoodEntry, error)
	GetMoodHistory(ctx context.Context, userID string) ([]model.MoodEntry, error)
}

type moodUsecase struct {
	userRepo repository.UserRepository
}

func NewMoodUsecase(userRepo repository.UserRepository) MoodUsecase {
	return &moodUsecase{userRepo: userRepo}
}

func (u *moodUsecase) RecordMood(ctx context.Context, userID, mood string) ([]model.MoodEntry, error) {
	entry := model.MoodEntry{
		Mood: strings.TrimSpace(mood),
		Date: time.Now(),
	}

	user, err := u.userRepo.AppendMood(ctx, userID, entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user.MoodHistory, nil
}

func (u *moodUsecase) GetMoodHistory(ctx context.Context, userID string) ([]model.MoodEntry, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user.MoodHistory, nil
}
