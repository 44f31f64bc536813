package usecase

import (
	"context"

	"github.com/moodtrack/moodtrack-api/internal/model"
	"github.com/moodtrack/moodtrack-api/internal/repository"
)

// UserUsecase defines administrative user operations.
type UserUsecase interface {
	ListUsers(ctx context.Context, params ListUsersParams) ([]*model.User, error)
}

// ListUsersParams defines pagination for the admin user listing.
type ListUsersParams struct {
	Limit  uint64
	Offset uint64
}

type userUsecase struct {
	userRepo repository.UserRepository
}

func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) ListUsers(ctx context.Context, params ListUsersParams) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx, repository.FilterUsersParams{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}
