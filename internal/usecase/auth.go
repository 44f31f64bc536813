package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/moodtrack/moodtrack-api/internal/model"
	"github.com/moodtrack/moodtrack-api/internal/repository"
	"github.com/moodtrack/moodtrack-api/shared/auth"
	"github.com/moodtrack/moodtrack-api/shared/mailer"
	"github.com/moodtrack/moodtrack-api/shared/security"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, string, error)
	Login(ctx context.Context, params LoginParams) (*model.User, string, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// UpdateProfileParams defines the optional parameters for a profile update.
// Nil fields are left unchanged. A non-nil Password is re-hashed before it
// reaches the store.
type UpdateProfileParams struct {
	Name     *string
	Email    *string
	Password *string
}

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	mailer   *mailer.Mailer
	logger   *zerolog.Logger
}

// NewAuthUsecase creates a new AuthUsecase. The mailer may be nil, in which
// case no welcome email is sent on registration.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	welcomeMailer *mailer.Mailer,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		mailer:   welcomeMailer,
		logger:   logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, string, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         strings.TrimSpace(params.Name),
		Email:        normalizeEmail(params.Email),
		PasswordHash: passwordHash,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", ErrUserAlreadyExists
		}

		return nil, "", err
	}

	token, err := u.jwtAuth.IssueSessionToken(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	u.sendWelcomeEmail(user)

	return user, token, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.User, string, error) {
	user, err := u.userRepo.GetUserCredentialsByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", err
	}

	if !security.VerifyPassword(params.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := u.jwtAuth.IssueSessionToken(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""

	return user, token, nil
}

func (u *authUsecase) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *authUsecase) UpdateProfile(
	ctx context.Context,
	userID string,
	params UpdateProfileParams,
) (*model.User, error) {
	updateParams := repository.UpdateUserParams{}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		updateParams.Name = &name
	}
	if params.Email != nil {
		email := normalizeEmail(*params.Email)
		updateParams.Email = &email
	}
	if params.Password != nil {
		passwordHash, err := security.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		updateParams.PasswordHash = &passwordHash
	}

	// Nothing supplied: the profile is returned unchanged.
	if updateParams.Name == nil && updateParams.Email == nil && updateParams.PasswordHash == nil {
		return u.GetProfile(ctx, userID)
	}

	user, err := u.userRepo.UpdateUser(ctx, userID, updateParams)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	return user, nil
}

// sendWelcomeEmail delivers a best-effort greeting. Failures are logged and
// never surface to the registration response.
func (u *authUsecase) sendWelcomeEmail(user *model.User) {
	if u.mailer == nil {
		return
	}

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your account has been created. You can start tracking your mood right away.</p>

		<p>Thank you,</p>
		<p>The Moodtrack Team</p>
	`, user.Name)

	if err := u.mailer.SendHTML([]string{user.Email}, "Welcome to Moodtrack", htmlBody); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
	}
}

// normalizeEmail applies the canonical email form used everywhere: trimmed and
// lowercased, so lookups and the unique index agree on a single spelling.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
