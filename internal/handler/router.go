package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/moodtrack/moodtrack-api/internal/middleware"
	"github.com/moodtrack/moodtrack-api/internal/repository"
	"github.com/moodtrack/moodtrack-api/shared/auth"
)

// NewRouter wires middleware and routes into the service's HTTP handler.
func NewRouter(
	logger *zerolog.Logger,
	allowedOrigins []string,
	jwtAuth *auth.JWTAuthenticator,
	users repository.UserRepository,
	authHandler *AuthHandler,
	moodHandler *MoodHandler,
	userHandler *UserHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(allowedOrigins))

	requireSession := middleware.RequireSession(jwtAuth, users, logger)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "API is running...")
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(authRoutes chi.Router) {
			authRoutes.Post("/register", authHandler.Register)
			authRoutes.Post("/login", authHandler.Login)
			authRoutes.Post("/logout", authHandler.Logout)

			authRoutes.Route("/profile", func(profile chi.Router) {
				profile.Use(requireSession)
				profile.Get("/", authHandler.GetProfile)
				profile.Put("/", authHandler.UpdateProfile)
			})
		})

		api.Route("/mood", func(mood chi.Router) {
			mood.Use(requireSession)
			mood.Post("/", moodHandler.RecordMood)
			mood.Get("/", moodHandler.GetMoodHistory)
		})

		api.Route("/users", func(usersRoutes chi.Router) {
			usersRoutes.Use(requireSession, middleware.RequireAdmin)
			usersRoutes.Get("/", userHandler.ListUsers)
		})
	})

	return r
}
