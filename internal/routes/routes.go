package routes

import (
	"net/http"

	"github.com/liftlab/liftlab/internal/app"
	"github.com/liftlab/liftlab/internal/handler"
	"github.com/liftlab/liftlab/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.ProfileService)
	user := handler.NewUserHandler(app.UserService)
	profile := handler.NewProfileHandler(app.ProfileService)
	chat := handler.NewChatHandler(app.ChatService)
	mood := handler.NewMoodHandler(app.MoodService)
	record := handler.NewRecordHandler(app.RecordService)
	workout := handler.NewWorkoutHandler(app.WorkoutService)
	photo := handler.NewPhotoHandler(app.PhotoService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/forgot-password", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", rateLimiter(auth.ResetPassword))
	mux.HandleFunc("POST /api/auth/magic-link", rateLimiter(auth.SendMagicLink))
	mux.HandleFunc("GET /api/auth/magic-link/{token}", auth.VerifyMagicLink)

	// Chat and mood work anonymously; entries stay in the local cache
	// until the user signs in
	mux.HandleFunc("GET /api/chat", chat.History)
	mux.HandleFunc("POST /api/chat", chat.Send)
	mux.HandleFunc("DELETE /api/chat", chat.Clear)

	mux.HandleFunc("GET /api/moods", mood.Moods)
	mux.HandleFunc("GET /api/moods/history", mood.History)
	mux.HandleFunc("POST /api/moods", mood.Log)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(user.Me))
	mux.HandleFunc("DELETE /api/me", middleware.RequireAuth(user.DeleteAccount))
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Get))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.Update))

	// Personal records
	mux.HandleFunc("GET /api/records", middleware.RequireAuth(record.List))
	mux.HandleFunc("POST /api/records", middleware.RequireAuth(record.Create))
	mux.HandleFunc("GET /api/records/{id}", middleware.RequireAuth(record.Get))
	mux.HandleFunc("PUT /api/records/{id}", middleware.RequireAuth(record.Update))
	mux.HandleFunc("DELETE /api/records/{id}", middleware.RequireAuth(record.Delete))
	mux.HandleFunc("GET /api/records/{id}/progress", middleware.RequireAuth(record.Progress))

	// Workouts
	mux.HandleFunc("GET /api/workouts", middleware.RequireAuth(workout.List))
	mux.HandleFunc("POST /api/workouts", middleware.RequireAuth(workout.Create))
	mux.HandleFunc("DELETE /api/workouts/{id}", middleware.RequireAuth(workout.Delete))
	mux.HandleFunc("GET /api/workouts/stats", middleware.RequireAuth(workout.Stats))

	// Progress photos
	mux.HandleFunc("GET /api/photos", middleware.RequireAuth(photo.List))
	mux.HandleFunc("POST /api/photos", middleware.RequireAuth(photo.Upload))
	mux.HandleFunc("DELETE /api/photos/{id}", middleware.RequireAuth(photo.Delete))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService, app.ProfileService),
	)
}
