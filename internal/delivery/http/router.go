package http

import (
	"log/slog"
	"net/http"

	"gymbooking/internal/delivery/http/controllers"
	"gymbooking/internal/delivery/http/middleware"
	"gymbooking/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Booking    *controllers.BookingController
	Catalog    *controllers.CatalogController
	Suggestion *controllers.SuggestionController
	Report     *controllers.ReportController
	Health     *controllers.HealthController
}

// RouterConfig holds the cross-cutting dependencies of the router.
type RouterConfig struct {
	Logger   *slog.Logger
	Verifier domain.TokenVerifier
	Origins  middleware.Origins
	// Events is mounted at GET /ws behind authentication when set.
	Events http.Handler
}

// NewRouter initializes the HTTP router with all application routes and
// wraps it with recovery, access logging and CORS.
func NewRouter(cfg RouterConfig, c Controllers) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}

	mux.HandleFunc("GET /health", c.Health.Health)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))

	// Schedule catalog
	mux.HandleFunc("GET /blocks", auth(c.Catalog.List))
	mux.HandleFunc("POST /admin/blocks/regenerate", admin(c.Catalog.Regenerate))

	// Reservations
	mux.HandleFunc("POST /reservations", auth(c.Booking.Book))
	mux.HandleFunc("GET /reservations/week", auth(c.Booking.Week))
	mux.HandleFunc("GET /reservations/me", auth(c.Booking.ListMine))
	mux.HandleFunc("DELETE /reservations/{id}", auth(c.Booking.Cancel))
	mux.HandleFunc("DELETE /admin/reservations/{id}", admin(c.Booking.AdminCancel))

	// Suggestions and reports
	mux.HandleFunc("POST /suggestions", auth(c.Suggestion.Submit))
	mux.HandleFunc("GET /admin/suggestions", admin(c.Suggestion.List))
	mux.HandleFunc("GET /reports/survey", auth(c.Report.Survey))

	if cfg.Events != nil {
		mux.HandleFunc("GET /ws", middleware.RequireStreamAuth(cfg.Verifier, cfg.Logger)(cfg.Events.ServeHTTP))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.CORS(cfg.Origins, handler)
	return middleware.Recover(cfg.Logger, handler)
}
