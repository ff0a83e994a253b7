package api

import (
	"net/http"
	"time"

	"codecoach/internal/api/handler"
	apiMiddleware "codecoach/internal/api/middleware"
	"codecoach/internal/app/service"
	"codecoach/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokens *security.TokenIssuer,
	authService *service.AuthService,
	problemService *service.ProblemService,
	executionService *service.ExecutionService,
	suggestionService *service.SuggestionService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Parses a bearer token when present and puts claims in context. The
	// original routes stay public; only /me enforces the token.
	r.Use(jwtauth.Verifier(tokens.JWTAuth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.Group(func(authed chi.Router) {
		authed.Use(apiMiddleware.Authenticator)
		authed.Get("/me", authHandler.Me)
	})

	problemHandler := handler.NewProblemHandler(problemService)
	r.Post("/generate_problem", problemHandler.Generate)
	r.Get("/problems/recent", problemHandler.Recent)

	executionHandler := handler.NewExecutionHandler(executionService)
	r.Post("/execute_code", executionHandler.Execute)

	suggestionHandler := handler.NewSuggestionHandler(suggestionService)
	r.Post("/suggest_improvement", suggestionHandler.Suggest)

	return r
}
