// Package localapi is a local development server implementing the quiz
// platform's REST surface, so the client can run and be tested without the
// production backend.
package localapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quizdeck/quizdeck/internal/logging"
	"github.com/quizdeck/quizdeck/internal/rbac"
)

type Server struct {
	store   *SQLStore
	auth    *AuthService
	checker *rbac.Checker
	log     *logging.Logger
}

type ServerConfig struct {
	CORSOrigins []string
}

func NewServer(store *SQLStore, auth *AuthService, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		store:   store,
		auth:    auth,
		checker: rbac.NewChecker(nil),
		log:     log,
	}
}

// Router builds the chi router with the full /api/v1 surface.
func (s *Server) Router(cfg ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/refresh", s.handleRefresh)

		// Protected API (JWT -> roles in context -> RBAC)
		r.Group(func(pr chi.Router) {
			pr.Use(JWTMiddleware(s.auth))

			pr.With(rbac.Require("quiz:view")).Get("/quizzes", s.handleListQuizzes)
			pr.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}", s.handleGetQuiz)
			pr.With(rbac.Require("quiz:create")).Post("/quizzes", s.handleCreateQuiz)
			pr.With(rbac.Require("quiz:update")).Put("/quizzes/{quizID}", s.handleUpdateQuiz)
			pr.With(rbac.Require("quiz:delete")).Delete("/quizzes/{quizID}", s.handleDeleteQuiz)
			pr.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}/questions", s.handleQuizQuestions)
			pr.With(rbac.Require("quiz:update")).Post("/quizzes/{quizID}/questions/{questionID}", s.handleAttachQuestion)
			pr.With(rbac.Require("quiz:update")).Delete("/quizzes/{quizID}/questions/{questionID}", s.handleDetachQuestion)

			pr.With(rbac.Require("question:list")).Get("/questions", s.handleListQuestions)
			pr.With(rbac.Require("question:view")).Get("/questions/{questionID}", s.handleGetQuestion)
			pr.With(rbac.Require("question:create")).Post("/questions", s.handleCreateQuestion)
			pr.With(rbac.Require("question:update")).Put("/questions/{questionID}", s.handleUpdateQuestion)
			pr.With(rbac.Require("question:delete")).Delete("/questions/{questionID}", s.handleDeleteQuestion)

			pr.With(rbac.Require("users:list")).Get("/users", s.handleListUsers)
			pr.With(rbac.Require("profile:update")).Put("/users/{userID}", s.handleUpdateUser)
			pr.With(rbac.Require("users:delete")).Delete("/users/{userID}", s.handleDeleteUser)
			pr.With(rbac.Require("roles:list")).Get("/roles", s.handleListRoles)
			pr.With(rbac.Require("roles:assign")).Post("/users/{userID}/roles/{role}", s.handleAssignRole)
			pr.With(rbac.Require("roles:assign")).Delete("/users/{userID}/roles/{role}", s.handleRevokeRole)

			pr.With(rbac.Require("exam:submit")).Post("/exam/submit/{userID}/{quizID}", s.handleSubmitExam)
			pr.With(rbac.Require("submission:view-all")).Get("/exam/quizzes/{quizID}/submissions", s.handleQuizSubmissions)
			pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
				Get("/exam/submissions/{submissionID}", s.handleGetSubmission)
			pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
				Get("/exam/users/{userID}/submissions", s.handleUserSubmissions)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
