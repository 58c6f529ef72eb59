package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router   *chi.Mux
	generate GenerateUseCase
	session  SessionUseCase
}

type Options func(*Server)

// WithGenerate serves POST /api/generate-perfect-day/
func WithGenerate(uc GenerateUseCase) Options {
	return func(s *Server) {
		s.generate = uc
	}
}

// WithSession serves the /api/sessions API
func WithSession(uc SessionUseCase) Options {
	return func(s *Server) {
		s.session = uc
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	if s.generate != nil {
		r.Post("/api/generate-perfect-day/", generateHandler(s.generate))
	}

	if s.session != nil {
		r.Route("/api/sessions", func(r chi.Router) {
			r.Post("/", createSessionHandler(s.session))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", getSessionHandler(s.session))
				r.Delete("/", deleteSessionHandler(s.session))
				r.Post("/generate", generateSessionHandler(s.session))
				r.Post("/plan", addToPlanHandler(s.session))
				r.Patch("/plan/{itemID}", updatePlanItemHandler(s.session))
				r.Delete("/plan/{itemID}", removeFromPlanHandler(s.session))
				r.Post("/confirm", confirmHandler(s.session))
				r.Get("/export/image", exportImageHandler(s.session))
				r.Get("/export/document", exportDocumentHandler(s.session))
			})
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
