// Package web serves the HTML and JSON surface for what2pick.
package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/louisbranch/what2pick/internal/services/picker"
	"github.com/louisbranch/what2pick/internal/services/user"
)

// Server wires the user and game services behind the HTTP routes.
type Server struct {
	router *chi.Mux
	users  *user.Service
	games  *picker.Service
	log    zerolog.Logger
}

// New constructs the server and registers all routes.
func New(users *user.Service, games *picker.Service, logger zerolog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		users:  users,
		games:  games,
		log:    logger,
	}

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(chimw.Recoverer)
	s.router.Use(requestLogger(logger))
	s.router.Use(tracing)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/setname", s.handleSetName)
	s.router.Get("/p", s.handleCreateGame)
	s.router.Route("/p/{gid}", func(r chi.Router) {
		r.Get("/", s.handleGameDetail)
		// Long polls outlive the mutation timeout on purpose.
		r.Get("/poll", s.handlePoll)
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Post("/add", s.handleAddOption)
			r.Post("/del", s.handleRemoveOption)
			r.Post("/sel", s.handleSelect)
			r.Post("/adm_skip", s.handleSkipNext)
			r.Post("/watch", s.handleSetWatcher)
			r.Post("/kickmode", s.handleKickMode)
		})
	})

	return s
}

// Router exposes the chi mux for mounting and tests.
func (s *Server) Router() chi.Router {
	return s.router
}
