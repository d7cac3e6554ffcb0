// Package server exposes the cleaning pipeline over HTTP for scheduler and
// operator use.
package server

import (
	"net/http"

	"github.com/shopiggo/geoclean/internal/utils"
	"github.com/shopiggo/geoclean/pkg/runner"
	"github.com/shopiggo/geoclean/pkg/storage"
)

type Server struct {
	DB       *storage.DB
	Runner   *runner.Runner
	Source   string // default source collection for clean runs
	Username string
	Password string
}

func New(db *storage.DB, source, user, pass string) *Server {
	return &Server{
		DB:       db,
		Runner:   &runner.Runner{DB: db, Log: utils.Log},
		Source:   source,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/clean", s.basicAuth(s.handleClean))
	mux.HandleFunc("POST /api/clean", s.basicAuth(s.handleClean))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
