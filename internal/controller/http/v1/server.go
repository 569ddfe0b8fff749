package v1

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hrimport/candidate_importer/internal/config"
)

type Server struct {
	httpServer *http.Server
}

func NewServer(cfg config.HTTP, imports *ImportsHandler, candidates *CandidatesHandler) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/imports", func(r chi.Router) {
			r.Post("/files", imports.UploadFile)
			r.Get("/files/{file_id}/parse", imports.ParseFile)

			r.Post("/", imports.StartImport)
			r.Get("/{task_id}/status", imports.GetStatus)
			r.Get("/{task_id}/result", imports.GetResult)
			r.Get("/{task_id}/errors", imports.ListRowErrors)
			r.Get("/{task_id}/error-log", imports.DownloadErrorLog)
			r.Get("/{task_id}/report", imports.DownloadSummary)
		})

		r.Get("/candidates", candidates.GetCandidateByEmail)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      r,
		},
	}
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
