// Package preview serves the views of drawings over HTTP.
//
// Drawings are reloaded on every request, so a browser refresh shows the
// current state of a file being edited in Inkscape.
package preview

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/pipeline"
)

// Server is the HTTP preview server.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	opts   pipeline.Options
	log    *log.Logger
}

// NewServer creates a server showing the views of opts.Files.
func NewServer(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	s := &Server{
		runner: runner,
		opts:   opts,
		log:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestHooks)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/views/{n}.svg", s.handleView)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

var indexTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>barnhunt</title></head>
<body>
<h1>Course maps</h1>
{% if pages %}<ol>
{% for p in pages %}<li><a href="/views/{{ p.Seq + 1 }}.svg">{{ p.Description }}</a> <small>{{ p.Output }}</small></li>
{% endfor %}</ol>{% else %}<p>No course maps found.</p>{% endif %}
</body>
</html>
`))

// views loads the current views. Drawings that fail to load are logged
// and left out as long as another drawing still has views.
func (s *Server) views(r *http.Request) ([]*pipeline.Page, error) {
	pages, err := s.runner.Views(r.Context(), s.opts)
	if err != nil && len(pages) > 0 && !stderrors.Is(err, context.Canceled) {
		s.log.Warn("skipping drawings", "err", err)
		return pages, nil
	}
	return pages, err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages, err := s.views(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.ExecuteWriter(pongo2.Context{"pages": pages}, w); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 {
		http.NotFound(w, r)
		return
	}
	pages, err := s.views(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if n > len(pages) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(pages[n-1].SVG)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, context.Canceled):
		return
	case errors.Is(err, errors.ErrCodeFileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrCodeInvalidDocument), errors.Is(err, errors.ErrCodeInvalidTemplate),
		errors.Is(err, errors.ErrCodeInvalidPath):
		status = http.StatusUnprocessableEntity
	}
	s.log.Warn("load views", "err", err)
	http.Error(w, err.Error(), status)
}
