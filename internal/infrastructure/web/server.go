// Package web serves the catalog as an HTML card grid and a small JSON API.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/danielgonzalesarce/holocron/internal/application/handlers"
	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/services"
)

// Filter query parameters accepted by GET / and GET /api/entities.
const (
	ParamName      = "q"
	ParamGender    = "gender"
	ParamMinMass   = "min_mass"
	ParamMinHeight = "min_height"
)

// Loader runs one catalog load. TryBegin claims the load and Run performs it.
type Loader interface {
	TryBegin() bool
	Run(ctx context.Context, onPage services.ProgressFunc) (*handlers.LoadResult, error)
}

// Server renders the catalog and triggers loads.
type Server struct {
	catalog *services.Catalog
	loader  Loader
	logger  *zap.Logger

	loads sync.WaitGroup
}

// NewServer creates a new web server over catalog.
func NewServer(catalog *services.Catalog, loader Loader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		catalog: catalog,
		loader:  loader,
		logger:  logger,
	}
}

// Routes builds the router with its middleware stack.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(RequestLogger(s.logger))
	router.Use(chimw.Recoverer)

	router.Get("/", s.handleIndex)
	router.Post("/load", s.handleLoad)
	router.Post("/filters/clear", s.handleClearFilters)
	router.Get("/api/entities", s.handleAPIEntities)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return router
}

// HTTPServer wraps Routes in an http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Wait blocks until every background load has finished.
func (s *Server) Wait() {
	s.loads.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.applyQuery(r)
	renderIndex(w, s.logger, newPageView(state))
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !s.loader.TryBegin() {
		http.Error(w, handlers.ErrLoadInProgress.Error(), http.StatusConflict)
		return
	}

	// The load outlives the request and is never cancelled.
	ctx := context.WithoutCancel(r.Context())
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		if _, err := s.loader.Run(ctx, nil); err != nil {
			s.logger.Warn("background load failed", zap.Error(err))
		}
	}()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	s.catalog.Dispatch(services.CriteriaCleared{})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type entitiesResponse struct {
	Entities []entities.Entity `json:"entities"`
	Showing  int               `json:"showing"`
	Total    int               `json:"total"`
	Loading  bool              `json:"loading"`
	Error    string            `json:"error,omitempty"`
}

func (s *Server) handleAPIEntities(w http.ResponseWriter, r *http.Request) {
	state := s.applyQuery(r)
	writeJSON(w, http.StatusOK, entitiesResponse{
		Entities: state.Visible,
		Showing:  len(state.Visible),
		Total:    len(state.All),
		Loading:  state.Loading,
		Error:    state.Err,
	})
}

// applyQuery dispatches CriteriaChanged when the request carries any filter
// parameter and returns the resulting state.
func (s *Server) applyQuery(r *http.Request) services.State {
	q := r.URL.Query()
	if !q.Has(ParamName) && !q.Has(ParamGender) && !q.Has(ParamMinMass) && !q.Has(ParamMinHeight) {
		return s.catalog.State()
	}
	criteria := entities.ParseCriteria(q.Get(ParamName), q.Get(ParamGender), q.Get(ParamMinMass), q.Get(ParamMinHeight))
	return s.catalog.Dispatch(services.CriteriaChanged{Criteria: criteria})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
