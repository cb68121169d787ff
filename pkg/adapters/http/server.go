package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/policytree"
	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/persistence/middleware"
	"github.com/aretw0/policytree/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request documents.
const maxBodyBytes = 8 << 20

// Engine defines the policytree operations served over HTTP.
type Engine interface {
	Process(ctx context.Context, doc *schema.Document) (*policytree.Result, error)
	Flatten(ctx context.Context, root domain.Node) domain.Table
	Save(ctx context.Context, id string, root domain.Node) error
	Load(ctx context.Context, id string) (domain.Node, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// Server holds the handlers for the HTTP API.
type Server struct {
	Engine Engine
	Logger *slog.Logger
}

// Option configures NewHandler.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMetrics exposes the given gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(c *config) { c.gatherer = g }
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	server := &Server{Engine: engine, Logger: cfg.logger}
	r := chi.NewRouter()

	r.Post("/prune", server.Prune)
	r.Post("/flatten", server.Flatten)
	r.Route("/trees", func(r chi.Router) {
		r.Get("/", server.ListTrees)
		r.Put("/{id}", server.SaveTree)
		r.Get("/{id}", server.GetTree)
		r.Get("/{id}/table", server.GetTable)
		r.Delete("/{id}", server.DeleteTree)
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Prune handles POST /prune.
func (s *Server) Prune(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}

	result, err := s.Engine.Process(r.Context(), doc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.Logger.Warn("Prune: invalid tree", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// Flatten handles POST /flatten. The tree is flattened as given.
func (s *Server) Flatten(w http.ResponseWriter, r *http.Request) {
	root, ok := s.decodeTree(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, emptyIfNil(s.Engine.Flatten(r.Context(), root)))
}

// ListTrees handles GET /trees.
func (s *Server) ListTrees(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.List(r.Context())
	if err != nil {
		s.fail(w, "ListTrees", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// SaveTree handles PUT /trees/{id}.
func (s *Server) SaveTree(w http.ResponseWriter, r *http.Request) {
	root, ok := s.decodeTree(w, r)
	if !ok {
		return
	}
	if err := s.Engine.Save(r.Context(), chi.URLParam(r, "id"), root); err != nil {
		s.fail(w, "SaveTree", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTree handles GET /trees/{id}.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	root, err := s.Engine.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetTree", err)
		return
	}
	s.writeJSON(w, http.StatusOK, schema.FromNode(root))
}

// GetTable handles GET /trees/{id}/table.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	root, err := s.Engine.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetTable", err)
		return
	}
	s.writeJSON(w, http.StatusOK, emptyIfNil(s.Engine.Flatten(r.Context(), root)))
}

// DeleteTree handles DELETE /trees/{id}.
func (s *Server) DeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteTree", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (*schema.Document, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Invalid request body", "error", err)
		return nil, false
	}
	doc, err := schema.Decode(data, schema.FormatJSON)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid tree document: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Invalid tree document", "error", err)
		return nil, false
	}
	return doc, true
}

func (s *Server) decodeTree(w http.ResponseWriter, r *http.Request) (domain.Node, bool) {
	doc, ok := s.decodeDocument(w, r)
	if !ok {
		return nil, false
	}
	root, err := doc.Build()
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid tree: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Invalid tree", "error", err)
		return nil, false
	}
	return root, true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrTreeNotFound) {
		http.Error(w, "Tree not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, middleware.ErrReadOnly) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
	s.Logger.Error(op+" failed", "error", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func emptyIfNil(t domain.Table) domain.Table {
	if t == nil {
		return domain.Table{}
	}
	return t
}
