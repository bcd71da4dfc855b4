package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/ingest"
	"github.com/fwojciec/repub/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Ingester is the part of the ingestion pipeline the server drives.
type Ingester interface {
	IngestURL(ctx context.Context, url string, opts ingest.Options) (*repub.Article, error)
	IngestPDF(ctx context.Context, path string, opts ingest.Options) (*repub.Article, error)
	Delete(ctx context.Context, id string) error
}

// Server is the thin API over the record store and the ingestion pipeline.
// It also serves the generated static site and, when a registry is set,
// the Prometheus scrape endpoint. Mutating endpoints rebuild the site
// after the store write so the published pages never lag the store.
type Server struct {
	server *http.Server

	Addr      string
	Articles  repub.ArticleService
	Ingester  Ingester
	Site      repub.SiteBuilder
	SiteDir   string
	UploadDir string

	Metrics  *metrics.Collector
	Registry prometheus.Gatherer
	Logger   *slog.Logger
}

// NewServer creates a Server. The exported fields must be set before Open
// or Handler is called.
func NewServer() *Server {
	return &Server{Addr: ":8080"}
}

// Handler builds the route tree. Exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", s.handleListArticles)
		r.Post("/articles", s.handleIngestURL)
		r.Get("/articles/{id}", s.handleGetArticle)
		r.Put("/articles/{id}", s.handleUpdateArticle)
		r.Delete("/articles/{id}", s.handleDeleteArticle)
		r.Post("/upload", s.handleUpload)
		r.Post("/rebuild", s.handleRebuild)
		r.Get("/stats", s.handleStats)
	})

	if s.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(s.Registry))
	}
	if s.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.SiteDir)))
	}

	return r
}

// Open starts the server listening on Addr.
func (s *Server) Open() error {
	s.server = &http.Server{
		Addr:    s.Addr,
		Handler: s.Handler(),
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger().Error("server", slog.Any("err", err))
		}
	}()
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// rebuild regenerates the static site from the store's current contents.
func (s *Server) rebuild(ctx context.Context) error {
	if s.Site == nil {
		return nil
	}
	articles, err := s.Articles.FindArticles(ctx)
	if err != nil {
		return err
	}
	begin := time.Now()
	if err := s.Site.Build(ctx, articles); err != nil {
		return err
	}
	if s.Metrics != nil {
		s.Metrics.RecordSiteBuild(time.Since(begin))
	}
	return nil
}

// errorStatus maps application error codes to HTTP status codes.
func errorStatus(err error) int {
	switch repub.ErrorCode(err) {
	case repub.EINVALID:
		return http.StatusBadRequest
	case repub.ENOTFOUND:
		return http.StatusNotFound
	case repub.EUNSUPPORTED:
		return http.StatusUnprocessableEntity
	case repub.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := repub.ErrorCode(err)
	status := errorStatus(err)
	if code == repub.EINTERNAL {
		s.logger().Error("internal error", slog.Any("err", err))
	}
	s.respondJSON(w, status, errorResponse{Error: repub.ErrorMessage(err)})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Error("encoding response", slog.Any("err", err))
	}
}

func normalizeTagsParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
