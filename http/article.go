package http

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/ingest"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxUploadSize bounds uploaded document size (32 MiB).
const maxUploadSize = 32 << 20

// handleListArticles returns all articles in store order.
// GET /api/articles
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.Articles.FindArticles(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if articles == nil {
		articles = []*repub.Article{}
	}
	s.respondJSON(w, http.StatusOK, articles)
}

// handleGetArticle returns one article by id.
// GET /api/articles/{id}
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.Articles.FindArticleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, a)
}

type ingestURLRequest struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// handleIngestURL ingests a platform article and rebuilds the site.
// POST /api/articles
func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req ingestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, repub.Errorf(repub.EINVALID, "invalid request body: %v", err))
		return
	}
	if req.URL == "" {
		s.respondError(w, repub.Errorf(repub.EINVALID, "url required"))
		return
	}

	a, err := s.Ingester.IngestURL(r.Context(), req.URL, ingest.Options{Title: req.Title, Tags: req.Tags})
	if s.Metrics != nil {
		s.Metrics.RecordIngest("web", err)
	}
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, a)
}

// handleUpdateArticle applies a metadata-only update.
// PUT /api/articles/{id}
func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var upd repub.ArticleUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.respondError(w, repub.Errorf(repub.EINVALID, "invalid request body: %v", err))
		return
	}

	a, err := s.Articles.UpdateArticle(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, a)
}

// handleDeleteArticle removes an article and rebuilds the site.
// DELETE /api/articles/{id}
func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.Ingester.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

// handleUpload accepts a multipart PDF upload, ingests it and rebuilds the
// site. Optional "title" and "tags" (comma-separated) form fields override
// the derived metadata.
// POST /api/upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, repub.Errorf(repub.EINVALID, "invalid multipart form: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, repub.Errorf(repub.EINVALID, "file field required: %v", err))
		return
	}
	defer file.Close()

	name := sanitizeFileName(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		s.respondError(w, repub.Errorf(repub.EUNSUPPORTED, "unsupported file type %q: only PDF documents can be uploaded", filepath.Ext(name)))
		return
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		s.respondError(w, repub.Errorf(repub.EINTERNAL, "creating upload dir: %v", err))
		return
	}
	dst := filepath.Join(s.UploadDir, name)
	if err := saveUpload(dst, file); err != nil {
		s.respondError(w, err)
		return
	}

	opts := ingest.Options{
		Title: r.FormValue("title"),
		Tags:  normalizeTagsParam(r.FormValue("tags")),
	}
	a, err := s.Ingester.IngestPDF(r.Context(), dst, opts)
	if s.Metrics != nil {
		s.Metrics.RecordIngest("pdf", err)
	}
	if err != nil {
		os.Remove(dst)
		s.respondError(w, err)
		return
	}
	if err := s.rebuild(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, a)
}

// handleRebuild regenerates the static site on demand.
// POST /api/rebuild
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.rebuild(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"rebuilt": true})
}

type statsResponse struct {
	Articles    int            `json:"articles"`
	WebArticles int            `json:"web_articles"`
	PDFArticles int            `json:"pdf_articles"`
	Tags        map[string]int `json:"tags"`
}

// handleStats summarizes the store contents.
// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	articles, err := s.Articles.FindArticles(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	stats := statsResponse{Articles: len(articles), Tags: make(map[string]int)}
	for _, a := range articles {
		switch {
		case strings.HasPrefix(a.ID, ingest.WebIDPrefix):
			stats.WebArticles++
		case strings.HasPrefix(a.ID, ingest.PDFIDPrefix):
			stats.PDFArticles++
		}
		for _, tag := range a.Tags {
			stats.Tags[tag]++
		}
	}
	s.respondJSON(w, http.StatusOK, stats)
}

// sanitizeFileName keeps only the base name of the uploaded file, replacing
// anything path-like. Empty results get a generated name.
func sanitizeFileName(name string) string {
	name = filepath.Base(filepath.Clean(name))
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = uuid.NewString() + ".pdf"
	}
	return name
}

func saveUpload(dst string, src io.Reader) error {
	f, err := os.Create(dst)
	if err != nil {
		return repub.Errorf(repub.EINTERNAL, "creating %s: %v", dst, err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(dst)
		return repub.Errorf(repub.EINTERNAL, "writing %s: %v", dst, err)
	}
	return f.Close()
}
