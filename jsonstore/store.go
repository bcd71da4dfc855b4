// Package jsonstore persists articles as a single JSON array file with
// whole-document replace semantics. The file is the sole durable state;
// every mutation is a load-modify-save critical section guarded by a mutex,
// and saves go through a temp file plus rename so a failed write never
// corrupts the existing store.
package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/repub"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ repub.ArticleService = (*Store)(nil)

// Store implements repub.ArticleService backed by one JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store persisting to the given file path.
// A missing file is treated as an empty store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// load reads the full article list. Callers must hold s.mu.
func (s *Store) load() ([]*repub.Article, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, repub.Errorf(repub.EINTERNAL, "reading store: %v", err)
	}

	var articles []*repub.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, repub.Errorf(repub.EINTERNAL, "decoding store: %v", err)
	}
	return articles, nil
}

// save atomically replaces the store file. Callers must hold s.mu.
// On failure the prior on-disk store is left untouched.
func (s *Store) save(articles []*repub.Article) error {
	if articles == nil {
		articles = []*repub.Article{}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return repub.Errorf(repub.EINTERNAL, "creating store directory: %v", err)
		}
	}

	tmp := s.path + ".tmp-" + uuid.NewString()
	f, err := os.Create(tmp)
	if err != nil {
		return repub.Errorf(repub.EINTERNAL, "creating temp store: %v", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		f.Close()
		os.Remove(tmp)
		return repub.Errorf(repub.EINTERNAL, "encoding store: %v", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return repub.Errorf(repub.EINTERNAL, "writing store: %v", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return repub.Errorf(repub.EINTERNAL, "replacing store: %v", err)
	}
	return nil
}

// FindArticles retrieves all articles in store order.
func (s *Store) FindArticles(ctx context.Context) ([]*repub.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// FindArticleByID retrieves an article by ID.
func (s *Store) FindArticleByID(ctx context.Context, id string) (*repub.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repub.Errorf(repub.ENOTFOUND, "article %q not found", id)
}

// UpsertArticle inserts or replaces an article keyed by ID. An existing
// record is replaced in place, preserving its position; a new record is
// prepended so the store stays most-recent-first. Last write wins: there is
// no version token guarding concurrent upserts to the same ID from separate
// processes, but the in-process mutex serializes store writes.
func (s *Store) UpsertArticle(ctx context.Context, article *repub.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, a := range articles {
		if a.ID == article.ID {
			articles[i] = article
			replaced = true
			break
		}
	}
	if !replaced {
		articles = append([]*repub.Article{article}, articles...)
	}

	return s.save(articles)
}

// UpdateArticle updates only the named metadata fields.
func (s *Store) UpdateArticle(ctx context.Context, id string, upd repub.ArticleUpdate) (*repub.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, a := range articles {
		if a.ID != id {
			continue
		}
		if upd.Title != nil {
			a.Title = *upd.Title
		}
		if upd.Source != nil {
			a.Source = *upd.Source
		}
		if upd.Summary != nil {
			a.Summary = *upd.Summary
		}
		if upd.URL != nil {
			a.URL = *upd.URL
		}
		if upd.Date != nil {
			a.Date = *upd.Date
		}
		if upd.Tags != nil {
			a.Tags = repub.NormalizeTags(*upd.Tags)
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if err := s.save(articles); err != nil {
			return nil, err
		}
		return a, nil
	}

	return nil, repub.Errorf(repub.ENOTFOUND, "article %q not found", id)
}

// DeleteArticle permanently removes an article. Associated media files are
// left for the out-of-band sweep; they are garbage, not a correctness issue.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return err
	}

	kept := articles[:0]
	for _, a := range articles {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(articles) {
		return repub.Errorf(repub.ENOTFOUND, "article %q not found", id)
	}

	return s.save(kept)
}
