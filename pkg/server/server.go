// Package server serves aligned books as HTML pages and JSON.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/data"
	"github.com/kerbaras/dualbook/pkg/logging"
	"github.com/kerbaras/dualbook/pkg/reader"
	"github.com/kerbaras/dualbook/pkg/services"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Opener loads an aligned book.
type Opener interface {
	Open(ctx context.Context, req services.Request) (*align.AlignedBook, error)
}

// PairFinder resolves registered pairs by ID or name.
type PairFinder interface {
	FindPair(ref string) (*data.BookPair, error)
}

type Options struct {
	// Title and Request describe the book served at the root routes.
	Title   string
	Request services.Request
	// Pairs enables /pairs/{pair}/... routes when set.
	Pairs     PairFinder
	RateLimit int // requests per minute per IP, 0 disables
	CacheTTL  time.Duration
}

type Server struct {
	router    chi.Router
	opener    Opener
	pairs     PairFinder
	defaultID string
	title     string
	request   services.Request
	cache     *cache.Cache
	loadMu    sync.Mutex
	templates *template.Template
	log       zerolog.Logger
}

func New(opener Opener, opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	s := &Server{
		router:    chi.NewRouter(),
		opener:    opener,
		pairs:     opts.Pairs,
		defaultID: uuid.NewString(),
		title:     opts.Title,
		request:   opts.Request,
		cache:     cache.New(ttl, 2*ttl),
		templates: tmpl,
		log:       logging.Component("server"),
	}
	s.setupRoutes(opts.RateLimit)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes(rateLimit int) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	if rateLimit > 0 {
		s.router.Use(httprate.LimitByIP(rateLimit, time.Minute))
	}

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	s.router.Group(s.bookRoutes)
	if s.pairs != nil {
		s.router.Route("/pairs/{pair}", s.bookRoutes)
	}
}

// bookRoutes mounts the reader for one book, at the root or under a pair.
func (s *Server) bookRoutes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/chapters/{index}", s.handleChapterPage)
	r.Get("/api/chapters", s.handleChapterList)
	r.Get("/api/chapters/{index}", s.handleChapter)
}

type bookRef struct {
	id    string
	title string
	base  string
	req   services.Request
}

var errPairNotFound = errors.New("pair not found")

func (s *Server) resolveRef(r *http.Request) (bookRef, error) {
	ref := chi.URLParam(r, "pair")
	if ref == "" {
		return bookRef{id: s.defaultID, title: s.title, req: s.request}, nil
	}

	pair, err := s.pairs.FindPair(ref)
	if err != nil {
		if errors.Is(err, data.ErrPairNotFound) {
			return bookRef{}, errPairNotFound
		}
		return bookRef{}, err
	}
	return bookRef{
		id:    pair.ID,
		title: pair.Name,
		base:  "/pairs/" + pair.ID,
		req:   services.RequestFor(pair),
	}, nil
}

// book returns the aligned book for ref, loading it on a cache miss.
func (s *Server) book(ctx context.Context, ref bookRef) (*align.AlignedBook, error) {
	if cached, found := s.cache.Get(ref.id); found {
		return cached.(*align.AlignedBook), nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if cached, found := s.cache.Get(ref.id); found {
		return cached.(*align.AlignedBook), nil
	}

	start := time.Now()
	book, err := s.opener.Open(ctx, ref.req)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("book", ref.id).
		Int("chapters", book.Len()).
		Dur("took", time.Since(start)).
		Msg("book loaded")

	s.cache.Set(ref.id, book, cache.DefaultExpiration)
	return book, nil
}

// load resolves the request's book and writes the error response itself
// when that fails.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (bookRef, *align.AlignedBook, bool) {
	ref, err := s.resolveRef(r)
	if err != nil {
		if errors.Is(err, errPairNotFound) {
			http.Error(w, "Pair not found", http.StatusNotFound)
		} else {
			s.log.Error().Err(err).Msg("failed to resolve pair")
			http.Error(w, "Failed to resolve pair", http.StatusInternalServerError)
		}
		return ref, nil, false
	}

	book, err := s.book(r.Context(), ref)
	if err != nil {
		s.log.Error().Err(err).Str("book", ref.id).Msg("failed to load book")
		http.Error(w, fmt.Sprintf("Failed to load book: %s", err), http.StatusBadGateway)
		return ref, nil, false
	}
	return ref, book, true
}

// navigator positions a fresh navigator at the URL's chapter index.
func navigator(r *http.Request, book *align.AlignedBook) (*reader.Navigator, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", reader.ErrInvalidChapterIndex, chi.URLParam(r, "index"))
	}

	nav := reader.NewNavigator(book.Len(), nil)
	if err := nav.GoTo(index); err != nil {
		return nil, err
	}
	return nav, nil
}
