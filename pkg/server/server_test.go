package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/data"
	"github.com/kerbaras/dualbook/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOpener struct {
	calls    atomic.Int32
	openFunc func(ctx context.Context, req services.Request) (*align.AlignedBook, error)
}

func (m *mockOpener) Open(ctx context.Context, req services.Request) (*align.AlignedBook, error) {
	m.calls.Add(1)
	if m.openFunc != nil {
		return m.openFunc(ctx, req)
	}
	return testBook(), nil
}

type mockPairs struct {
	findPairFunc func(ref string) (*data.BookPair, error)
}

func (m *mockPairs) FindPair(ref string) (*data.BookPair, error) {
	if m.findPairFunc != nil {
		return m.findPairFunc(ref)
	}
	return nil, data.ErrPairNotFound
}

func testBook() *align.AlignedBook {
	return &align.AlignedBook{
		Original:   []align.ParagraphList{{"A", "B"}, {"C"}},
		Translated: []align.ParagraphList{{"Я"}, {"Б", "В"}},
		Titles:     []string{"One", "Two"},
	}
}

func newTestServer(t *testing.T, opener Opener, opts Options) *Server {
	t.Helper()
	if opts.Title == "" {
		opts.Title = "Parallel"
	}
	s, err := New(opener, opts)
	require.NoError(t, err)
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	opener := &mockOpener{}
	s := newTestServer(t, opener, Options{})

	rec := get(s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, int32(0), opener.calls.Load(), "health check does not load books")
}

func TestIndexRedirectsToFirstChapter(t *testing.T) {
	s := newTestServer(t, &mockOpener{}, Options{})

	rec := get(s, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/chapters/0", rec.Header().Get("Location"))
}

func TestIndexEmptyBook(t *testing.T) {
	opener := &mockOpener{
		openFunc: func(ctx context.Context, req services.Request) (*align.AlignedBook, error) {
			return &align.AlignedBook{}, nil
		},
	}
	s := newTestServer(t, opener, Options{})

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no chapters in common")
}

func TestChapterPage(t *testing.T) {
	s := newTestServer(t, &mockOpener{}, Options{})

	rec := get(s, "/chapters/0")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<h1>One</h1>")
	assert.Contains(t, body, `<p class="original">A</p>`)
	assert.Contains(t, body, `<p class="translated">Я</p>`)
	assert.Contains(t, body, `href="/chapters/1">Next`)
	assert.NotContains(t, body, "Back")
	assert.Less(t, strings.Index(body, ">A<"), strings.Index(body, ">Я<"))
	assert.Less(t, strings.Index(body, ">Я<"), strings.Index(body, ">B<"))

	rec = get(s, "/chapters/1")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, `href="/chapters/0">&larr; Back`)
	assert.NotContains(t, body, "Next &rarr;")
	assert.Contains(t, body, `class="current">2. Two`)
}

func TestChapterPageEscapesText(t *testing.T) {
	opener := &mockOpener{
		openFunc: func(ctx context.Context, req services.Request) (*align.AlignedBook, error) {
			return &align.AlignedBook{
				Original: []align.ParagraphList{{"<script>alert(1)</script>"}},
				Titles:   []string{"X"},
			}, nil
		},
	}
	s := newTestServer(t, opener, Options{})

	rec := get(s, "/chapters/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert")
}

func TestChapterPageInvalidIndex(t *testing.T) {
	s := newTestServer(t, &mockOpener{}, Options{})

	for _, path := range []string{"/chapters/2", "/chapters/-1", "/chapters/abc"} {
		t.Run(path, func(t *testing.T) {
			rec := get(s, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid chapter index")
		})
	}
}

func TestLoadFailureIsBadGateway(t *testing.T) {
	opener := &mockOpener{
		openFunc: func(ctx context.Context, req services.Request) (*align.AlignedBook, error) {
			return nil, fmt.Errorf("%w: en.epub", services.ErrSourceUnavailable)
		},
	}
	s := newTestServer(t, opener, Options{})

	for _, path := range []string{"/", "/chapters/0", "/api/chapters", "/api/chapters/0"} {
		rec := get(s, path)
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
	}
	assert.Equal(t, int32(4), opener.calls.Load(), "failures are not cached")
}

func TestBookIsCached(t *testing.T) {
	opener := &mockOpener{}
	s := newTestServer(t, opener, Options{})

	get(s, "/chapters/0")
	get(s, "/chapters/1")
	get(s, "/api/chapters")
	assert.Equal(t, int32(1), opener.calls.Load())
}

func TestAPIChapterList(t *testing.T) {
	s := newTestServer(t, &mockOpener{}, Options{})

	rec := get(s, "/api/chapters")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got chapterListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Parallel", got.Title)
	assert.Equal(t, []chapterLink{
		{Index: 0, Title: "One", URL: "/chapters/0"},
		{Index: 1, Title: "Two", URL: "/chapters/1"},
	}, got.Chapters)
}

func TestAPIChapter(t *testing.T) {
	s := newTestServer(t, &mockOpener{}, Options{})

	rec := get(s, "/api/chapters/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var got chapterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, "Two", got.Title)
	assert.Equal(t, 2, got.Total)
	require.NotNil(t, got.Previous)
	assert.Equal(t, 0, *got.Previous)
	assert.Nil(t, got.Next)
	assert.Equal(t, []align.DisplayBlock{
		{Kind: align.Original, Text: "C", Position: 0},
		{Kind: align.Translated, Text: "Б", Position: 0},
		{Kind: align.Translated, Text: "В", Position: 1},
	}, got.Blocks)

	rec = get(s, "/api/chapters/5")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPairRoutes(t *testing.T) {
	pair := data.NewBookPair("ducks", "en.epub", 2, "ru.epub", 4)
	var gotReq services.Request
	opener := &mockOpener{
		openFunc: func(ctx context.Context, req services.Request) (*align.AlignedBook, error) {
			gotReq = req
			return testBook(), nil
		},
	}
	pairs := &mockPairs{
		findPairFunc: func(ref string) (*data.BookPair, error) {
			if ref == pair.ID || ref == pair.Name {
				return pair, nil
			}
			return nil, data.ErrPairNotFound
		},
	}
	s := newTestServer(t, opener, Options{Pairs: pairs})

	rec := get(s, "/pairs/ducks/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/pairs/"+pair.ID+"/chapters/0", rec.Header().Get("Location"))
	assert.Equal(t, services.RequestFor(pair), gotReq)

	rec = get(s, "/pairs/"+pair.ID+"/chapters/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/pairs/`+pair.ID+`/chapters/0"`)

	rec = get(s, "/pairs/geese/chapters/0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPairRoutesDisabledWithoutFinder(t *testing.T) {
	s := newTestServer(t, &mockOpener{}, Options{})

	rec := get(s, "/pairs/ducks/chapters/0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &mockOpener{}, Options{RateLimit: 2})

	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(s, "/healthz").Code)
}
