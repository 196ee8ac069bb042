package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/reader"
)

type chapterLink struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type chapterListResponse struct {
	Title    string        `json:"title"`
	Chapters []chapterLink `json:"chapters"`
}

type chapterResponse struct {
	Index    int                  `json:"index"`
	Title    string               `json:"title"`
	Total    int                  `json:"total"`
	Blocks   []align.DisplayBlock `json:"blocks"`
	Previous *int                 `json:"previous,omitempty"`
	Next     *int                 `json:"next,omitempty"`
}

type pageData struct {
	BookTitle string
	Chapters  []chapterLink
	Current   int
	Title     string
	Blocks    []align.DisplayBlock
	Previous  string
	Next      string
}

func chapterURL(base string, index int) string {
	return fmt.Sprintf("%s/chapters/%d", base, index)
}

func links(ref bookRef, book *align.AlignedBook) []chapterLink {
	out := make([]chapterLink, book.Len())
	for i := range out {
		out[i] = chapterLink{Index: i, Title: book.Title(i), URL: chapterURL(ref.base, i)}
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ref, book, ok := s.load(w, r)
	if !ok {
		return
	}

	if book.Len() == 0 {
		s.render(w, http.StatusOK, pageData{BookTitle: ref.title, Current: -1})
		return
	}
	http.Redirect(w, r, chapterURL(ref.base, 0), http.StatusFound)
}

func (s *Server) handleChapterPage(w http.ResponseWriter, r *http.Request) {
	ref, book, ok := s.load(w, r)
	if !ok {
		return
	}

	nav, err := navigator(r, book)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	page := pageData{
		BookTitle: ref.title,
		Chapters:  links(ref, book),
		Current:   nav.Index(),
		Title:     book.Title(nav.Index()),
		Blocks:    book.Chapter(nav.Index()),
	}
	if nav.CanPrevious() {
		page.Previous = chapterURL(ref.base, nav.Index()-1)
	}
	if nav.CanNext() {
		page.Next = chapterURL(ref.base, nav.Index()+1)
	}

	s.render(w, http.StatusOK, page)
}

func (s *Server) handleChapterList(w http.ResponseWriter, r *http.Request) {
	ref, book, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chapterListResponse{Title: ref.title, Chapters: links(ref, book)})
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	_, book, ok := s.load(w, r)
	if !ok {
		return
	}

	nav, err := navigator(r, book)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chapterResponse{
		Index:    nav.Index(),
		Title:    book.Title(nav.Index()),
		Total:    nav.Len(),
		Blocks:   book.Chapter(nav.Index()),
		Previous: neighbour(nav, nav.CanPrevious(), -1),
		Next:     neighbour(nav, nav.CanNext(), 1),
	})
}

func neighbour(nav *reader.Navigator, ok bool, delta int) *int {
	if !ok {
		return nil
	}
	i := nav.Index() + delta
	return &i
}

func (s *Server) render(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "chapter.html", page); err != nil {
		s.log.Error().Err(err).Msg("failed to render template")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
