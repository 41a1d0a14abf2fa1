// Package godbolttest provides an in-process fake of the Compiler Explorer
// API for tests.
//
//	srv := godbolttest.NewServer(t)
//	client := godbolt.New(godbolt.WithBaseURL(srv.BaseURL()))
//	...
//	if n := srv.RequestCount(); n != 7 { ... }
//
// The server starts with the fixtures in this package, records every
// request and can be told to fail specific routes.
package godbolttest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one recorded request.
type Request struct {
	Method string
	Path   string // Escaped path, including the /api prefix
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r Request) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

type failure struct {
	status int
	body   string
}

// Server is a fake Compiler Explorer API backed by httptest.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	languages string
	compilers map[string]string
	libraries map[string]string
	results   map[string]string
	failures  map[string]failure
	requests  []Request
}

// NewServer starts a server loaded with the default fixtures. It is closed
// when the test finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := Start()
	t.Cleanup(s.Close)
	return s
}

// Start starts a server loaded with the default fixtures. The caller must
// Close it.
func Start() *Server {
	s := &Server{
		languages: LanguagesJSON,
		compilers: map[string]string{
			"c":      CCompilersJSON,
			"c++":    CppCompilersJSON,
			"python": PythonCompilersJSON,
		},
		libraries: map[string]string{
			"c++": CppLibrariesJSON,
		},
		results:  map[string]string{},
		failures: map[string]failure{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.inject)
	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", s.handleLanguages)
		r.Get("/compilers/{lang}", s.handleCompilers)
		r.Get("/libraries/{lang}", s.handleLibraries)
		r.Post("/compiler/{id}/compile", s.handleCompile)
	})
	return r
}

// BaseURL returns the API root to hand to a client.
func (s *Server) BaseURL() string { return s.URL + "/api" }

// SetLanguages replaces the body of GET /languages.
func (s *Server) SetLanguages(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.languages = body
}

// SetCompilers replaces the body of GET /compilers/{lang}.
func (s *Server) SetCompilers(lang, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compilers[lang] = body
}

// SetLibraries replaces the body of GET /libraries/{lang}.
func (s *Server) SetLibraries(lang, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.libraries[lang] = body
}

// SetResult sets the compile response for one compiler id.
func (s *Server) SetResult(compilerID, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[compilerID] = body
}

// Fail makes requests for method and path (relative to /api, e.g.
// "/compilers/c++") answer with status and body until [Server.Recover].
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" /api"+path] = failure{status: status, body: body}
}

// Recover clears all injected failures.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failure{}
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestCount returns the number of requests received so far.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request whose method matches.
func (s *Server) Last(method string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Method == method {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

// ResetRequests forgets the recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+r.URL.EscapedPath()]
		if !ok {
			f, ok = s.failures[r.Method+" "+r.URL.Path]
		}
		s.mu.Unlock()

		if ok {
			w.WriteHeader(f.status)
			io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	body := s.languages
	s.mu.Unlock()
	writeJSON(w, body)
}

func (s *Server) handleCompilers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.compilers[chi.URLParam(r, "lang")]
	s.mu.Unlock()
	if !ok {
		body = "[]"
	}
	writeJSON(w, body)
}

func (s *Server) handleLibraries(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.libraries[chi.URLParam(r, "lang")]
	s.mu.Unlock()
	if !ok {
		body = "[]"
	}
	writeJSON(w, body)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Compiler string `json:"compiler"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	if req.Compiler != "" && req.Compiler != id {
		http.Error(w, "compiler in body does not match path", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	body, ok := s.results[id]
	s.mu.Unlock()
	if !ok {
		body = ExecuteJSON
	}
	writeJSON(w, body)
}
