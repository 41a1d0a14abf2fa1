package godbolt

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/godbolt/pkg/cache"
	"github.com/matzehuels/godbolt/pkg/config"
	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/godbolttest"
	"github.com/matzehuels/godbolt/pkg/observability"
)

func newClient(t *testing.T, srv *godbolttest.Server, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.BaseURL()),
		WithLogger(log.New(io.Discard)),
	}
	c := New(append(base, opts...)...)
	t.Cleanup(func() { c.Close() })
	return c
}

func initClient(t *testing.T, srv *godbolttest.Server, opts ...Option) *Client {
	t.Helper()
	c := newClient(t, srv, opts...)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	return c
}

func TestNotInitialized(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := newClient(t, srv)

	if c.State() != StateUninitialized {
		t.Fatalf("State() = %s, want uninitialized", c.State())
	}

	checks := map[string]func() error{
		"Languages":    func() error { _, err := c.Languages(); return err },
		"FindLanguage": func() error { _, err := c.FindLanguage("python"); return err },
		"Resolve":      func() error { _, _, err := c.Resolve("python", ""); return err },
		"BuildRequest": func() error { _, err := c.BuildRequest(ExecuteRequest{Source: "print(1)"}); return err },
		"Execute": func() error {
			_, err := c.Execute(context.Background(), ExecuteRequest{Source: "print(1)"})
			return err
		},
	}
	for name, fn := range checks {
		t.Run(name, func(t *testing.T) {
			err := fn()
			var nie *errors.NotInitializedError
			if !stderrors.As(err, &nie) {
				t.Errorf("error = %v, want NotInitializedError", err)
			}
		})
	}

	if n := srv.RequestCount(); n != 0 {
		t.Errorf("made %d requests before Init, want 0", n)
	}
}

func TestInit(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := initClient(t, srv)

	if c.State() != StateReady {
		t.Fatalf("State() = %s, want ready", c.State())
	}

	langs, err := c.Languages()
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, l := range langs {
		ids = append(ids, l.ID)
	}
	if strings.Join(ids, ",") != "c,c++,python" {
		t.Errorf("languages = %v, want API order c,c++,python", ids)
	}

	cpp, err := c.FindLanguage("C++")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(cpp.Compilers()); n != 3 {
		t.Errorf("c++ compilers = %d, want 3", n)
	}
	if n := len(cpp.Libraries()); n != 2 {
		t.Errorf("c++ libraries = %d, want 2", n)
	}
	for _, comp := range cpp.Compilers() {
		if comp.Lang != "c++" {
			t.Errorf("compiler %s Lang = %q", comp.ID, comp.Lang)
		}
	}

	if n := srv.RequestCount(); n != 7 {
		t.Errorf("discovery made %d requests, want 7", n)
	}
}

func TestInitRequestsFields(t *testing.T) {
	srv := godbolttest.NewServer(t)
	initClient(t, srv)

	want := map[string]string{
		"/api/languages":        "id,name,extensions,monaco,defaultCompiler",
		"/api/compilers/python": "id,name,lang,alias",
		"/api/libraries/python": "",
	}
	for _, req := range srv.Requests() {
		fields, ok := want[req.Path]
		if !ok {
			continue
		}
		q, err := url.ParseQuery(req.Query)
		if err != nil {
			t.Fatal(err)
		}
		if got := q.Get("fields"); got != fields {
			t.Errorf("%s fields = %q, want %q", req.Path, got, fields)
		}
		if req.Header.Get("Accept") != "application/json" {
			t.Errorf("%s Accept = %q", req.Path, req.Header.Get("Accept"))
		}
	}
}

func TestFindLanguageNotFound(t *testing.T) {
	c := initClient(t, godbolttest.NewServer(t))
	_, err := c.FindLanguage("cobol")
	var lnf *errors.LanguageNotFoundError
	if !stderrors.As(err, &lnf) || lnf.Language != "cobol" {
		t.Errorf("error = %v, want LanguageNotFoundError for cobol", err)
	}
}

func TestResolve(t *testing.T) {
	c := initClient(t, godbolttest.NewServer(t))

	tests := []struct {
		language, compiler string
		wantLang, wantComp string
	}{
		{"", "", "python", "python312"},
		{"python", "", "python", "python312"},
		{"Python", "", "python", "python312"},
		{"c++", "", "c++", "g132"},
		{"c", "", "c", "cg132"},
		{"c++", "g102", "c++", "g102"},
		{"c++", "G102", "c++", "g102"},
		{"c++", "x86-64 GCC 10.2", "c++", "g102"},
		{"c++", "clang-latest", "c++", "clang1701"},
		{"python", "Python 3.11", "python", "python311"},
	}
	for _, tt := range tests {
		t.Run(tt.language+"/"+tt.compiler, func(t *testing.T) {
			lang, comp, err := c.Resolve(tt.language, tt.compiler)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if lang.ID != tt.wantLang || comp.ID != tt.wantComp {
				t.Errorf("Resolve(%q, %q) = %s/%s, want %s/%s", tt.language, tt.compiler, lang.ID, comp.ID, tt.wantLang, tt.wantComp)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := initClient(t, srv)

	t.Run("compiler without language", func(t *testing.T) {
		_, _, err := c.Resolve("", "g132")
		var are *errors.AmbiguousRequestError
		if !stderrors.As(err, &are) || are.Compiler != "g132" {
			t.Errorf("error = %v, want AmbiguousRequestError", err)
		}
	})

	t.Run("unknown language", func(t *testing.T) {
		_, _, err := c.Resolve("cobol", "")
		if !errors.Is(err, errors.ErrCodeLanguageNotFound) {
			t.Errorf("error = %v, want LANGUAGE_NOT_FOUND", err)
		}
	})

	t.Run("unknown compiler", func(t *testing.T) {
		_, _, err := c.Resolve("c++", "msvc")
		var cnf *errors.CompilerNotFoundError
		if !stderrors.As(err, &cnf) {
			t.Fatalf("error = %v, want CompilerNotFoundError", err)
		}
		if cnf.Language != "c++" || cnf.Compiler != "msvc" {
			t.Errorf("error = %+v", cnf)
		}
	})

	t.Run("alias is case-sensitive", func(t *testing.T) {
		if _, _, err := c.Resolve("c++", "CLANG-LATEST"); !errors.Is(err, errors.ErrCodeCompilerNotFound) {
			t.Errorf("error = %v, want COMPILER_NOT_FOUND", err)
		}
	})
}

func TestResolveLanguageWithoutCompilers(t *testing.T) {
	srv := godbolttest.NewServer(t)
	srv.SetLanguages(`[{"id":"rust","name":"Rust","extensions":[".rs"],"monaco":"rust","defaultCompiler":"r1740"}]`)
	c := initClient(t, srv, WithDefaultLanguage("rust"))

	_, _, err := c.Resolve("", "")
	var cnf *errors.CompilerNotFoundError
	if !stderrors.As(err, &cnf) {
		t.Fatalf("error = %v, want CompilerNotFoundError", err)
	}
	if cnf.Language != "rust" || cnf.Compiler != "" {
		t.Errorf("error = %+v, want language rust and no compiler", cnf)
	}
}

func TestResolveDanglingDefaultFallsBackToFirst(t *testing.T) {
	srv := godbolttest.NewServer(t)
	srv.SetLanguages(`[{"id":"python","name":"Python","extensions":[".py"],"monaco":"python","defaultCompiler":"python399"}]`)
	c := initClient(t, srv)

	_, comp, err := c.Resolve("python", "")
	if err != nil {
		t.Fatal(err)
	}
	if comp.ID != "python312" {
		t.Errorf("compiler = %s, want first discovered python312", comp.ID)
	}
}

func TestInitFailureAbortsWithDetail(t *testing.T) {
	srv := godbolttest.NewServer(t)
	srv.Fail(http.MethodGet, "/compilers/c++", http.StatusInternalServerError, "boom")
	c := newClient(t, srv)

	err := c.Init(context.Background())
	if errors.GetCode(err) != errors.ErrCodeDiscovery {
		t.Fatalf("code = %s, want DISCOVERY_FAILED (err %v)", errors.GetCode(err), err)
	}
	if !strings.Contains(err.Error(), "/compilers/c++") {
		t.Errorf("error %q should name the failing call", err)
	}
	var terr *errors.TransportError
	if !stderrors.As(err, &terr) || terr.StatusCode != http.StatusInternalServerError {
		t.Errorf("error should wrap the transport failure, got %v", err)
	}
	if c.State() != StateUninitialized {
		t.Errorf("State() = %s, want uninitialized after failed discovery", c.State())
	}
	if _, err := c.Languages(); !errors.Is(err, errors.ErrCodeNotInitialized) {
		t.Errorf("Languages() after failed Init = %v, want NOT_INITIALIZED", err)
	}

	srv.Recover()
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init after recovery: %v", err)
	}
	if c.State() != StateReady {
		t.Errorf("State() = %s, want ready", c.State())
	}
}

func TestInitDecodingFailure(t *testing.T) {
	srv := godbolttest.NewServer(t)
	srv.SetCompilers("python", `[{"id":"python312"}]`)
	c := newClient(t, srv)

	err := c.Init(context.Background())
	if !errors.Is(err, errors.ErrCodeDiscovery) || !errors.Is(err, errors.ErrCodeDecoding) {
		t.Fatalf("error = %v, want DISCOVERY_FAILED wrapping DECODING_ERROR", err)
	}
	var decErr *errors.DecodingError
	if !stderrors.As(err, &decErr) {
		t.Fatal("error should expose the DecodingError")
	}
}

func TestFailedRefreshKeepsRegistry(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := initClient(t, srv)

	srv.Fail(http.MethodGet, "/languages", http.StatusBadGateway, "")
	if err := c.Init(context.Background()); err == nil {
		t.Fatal("Init should fail")
	}

	if c.State() != StateReady {
		t.Errorf("State() = %s, want ready", c.State())
	}
	langs, err := c.Languages()
	if err != nil || len(langs) != 3 {
		t.Errorf("Languages() = %d, %v; want previous registry", len(langs), err)
	}
}

func TestRefreshReplacesRegistry(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := initClient(t, srv)
	before, _ := c.Languages()

	srv.SetLanguages(`[{"id":"python","name":"Python","extensions":[".py"],"monaco":"python","defaultCompiler":"python312"}]`)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	after, _ := c.Languages()
	if len(after) != 1 || after[0].ID != "python" {
		t.Errorf("languages after refresh = %v", after)
	}
	if len(before) != 3 {
		t.Errorf("earlier snapshot changed to %d entries", len(before))
	}
	if n := len(after[0].Compilers()); n != 2 {
		t.Errorf("python compilers after refresh = %d, want 2 (not accumulated)", n)
	}
}

func TestInitCanceled(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := newClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Init(ctx)
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("error = %v, want CANCELED in chain", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Error("error should match context.Canceled")
	}
	if c.State() != StateUninitialized {
		t.Errorf("State() = %s", c.State())
	}
}

func TestParallelDiscoveryKeepsOrder(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := initClient(t, srv, WithConcurrency(3))

	langs, _ := c.Languages()
	var ids []string
	for _, l := range langs {
		ids = append(ids, l.ID)
	}
	if strings.Join(ids, ",") != "c,c++,python" {
		t.Errorf("languages = %v", ids)
	}
	if n := srv.RequestCount(); n != 7 {
		t.Errorf("requests = %d, want 7", n)
	}
}

func TestDiscoveryCache(t *testing.T) {
	srv := godbolttest.NewServer(t)
	store := cache.NewMemoryCache()

	initClient(t, srv, WithCache(store, time.Hour))
	if n := srv.RequestCount(); n != 7 {
		t.Fatalf("first discovery requests = %d, want 7", n)
	}

	second := initClient(t, srv, WithCache(store, time.Hour))
	if n := srv.RequestCount(); n != 7 {
		t.Errorf("cached discovery made %d extra requests", n-7)
	}
	if langs, _ := second.Languages(); len(langs) != 3 {
		t.Errorf("cached discovery languages = %d", len(langs))
	}

	if err := second.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := srv.RequestCount(); n != 14 {
		t.Errorf("Refresh requests = %d, want 14 total", n)
	}

	if _, err := second.Execute(context.Background(), ExecuteRequest{Source: "print(1)"}); err != nil {
		t.Fatal(err)
	}
	if _, err := second.Execute(context.Background(), ExecuteRequest{Source: "print(1)"}); err != nil {
		t.Fatal(err)
	}
	if n := srv.RequestCount(); n != 16 {
		t.Errorf("executions must never be cached, requests = %d", n)
	}
}

func TestHeaders(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := initClient(t, srv, WithHeaders(map[string]string{
		"Accept":  "text/plain",
		"X-Token": "secret",
	}))

	h := c.Headers()
	if h["Accept"] != "application/json" {
		t.Errorf("Accept = %q, want application/json", h["Accept"])
	}
	h["X-Token"] = "changed"
	if c.Headers()["X-Token"] != "secret" {
		t.Error("Headers() must return a copy")
	}

	for _, req := range srv.Requests() {
		if req.Header.Get("X-Token") != "secret" {
			t.Errorf("%s missing caller header", req.Path)
		}
		if req.Header.Get("Accept") != "application/json" {
			t.Errorf("%s Accept = %q", req.Path, req.Header.Get("Accept"))
		}
	}
}

func TestClose(t *testing.T) {
	srv := godbolttest.NewServer(t)
	c := initClient(t, srv)

	if err := c.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	before := srv.RequestCount()
	_, err := c.Execute(context.Background(), ExecuteRequest{Source: "print(1)"})
	var te *errors.TransportError
	if !stderrors.As(err, &te) {
		t.Fatalf("Execute after Close error = %T %v, want *errors.TransportError", err, err)
	}
	if got := errors.GetCode(err); got != errors.ErrCodeClosed {
		t.Errorf("GetCode = %v, want %v", got, errors.ErrCodeClosed)
	}
	if err := c.Init(context.Background()); !errors.Is(err, errors.ErrCodeClosed) {
		t.Errorf("Init after Close error = %v, want CLIENT_CLOSED in chain", err)
	}
	if srv.RequestCount() != before {
		t.Error("no request should reach the server after Close")
	}
}

func TestNewFromConfig(t *testing.T) {
	srv := godbolttest.NewServer(t)
	cfg := config.Default()
	cfg.BaseURL = srv.BaseURL()
	cfg.DefaultLanguage = "c++"
	cfg.Headers = map[string]string{"X-Team": "compilers"}
	cfg.Cache.Backend = cache.BackendMemory

	c, err := NewFromConfig(context.Background(), cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewFromConfig error: %v", err)
	}
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, comp, err := c.Resolve("", "")
	if err != nil || comp.ID != "g132" {
		t.Errorf("default resolution = %v, %v; want g132", comp, err)
	}
	if c.Headers()["X-Team"] != "compilers" {
		t.Error("configured headers not applied")
	}

	store, ok := c.cache.(*cache.MemoryCache)
	if !ok {
		t.Fatalf("cache = %T, want *cache.MemoryCache", c.cache)
	}
	if store.Len() != 7 {
		t.Errorf("cached entries = %d, want 7", store.Len())
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Get(context.Background(), "x"); !stderrors.Is(err, cache.ErrClosed) {
		t.Error("Close should close a cache opened from config")
	}
}

func TestNewFromConfigInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Concurrency = 0
	if _, err := NewFromConfig(context.Background(), cfg, nil); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestWithCacheNotClosed(t *testing.T) {
	srv := godbolttest.NewServer(t)
	store := cache.NewMemoryCache()
	c := initClient(t, srv, WithCache(store, 0))
	c.Close()

	if _, _, err := store.Get(context.Background(), "x"); err != nil {
		t.Errorf("caller-owned cache should stay open, got %v", err)
	}
}

type recordingClientHooks struct {
	observability.NoopClientHooks
	mu        sync.Mutex
	stats     []observability.DiscoveryStats
	errs      []error
	exitCodes []int
}

func (h *recordingClientHooks) OnDiscoveryComplete(_ context.Context, _ string, s observability.DiscoveryStats, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats = append(h.stats, s)
	h.errs = append(h.errs, err)
}

func (h *recordingClientHooks) OnExecuteComplete(_ context.Context, _, _ string, code int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exitCodes = append(h.exitCodes, code)
}

func TestClientHooks(t *testing.T) {
	hooks := &recordingClientHooks{}
	observability.SetClientHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := godbolttest.NewServer(t)
	srv.SetResult("python312", `{"code":0,"execResult":{"code":4,"didExecute":true}}`)
	c := initClient(t, srv)
	if _, err := c.Execute(context.Background(), ExecuteRequest{Source: "exit(4)"}); err != nil {
		t.Fatal(err)
	}

	want := observability.DiscoveryStats{Languages: 3, Compilers: 7, Libraries: 2}
	if len(hooks.stats) != 1 || hooks.stats[0] != want {
		t.Errorf("discovery stats = %+v, want %+v", hooks.stats, want)
	}
	if hooks.errs[0] != nil {
		t.Errorf("discovery error = %v", hooks.errs[0])
	}
	if len(hooks.exitCodes) != 1 || hooks.exitCodes[0] != 4 {
		t.Errorf("exit codes = %v, want [4]", hooks.exitCodes)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateUninitialized: "uninitialized",
		StateDiscovering:   "discovering",
		StateReady:         "ready",
		State(42):          "unknown",
	} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
