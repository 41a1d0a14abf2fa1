package models

import (
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/godbolt/pkg/errors"
)

// Language is a source language known to Compiler Explorer.
//
// The identity fields are immutable after construction. The compiler and
// library collections grow during discovery only and are never edited
// element-wise afterwards, so pointers returned by the lookups stay valid
// for the lifetime of the registry that owns the language.
//
// Language is safe for concurrent use.
type Language struct {
	ID              string   // Stable identifier (e.g. "python", "c++")
	Name            string   // Display name (e.g. "Python")
	Extensions      []string // File extensions in API order (e.g. [".py"])
	Monaco          string   // Editor mode tag
	DefaultCompiler string   // Default compiler id, empty when the API omits it

	mu        sync.RWMutex
	compilers []*Compiler
	libraries []*Library
}

// LanguageFromRecord decodes a single entry of GET /languages.
//
// id, name, extensions and monaco are required; defaultCompiler is optional
// and decodes to "" when absent or null. Failures are [*errors.DecodingError].
func LanguageFromRecord(data []byte) (*Language, error) {
	rec, err := parseRecord("language", data)
	if err != nil {
		return nil, err
	}

	lang := &Language{}
	if lang.ID, err = rec.requiredString("id"); err != nil {
		return nil, err
	}
	if lang.Name, err = rec.requiredString("name"); err != nil {
		return nil, err
	}
	if lang.Extensions, err = rec.requiredStrings("extensions"); err != nil {
		return nil, err
	}
	if lang.Monaco, err = rec.requiredString("monaco"); err != nil {
		return nil, err
	}
	if lang.DefaultCompiler, err = rec.optionalString("defaultCompiler"); err != nil {
		return nil, err
	}
	return lang, nil
}

// LanguagesFromRecords decodes the JSON array returned by GET /languages.
func LanguagesFromRecords(data []byte) ([]*Language, error) {
	items, err := splitArray("language", data)
	if err != nil {
		return nil, err
	}
	langs := make([]*Language, 0, len(items))
	for i, item := range items {
		lang, err := LanguageFromRecord(item)
		if err != nil {
			return nil, indexed("language", i, err)
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

// Record returns the language's identity fields in API field naming.
// defaultCompiler is omitted when empty.
func (l *Language) Record() map[string]any {
	rec := map[string]any{
		"id":         l.ID,
		"name":       l.Name,
		"extensions": append([]string(nil), l.Extensions...),
		"monaco":     l.Monaco,
	}
	if l.DefaultCompiler != "" {
		rec["defaultCompiler"] = l.DefaultCompiler
	}
	return rec
}

// Matches reports whether key equals the language's id or its name.
// Matching is exact; ids like "c++" and "C++" are distinct languages.
func (l *Language) Matches(key string) bool {
	return l.ID == key || l.Name == key
}

// Equal reports whether other has the same id and the same name.
func (l *Language) Equal(other *Language) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.ID == other.ID && l.Name == other.Name
}

// String returns the display name.
func (l *Language) String() string { return l.Name }

// GoString renders the language for %#v.
func (l *Language) GoString() string {
	return fmt.Sprintf("Language(id=%q, name=%q, extensions=%q, monaco=%q)", l.ID, l.Name, l.Extensions, l.Monaco)
}

// AddCompiler attaches c to the language and sets its back-reference.
// Nil compilers and compilers without an id are rejected.
func (l *Language) AddCompiler(c *Compiler) error {
	if c == nil {
		return errors.New(errors.ErrCodeInvalidInput, "language %s: nil compiler", l.ID)
	}
	if c.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "language %s: compiler without id", l.ID)
	}
	c.Lang = l.ID

	l.mu.Lock()
	defer l.mu.Unlock()
	l.compilers = append(l.compilers, c)
	return nil
}

// AddLibrary attaches lib to the language.
// Nil libraries and libraries without an id are rejected.
func (l *Language) AddLibrary(lib *Library) error {
	if lib == nil {
		return errors.New(errors.ErrCodeInvalidInput, "language %s: nil library", l.ID)
	}
	if lib.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "language %s: library without id", l.ID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.libraries = append(l.libraries, lib)
	return nil
}

// Compilers returns a snapshot of the attached compilers in discovery order.
func (l *Language) Compilers() []*Compiler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Compiler(nil), l.compilers...)
}

// Libraries returns a snapshot of the attached libraries in discovery order.
func (l *Language) Libraries() []*Library {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Library(nil), l.libraries...)
}

// FindCompiler returns the first compiler whose id or name equals key,
// ignoring case. Only when none matches are aliases consulted, again in
// discovery order; alias matching is exact.
func (l *Language) FindCompiler(key string) (*Compiler, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, c := range l.compilers {
		if strings.EqualFold(c.ID, key) || strings.EqualFold(c.Name, key) {
			return c, true
		}
	}
	for _, c := range l.compilers {
		if c.HasAlias(key) {
			return c, true
		}
	}
	return nil, false
}

// FindLibrary returns the first library whose id or name equals key,
// ignoring case.
func (l *Language) FindLibrary(key string) (*Library, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, lib := range l.libraries {
		if strings.EqualFold(lib.ID, key) || strings.EqualFold(lib.Name, key) {
			return lib, true
		}
	}
	return nil, false
}
