package godbolt

import (
	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/models"
)

// Resolve maps a language and optional compiler name to registry entries.
// See the package documentation for the rules. Resolve makes no network
// calls.
func (c *Client) Resolve(language, compiler string) (*models.Language, *models.Compiler, error) {
	reg, err := c.ready("resolve")
	if err != nil {
		return nil, nil, err
	}
	if language == "" && compiler != "" {
		return nil, nil, &errors.AmbiguousRequestError{Compiler: compiler}
	}
	if language == "" {
		language = c.defaultLanguage
	}

	lang, ok := reg.Find(language)
	if !ok {
		return nil, nil, &errors.LanguageNotFoundError{Language: language}
	}

	if compiler == "" {
		comp, err := defaultCompiler(lang)
		if err != nil {
			return nil, nil, err
		}
		return lang, comp, nil
	}

	comp, ok := lang.FindCompiler(compiler)
	if !ok {
		return nil, nil, &errors.CompilerNotFoundError{Language: lang.ID, Compiler: compiler}
	}
	return lang, comp, nil
}

// defaultCompiler returns the compiler the API names as default, or the
// first discovered compiler when that is absent or unknown.
func defaultCompiler(lang *models.Language) (*models.Compiler, error) {
	if lang.DefaultCompiler != "" {
		if comp, ok := lang.FindCompiler(lang.DefaultCompiler); ok {
			return comp, nil
		}
	}
	compilers := lang.Compilers()
	if len(compilers) == 0 {
		return nil, &errors.CompilerNotFoundError{Language: lang.ID}
	}
	return compilers[0], nil
}
