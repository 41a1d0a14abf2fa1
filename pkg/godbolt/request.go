package godbolt

import (
	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/models"
)

// ExecuteRequest describes a program to compile and run.
type ExecuteRequest struct {
	Source       string       // Program text
	Language     string       // Language id or name; "" means the default language
	Compiler     string       // Compiler id, name or alias; "" means the language default
	Stdin        string       // Standard input for the program
	Args         []string     // Program arguments
	CompilerArgs string       // Extra compiler flags, e.g. "-O2 -std=c++20"
	Libraries    []LibraryRef // Libraries to link
}

// LibraryRef selects one version of a library.
type LibraryRef struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// CompileRequest is the JSON body of POST /compiler/{id}/compile.
type CompileRequest struct {
	Source    string         `json:"source"`
	Compiler  string         `json:"compiler"`
	Options   CompileOptions `json:"options"`
	Libraries []LibraryRef   `json:"libraries,omitempty"`
}

type CompileOptions struct {
	UserArguments     string            `json:"userArguments,omitempty"`
	ExecuteParameters ExecuteParameters `json:"executeParameters"`
	CompilerOptions   CompilerOptions   `json:"compilerOptions"`
	Filters           Filters           `json:"filters"`
}

type ExecuteParameters struct {
	Stdin string   `json:"stdin,omitempty"`
	Args  []string `json:"args,omitempty"`
}

type CompilerOptions struct {
	SkipAsm bool `json:"skipAsm"`
}

type Filters struct {
	Execute bool `json:"execute"`
}

// BuildRequest resolves req and produces the body that [Client.Execute]
// would send, without sending it.
//
// Libraries known to the language are checked and normalized to their
// canonical id and version id; unknown ones are passed through for the
// service to judge.
func (c *Client) BuildRequest(req ExecuteRequest) (*CompileRequest, error) {
	_, body, err := c.buildRequest(req)
	return body, err
}

func (c *Client) buildRequest(req ExecuteRequest) (*models.Language, *CompileRequest, error) {
	lang, comp, err := c.Resolve(req.Language, req.Compiler)
	if err != nil {
		return nil, nil, err
	}

	libs, err := resolveLibraries(lang, req.Libraries)
	if err != nil {
		return nil, nil, err
	}

	return lang, &CompileRequest{
		Source:   req.Source,
		Compiler: comp.ID,
		Options: CompileOptions{
			UserArguments: req.CompilerArgs,
			ExecuteParameters: ExecuteParameters{
				Stdin: req.Stdin,
				Args:  req.Args,
			},
			CompilerOptions: CompilerOptions{SkipAsm: true},
			Filters: Filters{Execute: true},
		},
		Libraries: libs,
	}, nil
}

func resolveLibraries(lang *models.Language, refs []LibraryRef) ([]LibraryRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]LibraryRef, 0, len(refs))
	for _, ref := range refs {
		if err := errors.ValidateIdentifier("library id", ref.ID); err != nil {
			return nil, err
		}
		if err := errors.ValidateIdentifier("library version", ref.Version); err != nil {
			return nil, err
		}

		lib, ok := lang.FindLibrary(ref.ID)
		if !ok {
			out = append(out, ref)
			continue
		}
		v, ok := lib.FindVersion(ref.Version)
		if !ok {
			return nil, errors.New(errors.ErrCodeLibraryNotFound, "library %s has no version %q", lib.ID, ref.Version)
		}
		out = append(out, LibraryRef{ID: lib.ID, Version: v.ID})
	}
	return out, nil
}
