package models

import "slices"

// Compiler is a compiler (or interpreter) offered for one language.
type Compiler struct {
	ID             string   `json:"id"`                       // Stable identifier (e.g. "g132")
	Name           string   `json:"name"`                     // Display name (e.g. "x86-64 gcc 13.2")
	Lang           string   `json:"lang"`                     // Owning language id, set when attached
	Alias          []string `json:"alias"`                    // Alternate names usable for lookup
	CompilerType   string   `json:"compilerType,omitempty"`   // Backend family (may be empty)
	SemVer         string   `json:"semver,omitempty"`         // Version string (may be empty)
	InstructionSet string   `json:"instructionSet,omitempty"` // Target ISA (may be empty)
}

// CompilerFromRecord decodes a single entry of GET /compilers/{lang}.
//
// id and name are required. lang, alias and the descriptive fields are
// optional; alias decodes to an empty slice when absent.
func CompilerFromRecord(data []byte) (*Compiler, error) {
	rec, err := parseRecord("compiler", data)
	if err != nil {
		return nil, err
	}

	c := &Compiler{}
	if c.ID, err = rec.requiredString("id"); err != nil {
		return nil, err
	}
	if c.Name, err = rec.requiredString("name"); err != nil {
		return nil, err
	}
	if c.Lang, err = rec.optionalString("lang"); err != nil {
		return nil, err
	}
	if c.Alias, err = rec.optionalStrings("alias"); err != nil {
		return nil, err
	}
	if c.CompilerType, err = rec.optionalString("compilerType"); err != nil {
		return nil, err
	}
	if c.SemVer, err = rec.optionalString("semver"); err != nil {
		return nil, err
	}
	if c.InstructionSet, err = rec.optionalString("instructionSet"); err != nil {
		return nil, err
	}
	return c, nil
}

// CompilersFromRecords decodes the JSON array returned by GET /compilers/{lang}.
func CompilersFromRecords(data []byte) ([]*Compiler, error) {
	items, err := splitArray("compiler", data)
	if err != nil {
		return nil, err
	}
	compilers := make([]*Compiler, 0, len(items))
	for i, item := range items {
		c, err := CompilerFromRecord(item)
		if err != nil {
			return nil, indexed("compiler", i, err)
		}
		compilers = append(compilers, c)
	}
	return compilers, nil
}

// HasAlias reports whether key is one of the compiler's aliases.
func (c *Compiler) HasAlias(key string) bool {
	return slices.Contains(c.Alias, key)
}

func (c *Compiler) String() string { return c.Name }
