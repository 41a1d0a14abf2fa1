package models

import "strings"

// Library is a third-party library that can be linked into a compilation.
type Library struct {
	ID       string           `json:"id"`       // Stable identifier (e.g. "fmt")
	Name     string           `json:"name"`     // Display name (e.g. "{fmt}")
	URL      string           `json:"url"`      // Project homepage (may be empty)
	Versions []LibraryVersion `json:"versions"` // Available versions in API order
}

// LibraryVersion is one installable version of a [Library].
type LibraryVersion struct {
	ID            string   `json:"id"`                    // Version identifier used in requests (e.g. "1000")
	Version       string   `json:"version"`               // Display version (e.g. "10.0.0")
	Alias         []string `json:"alias"`                 // Alternate version names
	Dependencies  []string `json:"dependencies"`          // Library ids this version depends on
	Path          []string `json:"path"`                  // Include paths
	LibPath       []string `json:"libpath"`               // Library search paths
	Options       []string `json:"options"`               // Extra compiler options
	StaticLibLink []string `json:"staticliblink"`         // Static libraries to link
	Description   *string  `json:"description,omitempty"` // Optional description, nil when absent
}

// LibraryFromRecord decodes a single entry of GET /libraries/{lang}.
//
// id and name are required. url is optional and versions decodes to an
// empty slice when absent.
func LibraryFromRecord(data []byte) (*Library, error) {
	rec, err := parseRecord("library", data)
	if err != nil {
		return nil, err
	}

	lib := &Library{}
	if lib.ID, err = rec.requiredString("id"); err != nil {
		return nil, err
	}
	if lib.Name, err = rec.requiredString("name"); err != nil {
		return nil, err
	}
	if lib.URL, err = rec.optionalString("url"); err != nil {
		return nil, err
	}

	items, err := rec.optionalArray("versions")
	if err != nil {
		return nil, err
	}
	lib.Versions = make([]LibraryVersion, 0, len(items))
	for i, item := range items {
		v, err := LibraryVersionFromRecord(item)
		if err != nil {
			return nil, indexed("library version", i, err)
		}
		lib.Versions = append(lib.Versions, *v)
	}
	return lib, nil
}

// LibrariesFromRecords decodes the JSON array returned by GET /libraries/{lang}.
func LibrariesFromRecords(data []byte) ([]*Library, error) {
	items, err := splitArray("library", data)
	if err != nil {
		return nil, err
	}
	libs := make([]*Library, 0, len(items))
	for i, item := range items {
		lib, err := LibraryFromRecord(item)
		if err != nil {
			return nil, indexed("library", i, err)
		}
		libs = append(libs, lib)
	}
	return libs, nil
}

// LibraryVersionFromRecord decodes one element of a library's versions.
//
// id is required; the list fields default to empty slices and description
// to nil.
func LibraryVersionFromRecord(data []byte) (*LibraryVersion, error) {
	rec, err := parseRecord("library version", data)
	if err != nil {
		return nil, err
	}

	v := &LibraryVersion{}
	if v.ID, err = rec.requiredString("id"); err != nil {
		return nil, err
	}
	if v.Version, err = rec.optionalString("version"); err != nil {
		return nil, err
	}
	lists := []struct {
		field string
		dst   *[]string
	}{
		{"alias", &v.Alias},
		{"dependencies", &v.Dependencies},
		{"path", &v.Path},
		{"libpath", &v.LibPath},
		{"options", &v.Options},
		{"staticliblink", &v.StaticLibLink},
	}
	for _, l := range lists {
		if *l.dst, err = rec.optionalStrings(l.field); err != nil {
			return nil, err
		}
	}
	if v.Description, err = rec.optionalStringPtr("description"); err != nil {
		return nil, err
	}
	return v, nil
}

// FindVersion returns the first version whose id or display version
// equals key, ignoring case.
func (lib *Library) FindVersion(key string) (*LibraryVersion, bool) {
	for i := range lib.Versions {
		v := &lib.Versions[i]
		if strings.EqualFold(v.ID, key) || strings.EqualFold(v.Version, key) {
			return v, true
		}
	}
	return nil, false
}

func (lib *Library) String() string { return lib.Name }
