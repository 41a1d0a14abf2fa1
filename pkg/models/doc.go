// Package models defines the records exposed by the Compiler Explorer API.
//
// # Entities
//
//   - [Language]: a source language, owning its compilers and libraries
//   - [Compiler]: a compiler for one language
//   - [Library] and [LibraryVersion]: linkable third-party libraries
//   - [ExecutionResult]: the normalized outcome of a compile+run request
//
// # Decoding
//
// Each entity has a FromRecord constructor taking the raw JSON of one API
// record, plus a FromRecords variant for the list endpoints:
//
//	langs, err := models.LanguagesFromRecords(body)
//	var decErr *errors.DecodingError
//	if stderrors.As(err, &decErr) {
//	    fmt.Println(decErr.Entity, decErr.Field)
//	}
//
// Required fields that are absent or of the wrong type fail with
// [errors.DecodingError]. Optional fields decode to "" or nil (empty slices
// for list fields). Decoding performs no I/O and is deterministic, so
// tests can run directly against literal JSON fixtures.
//
// # Lookups
//
// [Language.FindCompiler], [Language.FindLibrary] and [Library.FindVersion]
// resolve user-supplied names case-insensitively and report absence with a
// boolean rather than an error.
//
// [errors.DecodingError]: github.com/matzehuels/godbolt/pkg/errors.DecodingError
package models
