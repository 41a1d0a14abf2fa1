// Package pkg holds the libraries of the godbolt Go client.
//
// # Overview
//
// The client talks to the Compiler Explorer REST API (https://godbolt.org/api).
// It discovers languages, compilers and libraries once, keeps them in an
// in-memory registry, and turns user-supplied names into compile+execute
// requests. The pkg directory is organized into four areas:
//
//  1. [godbolt] - The client facade (discovery, resolution, execution)
//  2. [models] and [registry] - Decoded API records and the language index
//  3. [transport] and [cache] - HTTP access and response caching
//  4. [config], [errors], [observability] - Ambient support
//
// # Architecture
//
// The data flow of a typical session:
//
//	GET /languages, /compilers/{lang}, /libraries/{lang}
//	         ↓
//	    [transport] package (headers, request ids, cached GETs)
//	         ↓
//	    [models] package (record decoding)
//	         ↓
//	    [registry] package (ordered language index)
//	         ↓
//	    [godbolt] package (resolve + POST /compiler/{id}/compile)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/godbolt/pkg/godbolt"
//	)
//
//	client := godbolt.New(godbolt.WithConcurrency(4))
//	defer client.Close()
//
//	// 1. Discover what the instance offers
//	if err := client.Init(context.Background()); err != nil {
//	    return err
//	}
//
//	// 2. Compile and run
//	res, err := client.Execute(context.Background(), godbolt.ExecuteRequest{
//	    Language: "python",
//	    Source:   "print('hello')",
//	})
//
// # Main Packages
//
// [godbolt] - The [godbolt.Client]. Owns the transport, the response cache
// and the registry. Safe for concurrent use once initialized.
//
// [models] - Language, Compiler, Library and ExecutionResult, decoded from
// raw API records with typed decoding errors.
//
// [registry] - Insertion-ordered language collection with id and name
// lookups and restartable iteration.
//
// [transport] - JSON over HTTP with forced Accept header, versioned
// User-Agent, X-Request-ID correlation and optional GET caching.
//
// [cache] - Cache interface with null, memory, file, Redis and MongoDB
// backends.
//
// [config] - TOML file and GODBOLT_* environment configuration.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook registry for discovery, execute, cache and HTTP
// events, with a Prometheus implementation in observability/prommetrics.
//
// [godbolttest] - A fake API server for tests.
//
// [godbolt]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/godbolt
// [godbolt.Client]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/godbolt#Client
// [models]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/models
// [registry]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/registry
// [transport]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/transport
// [cache]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/observability
// [godbolttest]: https://pkg.go.dev/github.com/matzehuels/godbolt/pkg/godbolttest
package pkg
