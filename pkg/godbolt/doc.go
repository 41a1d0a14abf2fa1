// Package godbolt is a client for the Compiler Explorer API
// (https://godbolt.org).
//
// A [Client] discovers the languages, compilers and libraries offered by an
// instance once, keeps them in memory, and resolves user-supplied names to
// compiler ids before sending execute requests:
//
//	client := godbolt.New()
//	defer client.Close()
//
//	if err := client.Init(ctx); err != nil {
//	    return err
//	}
//	res, err := client.Execute(ctx, godbolt.ExecuteRequest{
//	    Language: "c++",
//	    Source:   "#include <cstdio>\nint main() { puts(\"hi\"); }",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.StdoutText())
//
// # Lifecycle
//
// A client starts [StateUninitialized]. [Client.Init] moves it through
// [StateDiscovering] to [StateReady]. Lookups and executions before that
// fail with [errors.NotInitializedError] without touching the network.
// Calling Init again refreshes the metadata; the previous registry keeps
// serving lookups until the new one is complete.
//
// # Resolution
//
// Execute requests name a language and optionally a compiler:
//
//   - neither: the configured default language and its default compiler
//   - language only: that language's default compiler
//   - both: the compiler is looked up by id, name or alias
//   - compiler only: rejected with [errors.AmbiguousRequestError]
//
// When the API does not report a default compiler for a language the first
// discovered compiler is used.
//
// [errors.NotInitializedError]: github.com/matzehuels/godbolt/pkg/errors.NotInitializedError
// [errors.AmbiguousRequestError]: github.com/matzehuels/godbolt/pkg/errors.AmbiguousRequestError
package godbolt
