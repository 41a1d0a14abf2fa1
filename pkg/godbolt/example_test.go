package godbolt_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/godbolt/pkg/godbolt"
	"github.com/matzehuels/godbolt/pkg/godbolttest"
)

func ExampleClient_Execute() {
	srv := godbolttest.Start()
	defer srv.Close()

	client := godbolt.New(
		godbolt.WithBaseURL(srv.BaseURL()),
		godbolt.WithLogger(log.New(io.Discard)),
	)
	defer client.Close()

	ctx := context.Background()
	if err := client.Init(ctx); err != nil {
		fmt.Println(err)
		return
	}

	res, err := client.Execute(ctx, godbolt.ExecuteRequest{
		Language: "python",
		Source:   "print('a')\nprint('b')",
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.ExitCode)
	fmt.Println(res.StdoutText())
	// Output:
	// 0
	// a
	// b
}

func ExampleClient_Resolve() {
	srv := godbolttest.Start()
	defer srv.Close()

	client := godbolt.New(
		godbolt.WithBaseURL(srv.BaseURL()),
		godbolt.WithLogger(log.New(io.Discard)),
	)
	defer client.Close()

	if err := client.Init(context.Background()); err != nil {
		fmt.Println(err)
		return
	}

	// Compiler names are matched ignoring case.
	lang, comp, _ := client.Resolve("c++", "X86-64 GCC 10.2")
	fmt.Println(lang.ID, comp.ID)

	// Without a compiler the language default is used.
	_, comp, _ = client.Resolve("c++", "")
	fmt.Println(comp.ID)

	// A compiler alone is ambiguous.
	_, _, err := client.Resolve("", "g132")
	fmt.Println(err)
	// Output:
	// c++ g102
	// g132
	// compiler "g132" given without a language
}

func ExampleClient_BuildRequest() {
	srv := godbolttest.Start()
	defer srv.Close()

	client := godbolt.New(
		godbolt.WithBaseURL(srv.BaseURL()),
		godbolt.WithLogger(log.New(io.Discard)),
	)
	defer client.Close()

	if err := client.Init(context.Background()); err != nil {
		fmt.Println(err)
		return
	}

	body, err := client.BuildRequest(godbolt.ExecuteRequest{
		Language:  "c++",
		Source:    "int main() {}",
		Libraries: []godbolt.LibraryRef{{ID: "fmt", Version: "10.0.0"}},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(body.Compiler, body.Libraries[0].ID, body.Libraries[0].Version)
	// Output:
	// g132 fmt 1000
}
