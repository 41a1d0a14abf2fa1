package godbolt

import (
	"context"
	"time"

	"github.com/matzehuels/godbolt/pkg/models"
	"github.com/matzehuels/godbolt/pkg/observability"
	"github.com/matzehuels/godbolt/pkg/transport"
)

// Execute compiles and runs req.Source and returns the normalized result.
//
// Resolution failures are returned before any network call. Transport
// failures come back as [errors.TransportError] and a non-object response
// body as [errors.DecodingError]. A program that compiles but exits with a
// non-zero code is not an error; inspect [models.ExecutionResult.ExitCode].
//
// [errors.TransportError]: github.com/matzehuels/godbolt/pkg/errors.TransportError
// [errors.DecodingError]: github.com/matzehuels/godbolt/pkg/errors.DecodingError
func (c *Client) Execute(ctx context.Context, req ExecuteRequest) (*models.ExecutionResult, error) {
	lang, body, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}

	hooks := observability.Client()
	hooks.OnExecuteStart(ctx, lang.ID, body.Compiler)
	start := time.Now()

	res, err := c.post(ctx, body)

	duration := time.Since(start)
	exitCode := 0
	if res != nil {
		exitCode = res.ExitCode
	}
	hooks.OnExecuteComplete(ctx, lang.ID, body.Compiler, exitCode, duration, err)
	if err != nil {
		c.logger.Debug("execute failed", "language", lang.ID, "compiler", body.Compiler, "error", err)
		return nil, err
	}

	c.logger.Debug("executed",
		"language", lang.ID,
		"compiler", body.Compiler,
		"exit_code", res.ExitCode,
		"duration", duration)
	return res, nil
}

func (c *Client) post(ctx context.Context, body *CompileRequest) (*models.ExecutionResult, error) {
	raw, err := c.transport.Post(ctx, transport.Path("compiler", body.Compiler, "compile"), body)
	if err != nil {
		return nil, err
	}
	return models.ExecutionResultFromRecord(raw)
}
