package models

import (
	"encoding/json"
	"strings"
)

// OutputLine is one line of program or compiler output.
type OutputLine struct {
	Text string `json:"text"`
}

// ExecutionResult is the normalized outcome of a compile+run request.
//
// Stdout and Stderr keep the order the service reported; they are never
// concatenated. The run fields (code, didExecute, buildResult, execTime,
// stdout, stderr) come from the execResult object when present and from
// the top level of the response otherwise. Raw always holds the response
// body as received.
type ExecutionResult struct {
	// ExitCode is the reported exit code. It is 0 when the response carries
	// no code at all; use HasExitCode to tell that apart from a clean exit.
	ExitCode      int               `json:"exitCode"`
	HasExitCode   bool              `json:"-"`
	DidExecute    *bool             `json:"didExecute,omitempty"`
	BuildResult   json.RawMessage   `json:"buildResult,omitempty"`
	ExecutionTime string            `json:"execTime,omitempty"`
	Stdout        []OutputLine      `json:"stdout"`
	Stderr        []OutputLine      `json:"stderr"`
	AsmSize       *int              `json:"asmSize,omitempty"`
	AsmResult     []json.RawMessage `json:"asmResult,omitempty"`
	Raw           json.RawMessage   `json:"-"`
}

// ExecutionResultFromRecord decodes the body of POST /compiler/{id}/compile.
//
// Only a non-object body is a decoding failure; every field is optional.
func ExecutionResultFromRecord(data []byte) (*ExecutionResult, error) {
	top, err := parseRecord("execution result", data)
	if err != nil {
		return nil, err
	}

	res := &ExecutionResult{Raw: append(json.RawMessage(nil), data...)}
	if res.AsmSize, err = top.optionalInt("asmSize"); err != nil {
		return nil, err
	}
	asmField := "asmResult"
	if _, ok := top.lookup(asmField); !ok {
		asmField = "asm"
	}
	if res.AsmResult, err = top.optionalArray(asmField); err != nil {
		return nil, err
	}

	src := top
	if raw, ok := top.lookup("execResult"); ok {
		if src, err = parseRecord("execution result", raw); err != nil {
			return nil, err
		}
	}

	if res.DidExecute, err = src.optionalBool("didExecute"); err != nil {
		return nil, err
	}
	res.BuildResult = src.optionalRaw("buildResult")
	if res.ExecutionTime, err = src.optionalText("execTime"); err != nil {
		return nil, err
	}
	code, err := src.optionalInt("code")
	if err != nil {
		return nil, err
	}
	if code != nil {
		res.ExitCode = *code
		res.HasExitCode = true
	}
	if res.Stdout, err = outputLines(src, "stdout"); err != nil {
		return nil, err
	}
	if res.Stderr, err = outputLines(src, "stderr"); err != nil {
		return nil, err
	}
	return res, nil
}

func outputLines(rec *record, field string) ([]OutputLine, error) {
	raw, ok := rec.lookup(field)
	if !ok {
		return []OutputLine{}, nil
	}
	var lines []OutputLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, rec.wrongType(field, "array of line records", err)
	}
	if lines == nil {
		lines = []OutputLine{}
	}
	return lines, nil
}

// Executed reports whether the service ran the program.
func (r *ExecutionResult) Executed() bool {
	return r.DidExecute != nil && *r.DidExecute
}

// StdoutText joins the stdout lines with newlines.
func (r *ExecutionResult) StdoutText() string { return joinLines(r.Stdout) }

// StderrText joins the stderr lines with newlines.
func (r *ExecutionResult) StderrText() string { return joinLines(r.Stderr) }

func joinLines(lines []OutputLine) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
