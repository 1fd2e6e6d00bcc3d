// Package assist provides the memo writing helpers: title generation,
// summarization, expansion and grammar normalization.
//
// Every helper is available as a pure local heuristic and through the
// Transformer interface, which also has a remote variant backed by an
// OpenAI-compatible API that degrades to the local heuristic on failure.
package assist

import (
	"context"
	"fmt"
	"strings"
)

// Operation names a text helper.
type Operation string

const (
	OpTitle     Operation = "title"
	OpSummarize Operation = "summarize"
	OpExpand    Operation = "expand"
	OpGrammar   Operation = "grammar"
)

// Operations lists every helper in a stable order.
var Operations = []Operation{OpTitle, OpSummarize, OpExpand, OpGrammar}

// ParseOperation validates an operation name.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Operations {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q (want one of: title, summarize, expand, grammar)", s)
}

// MinChars returns the minimum trimmed input length for op.
func MinChars(op Operation) int {
	switch op {
	case OpTitle:
		return MinTitleChars
	case OpSummarize:
		return MinSummaryChars
	case OpExpand:
		return MinExpandChars
	case OpGrammar:
		return MinGrammarChars
	}
	return 0
}

// Sufficient reports whether content is long enough for op.
func Sufficient(op Operation, content string) bool {
	return sufficient(content, MinChars(op))
}

// Source tells where a result came from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Result is the output of a Transformer call.
type Result struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Transformer is the text helper capability.
//
// A nil Result with a nil error means the input was too short for the
// operation. That is a normal outcome, not a failure.
type Transformer interface {
	GenerateTitle(ctx context.Context, content string) (*Result, error)
	Summarize(ctx context.Context, content string) (*Result, error)
	Expand(ctx context.Context, content string, style Style) (*Result, error)
	CorrectGrammar(ctx context.Context, content string) (*Result, error)
}

// Run dispatches op to t. style is used only by OpExpand.
func Run(ctx context.Context, t Transformer, op Operation, content string, style Style) (*Result, error) {
	switch op {
	case OpTitle:
		return t.GenerateTitle(ctx, content)
	case OpSummarize:
		return t.Summarize(ctx, content)
	case OpExpand:
		return t.Expand(ctx, content, style)
	case OpGrammar:
		return t.CorrectGrammar(ctx, content)
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

// Features lists the helpers this package provides.
func Features() []string {
	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = string(op)
	}
	return names
}
