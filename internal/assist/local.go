package assist

import "context"

// Local runs the heuristics in-process. It never returns an error.
type Local struct{}

var _ Transformer = Local{}

func localResult(text string, ok bool) *Result {
	if !ok {
		return nil
	}
	return &Result{Text: text, Source: SourceLocal}
}

func (Local) GenerateTitle(_ context.Context, content string) (*Result, error) {
	return localResult(GenerateTitle(content)), nil
}

func (Local) Summarize(_ context.Context, content string) (*Result, error) {
	return localResult(Summarize(content)), nil
}

func (Local) Expand(_ context.Context, content string, style Style) (*Result, error) {
	return localResult(Expand(content, style)), nil
}

func (Local) CorrectGrammar(_ context.Context, content string) (*Result, error) {
	return localResult(CorrectGrammar(content)), nil
}
