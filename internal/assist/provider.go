package assist

import (
	"context"
	"fmt"
	"time"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/logger"
)

// New selects a Transformer from configuration. The openai provider
// without an API key falls back to Local with a warning.
func New(cfg config.AssistConfig, log *logger.Logger) (Transformer, error) {
	if log == nil {
		log = logger.Discard()
	}

	switch cfg.Provider {
	case "", config.ProviderLocal:
		return Local{}, nil
	case config.ProviderOpenAI:
		key := cfg.APIKey()
		if key == "" {
			log.ConfigWarning("assist provider openai has no API key; using local heuristics",
				"api_key_env", cfg.APIKeyEnv)
			return Local{}, nil
		}
		return NewRemote(RemoteConfig{
			APIKey:            key,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Timeout:           cfg.Timeout(),
			RequestsPerMinute: cfg.RequestsPerMinute,
		}, log), nil
	}
	return nil, fmt.Errorf("unknown assist provider %q (want local or openai)", cfg.Provider)
}

// Recorder receives one observation per completed operation.
type Recorder interface {
	ObserveAssist(operation, source string, d time.Duration)
}

// Observed reports every call on the wrapped Transformer to a Recorder.
// Insufficient input is reported with source "insufficient" and errors
// with source "error".
type Observed struct {
	Next     Transformer
	Recorder Recorder
}

var _ Transformer = Observed{}

func (o Observed) observe(op Operation, start time.Time, res *Result, err error) (*Result, error) {
	source := "insufficient"
	switch {
	case err != nil:
		source = "error"
	case res != nil:
		source = string(res.Source)
	}
	o.Recorder.ObserveAssist(string(op), source, time.Since(start))
	return res, err
}

func (o Observed) GenerateTitle(ctx context.Context, content string) (*Result, error) {
	start := time.Now()
	res, err := o.Next.GenerateTitle(ctx, content)
	return o.observe(OpTitle, start, res, err)
}

func (o Observed) Summarize(ctx context.Context, content string) (*Result, error) {
	start := time.Now()
	res, err := o.Next.Summarize(ctx, content)
	return o.observe(OpSummarize, start, res, err)
}

func (o Observed) Expand(ctx context.Context, content string, style Style) (*Result, error) {
	start := time.Now()
	res, err := o.Next.Expand(ctx, content, style)
	return o.observe(OpExpand, start, res, err)
}

func (o Observed) CorrectGrammar(ctx context.Context, content string) (*Result, error) {
	start := time.Now()
	res, err := o.Next.CorrectGrammar(ctx, content)
	return o.observe(OpGrammar, start, res, err)
}
