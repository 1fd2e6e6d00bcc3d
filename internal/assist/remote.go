package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/hpungsan/jot/internal/logger"
)

// Remote request parameters
const (
	remoteTitleMaxTokens = 50
	remoteTextMaxTokens  = 1024
	remoteTemperature    = 0.3
	defaultRemoteTimeout = 15 * time.Second
	defaultRemoteModel   = openai.GPT4oMini
)

const (
	titlePrompt   = "주어진 내용을 바탕으로 짧고 명확한 제목을 한국어로 생성해주세요. 제목만 출력하세요."
	summaryPrompt = "주어진 내용의 핵심을 세 문장 이내로 요약해주세요. 요약만 출력하세요."
	grammarPrompt = "주어진 내용의 맞춤법과 띄어쓰기를 교정해주세요. 교정된 내용만 출력하세요."
)

var expandPrompts = map[Style]string{
	StyleDetailed: "주어진 내용을 자세하게 풀어서 확장해주세요. 결과만 출력하세요.",
	StyleFormal:   "주어진 내용을 격식 있는 문체로 확장해주세요. 결과만 출력하세요.",
	StyleCasual:   "주어진 내용을 친근한 말투로 확장해주세요. 결과만 출력하세요.",
}

var errEmptyCompletion = errors.New("empty completion")

// RemoteConfig holds configuration for the remote transformer.
type RemoteConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Remote calls an OpenAI-compatible chat completion API and degrades to
// the local heuristic when the call fails.
type Remote struct {
	client   *openai.Client
	model    string
	timeout  time.Duration
	limiter  *rate.Limiter
	fallback Local
	log      *logger.Logger
}

var _ Transformer = (*Remote)(nil)

// NewRemote creates a remote transformer. A nil logger discards output.
func NewRemote(cfg RemoteConfig, log *logger.Logger) *Remote {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultRemoteModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Remote{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

func (r *Remote) GenerateTitle(ctx context.Context, content string) (*Result, error) {
	if !Sufficient(OpTitle, content) {
		return nil, nil
	}
	text, err := r.complete(ctx, OpTitle, titlePrompt, content, remoteTitleMaxTokens)
	if err != nil {
		return r.degrade(OpTitle, err, func() (*Result, error) {
			return r.fallback.GenerateTitle(ctx, content)
		})
	}
	// Titles are single-line.
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return &Result{Text: strings.Trim(text, `"'`), Source: SourceRemote}, nil
}

func (r *Remote) Summarize(ctx context.Context, content string) (*Result, error) {
	if !Sufficient(OpSummarize, content) {
		return nil, nil
	}
	text, err := r.complete(ctx, OpSummarize, summaryPrompt, content, remoteTextMaxTokens)
	if err != nil {
		return r.degrade(OpSummarize, err, func() (*Result, error) {
			return r.fallback.Summarize(ctx, content)
		})
	}
	return &Result{Text: text, Source: SourceRemote}, nil
}

func (r *Remote) Expand(ctx context.Context, content string, style Style) (*Result, error) {
	if !Sufficient(OpExpand, content) {
		return nil, nil
	}
	prompt, ok := expandPrompts[style]
	if !ok {
		prompt = expandPrompts[StyleDetailed]
	}
	text, err := r.complete(ctx, OpExpand, prompt, content, remoteTextMaxTokens)
	if err != nil {
		return r.degrade(OpExpand, err, func() (*Result, error) {
			return r.fallback.Expand(ctx, content, style)
		})
	}
	return &Result{Text: text, Source: SourceRemote}, nil
}

func (r *Remote) CorrectGrammar(ctx context.Context, content string) (*Result, error) {
	if !Sufficient(OpGrammar, content) {
		return nil, nil
	}
	text, err := r.complete(ctx, OpGrammar, grammarPrompt, content, remoteTextMaxTokens)
	if err != nil {
		return r.degrade(OpGrammar, err, func() (*Result, error) {
			return r.fallback.CorrectGrammar(ctx, content)
		})
	}
	return &Result{Text: text, Source: SourceRemote}, nil
}

// complete sends one chat completion and returns the trimmed reply.
func (r *Remote) complete(ctx context.Context, op Operation, system, content string, maxTokens int) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       r.model,
		MaxTokens:   maxTokens,
		Temperature: remoteTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errEmptyCompletion
	}

	r.log.AssistCompleted(string(op), r.model, time.Since(start))
	return text, nil
}

// degrade logs err and returns the local result marked as a fallback.
// The local heuristics never block, so this applies to cancellation too.
func (r *Remote) degrade(op Operation, err error, local func() (*Result, error)) (*Result, error) {
	r.log.AssistFallback(string(op), r.model, err)

	res, lerr := local()
	if res != nil {
		res.Source = SourceFallback
	}
	return res, lerr
}
