package ops

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hpungsan/jot/internal/assist"
	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/errors"
)

// failingTransformer returns err from every call.
type failingTransformer struct{ err error }

func (f failingTransformer) GenerateTitle(context.Context, string) (*assist.Result, error) {
	return nil, f.err
}
func (f failingTransformer) Summarize(context.Context, string) (*assist.Result, error) {
	return nil, f.err
}
func (f failingTransformer) Expand(context.Context, string, assist.Style) (*assist.Result, error) {
	return nil, f.err
}
func (f failingTransformer) CorrectGrammar(context.Context, string) (*assist.Result, error) {
	return nil, f.err
}

const longContent = "오늘 회의에서 다음 분기 계획을 논의했다. 핵심은 배포 주기를 줄이는 것이다. " +
	"테스트 자동화도 함께 진행한다. 따라서 다음 주까지 초안을 만든다."

func TestAssist_RawContent(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()

	out, err := Assist(ctx, database, cfg, assist.Local{}, AssistInput{
		Operation: "title",
		Content:   "회의 메모\n다음 주 일정 정리",
	})
	if err != nil {
		t.Fatalf("Assist failed: %v", err)
	}
	if out.Text != "회의 메모" || out.Source != "local" || out.Insufficient {
		t.Errorf("out = %+v", out)
	}

	out, err = Assist(ctx, database, cfg, assist.Local{}, AssistInput{Operation: "grammar", Content: "안녕hello"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "안녕 hello" {
		t.Errorf("grammar = %q", out.Text)
	}
}

func TestAssist_Insufficient(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()

	out, err := Assist(ctx, database, cfg, assist.Local{}, AssistInput{Operation: "summarize", Content: "짧은 글"})
	if err != nil {
		t.Fatalf("Assist failed: %v", err)
	}
	if !out.Insufficient || out.MinChars != assist.MinSummaryChars {
		t.Errorf("out = %+v, want insufficient with min %d", out, assist.MinSummaryChars)
	}
	if out.Message != insufficientMessages[assist.OpSummarize] || out.Text != "" {
		t.Errorf("Message = %q, Text = %q", out.Message, out.Text)
	}

	out, err = Assist(ctx, database, cfg, assist.Local{}, AssistInput{Operation: "title", Content: "   "})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Insufficient || out.Message != emptyContentMessage {
		t.Errorf("blank content out = %+v", out)
	}
}

func TestAssist_Validation(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()
	id := mustCreate(t, database, CreateInput{Title: "t", Content: "본문입니다"})

	tests := []struct {
		name  string
		input AssistInput
		code  errors.ErrorCode
	}{
		{"unknown op", AssistInput{Operation: "translate", Content: "abcdef"}, errors.ErrInvalidRequest},
		{"bad apply", AssistInput{Operation: "title", MemoID: id, Apply: "merge"}, errors.ErrInvalidRequest},
		{"both sources", AssistInput{Operation: "title", Content: "abcdef", MemoID: id}, errors.ErrInvalidRequest},
		{"apply without memo", AssistInput{Operation: "title", Content: "abcdef", Apply: ApplyReplace}, errors.ErrInvalidRequest},
		{"append title", AssistInput{Operation: "title", MemoID: id, Apply: ApplyAppend}, errors.ErrInvalidRequest},
		{"missing memo", AssistInput{Operation: "title", MemoID: "missing"}, errors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assist(ctx, database, cfg, assist.Local{}, tt.input)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestAssist_ApplyTitle(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()
	id := mustCreate(t, database, CreateInput{Title: "임시", Content: "주간 보고\n이번 주 작업 내역"})

	out, err := Assist(ctx, database, cfg, assist.Local{}, AssistInput{Operation: "title", MemoID: id, Apply: ApplyReplace})
	if err != nil {
		t.Fatalf("Assist failed: %v", err)
	}
	if !out.Applied || out.MemoID != id {
		t.Errorf("out = %+v", out)
	}

	got, err := Fetch(ctx, database, FetchInput{ID: id})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "주간 보고" {
		t.Errorf("Title = %q, want 주간 보고", got.Title)
	}
}

func TestAssist_ApplyAppendSummary(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()
	id := mustCreate(t, database, CreateInput{Title: "회의", Content: longContent})

	out, err := Assist(ctx, database, cfg, assist.Local{}, AssistInput{Operation: "summarize", MemoID: id, Apply: ApplyAppend})
	if err != nil {
		t.Fatalf("Assist failed: %v", err)
	}
	if out.Insufficient || out.Text == "" || !out.Applied {
		t.Fatalf("out = %+v", out)
	}

	got, err := Fetch(ctx, database, FetchInput{ID: id})
	if err != nil {
		t.Fatal(err)
	}
	want := longContent + SummaryDivider + out.Text
	if got.Content != want {
		t.Errorf("Content = %q, want %q", got.Content, want)
	}
}

func TestAssist_ApplyReplaceGrammar(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()
	id := mustCreate(t, database, CreateInput{Title: "t", Content: "Go언어   공부 ."})

	if _, err := Assist(ctx, database, cfg, assist.Local{}, AssistInput{Operation: "grammar", MemoID: id, Apply: ApplyReplace}); err != nil {
		t.Fatalf("Assist failed: %v", err)
	}

	got, err := Fetch(ctx, database, FetchInput{ID: id})
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "Go 언어 공부." {
		t.Errorf("Content = %q", got.Content)
	}
}

func TestAssist_TransformerErrors(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()

	_, err := Assist(ctx, database, cfg, failingTransformer{err: fmt.Errorf("boom")}, AssistInput{Operation: "title", Content: "충분히 긴 내용"})
	if !errors.Is(err, errors.ErrAssistUnavailable) {
		t.Errorf("err = %v, want ASSIST_UNAVAILABLE", err)
	}

	_, err = Assist(ctx, database, cfg, failingTransformer{err: fmt.Errorf("wrapped: %w", context.Canceled)}, AssistInput{Operation: "title", Content: "충분히 긴 내용"})
	if !errors.Is(err, errors.ErrCancelled) {
		t.Errorf("err = %v, want CANCELLED", err)
	}
}

func TestAssist_ExpandStyle(t *testing.T) {
	database := openTestDB(t)
	cfg := config.DefaultConfig()

	out, err := Assist(context.Background(), database, cfg, assist.Local{}, AssistInput{
		Operation: "expand",
		Content:   "첫 번째 항목입니다\n두 번째 항목입니다",
		Style:     "formal",
	})
	if err != nil {
		t.Fatalf("Assist failed: %v", err)
	}
	if !strings.HasSuffix(out.Text, "위 내용을 참고하시기 바랍니다.") {
		t.Errorf("formal expand = %q", out.Text)
	}

	// Unknown styles fall back to detailed bullets
	out, err = Assist(context.Background(), database, cfg, assist.Local{}, AssistInput{
		Operation: "expand",
		Content:   "첫 번째 항목입니다\n두 번째 항목입니다",
		Style:     "poetic",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Text, "• 첫 번째 항목입니다\n• 두 번째 항목입니다") {
		t.Errorf("fallback expand = %q", out.Text)
	}
}
