package ops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/hpungsan/jot/internal/assist"
	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
)

// ApplyMode controls what happens to a stored memo after an assist call.
type ApplyMode string

const (
	ApplyNone    ApplyMode = "none"    // return the text only
	ApplyReplace ApplyMode = "replace" // title: set title; others: replace content
	ApplyAppend  ApplyMode = "append"  // append to content (not for title)
)

// SummaryDivider separates appended summaries from the memo body.
const SummaryDivider = "\n\n---\n요약:\n"

// insufficientMessages are shown when input is too short for an operation.
var insufficientMessages = map[assist.Operation]string{
	assist.OpTitle:     "제목을 생성할 수 없습니다. 내용을 더 입력해주세요.",
	assist.OpSummarize: "요약하려면 내용이 더 필요합니다 (최소 50자).",
	assist.OpExpand:    "내용을 확장할 수 없습니다.",
	assist.OpGrammar:   "맞춤법을 교정할 수 없습니다. 내용을 더 입력해주세요.",
}

const emptyContentMessage = "내용을 먼저 입력해주세요."

// AssistInput contains parameters for the Assist operation.
// Exactly one of Content or MemoID must be set.
type AssistInput struct {
	Operation string // title, summarize, expand, grammar
	Content   string
	MemoID    string
	Style     string    // expand only; default: detailed
	Apply     ApplyMode // default: none; requires MemoID otherwise
}

// AssistOutput contains the result of the Assist operation.
type AssistOutput struct {
	Operation    string `json:"operation"`
	Text         string `json:"text,omitempty"`
	Source       string `json:"source,omitempty"`
	Insufficient bool   `json:"insufficient"`
	MinChars     int    `json:"min_chars,omitempty"`
	Message      string `json:"message,omitempty"`
	MemoID       string `json:"memo_id,omitempty"`
	Applied      bool   `json:"applied"`
}

// Assist runs one text helper over raw text or a stored memo's content.
// Input that is too short is reported through Insufficient, not as an error.
func Assist(ctx context.Context, database *sql.DB, cfg *config.Config, t assist.Transformer, input AssistInput) (*AssistOutput, error) {
	op, err := assist.ParseOperation(input.Operation)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	apply := input.Apply
	if apply == "" {
		apply = ApplyNone
	}
	switch apply {
	case ApplyNone, ApplyReplace, ApplyAppend:
	default:
		return nil, errors.NewInvalidRequest("apply must be one of: none, replace, append")
	}

	memoID := strings.TrimSpace(input.MemoID)
	hasContent := input.Content != ""
	if hasContent && memoID != "" {
		return nil, errors.NewInvalidRequest("specify either content or memo_id, not both")
	}
	if apply != ApplyNone && memoID == "" {
		return nil, errors.NewInvalidRequest("apply requires memo_id")
	}
	if apply == ApplyAppend && op == assist.OpTitle {
		return nil, errors.NewInvalidRequest("apply=append is not supported for title")
	}

	content := input.Content
	if memoID != "" {
		m, err := db.GetByID(ctx, database, memoID, false)
		if err != nil {
			return nil, err
		}
		content = m.Content
	}

	output := &AssistOutput{
		Operation: string(op),
		MemoID:    memoID,
	}

	if strings.TrimSpace(content) == "" {
		output.Insufficient = true
		output.MinChars = assist.MinChars(op)
		output.Message = emptyContentMessage
		return output, nil
	}

	res, err := assist.Run(ctx, t, op, content, assist.Style(input.Style))
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewCancelled("assist")
		}
		return nil, errors.NewAssistUnavailable(err)
	}
	if res == nil {
		output.Insufficient = true
		output.MinChars = assist.MinChars(op)
		output.Message = insufficientMessages[op]
		return output, nil
	}

	output.Text = res.Text
	output.Source = string(res.Source)

	if apply == ApplyNone {
		return output, nil
	}

	if err := applyResult(ctx, database, cfg, memoID, op, apply, res.Text); err != nil {
		return nil, err
	}
	output.Applied = true
	return output, nil
}

// applyResult writes an assist result back to the memo.
func applyResult(ctx context.Context, database *sql.DB, cfg *config.Config, memoID string, op assist.Operation, apply ApplyMode, text string) error {
	var in UpdateInput
	in.ID = memoID

	switch {
	case op == assist.OpTitle:
		in.Title = &text
	case apply == ApplyReplace:
		in.Content = &text
	default:
		m, err := db.GetByID(ctx, database, memoID, false)
		if err != nil {
			return err
		}
		sep := "\n\n"
		if op == assist.OpSummarize {
			sep = SummaryDivider
		}
		content := m.Content + sep + text
		in.Content = &content
	}

	_, err := Update(ctx, database, cfg, in)
	return err
}
