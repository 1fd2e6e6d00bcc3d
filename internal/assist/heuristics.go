package assist

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Minimum trimmed input length, in characters, for each operation.
// Below these the operation reports insufficient input.
const (
	MinTitleChars   = 5
	MinSummaryChars = 50
	MinExpandChars  = 10
	MinGrammarChars = 5
)

const (
	ellipsis         = "..."
	titleLineMax     = 30
	titleSentenceMax = 40
	titleCutChars    = 30
	summaryCutChars  = 100
	summarySentences = 3
)

// Summary scoring weights.
const (
	scoreFirst     = 3
	scoreLast      = 2
	scoreKeyword   = 2
	scoreLength    = 1
	lengthFloorExc = 20
	lengthCeilExc  = 100
)

// summaryKeywords mark sentences worth keeping: important, core, conclusion,
// summary, therefore, result, goal, plan.
var summaryKeywords = []string{"중요", "핵심", "결론", "요약", "따라서", "결과", "목표", "계획"}

var (
	// titleSentenceRe allows a trailing fragment without terminal punctuation.
	titleSentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)
	// summarySentenceRe requires terminal punctuation.
	summarySentenceRe = regexp.MustCompile(`[^.!?]+[.!?]`)
	newlinesRe        = regexp.MustCompile(`\n+`)
)

// wsClass mirrors the JavaScript \s class, which is wider than RE2's.
const wsClass = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// grammarRules run in order over the whole text.
var grammarRules = []rewrite{
	{regexp.MustCompile(`([가-힣])([A-Za-z])`), "${1} ${2}"},
	{regexp.MustCompile(`([A-Za-z])([가-힣])`), "${1} ${2}"},
	{regexp.MustCompile(wsClass + `+`), " "},
	{regexp.MustCompile(wsClass + `+([.!?,])`), "${1}"},
	{regexp.MustCompile(`([.!?])([가-힣A-Za-z])`), "${1} ${2}"},
}

// charCount counts characters (runes) in s.
func charCount(s string) int {
	return utf8.RuneCountInString(s)
}

// firstChars returns at most n leading characters of s.
func firstChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// sufficient reports whether content clears the minimum length.
func sufficient(content string, min int) bool {
	return charCount(strings.TrimSpace(content)) >= min
}

// nonBlankLines splits on newlines and drops whitespace-only lines.
func nonBlankLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// GenerateTitle proposes a title for content. ok is false when the content
// is too short to title.
func GenerateTitle(content string) (title string, ok bool) {
	if !sufficient(content, MinTitleChars) {
		return "", false
	}

	lines := nonBlankLines(content)
	if len(lines) == 0 {
		return "", false
	}

	firstLine := strings.TrimSpace(lines[0])
	if charCount(firstLine) <= titleLineMax {
		return firstLine, true
	}

	sentence := titleSentenceRe.FindString(content)
	if sentence == "" {
		return firstChars(strings.TrimSpace(content), titleCutChars) + ellipsis, true
	}

	sentence = strings.TrimSpace(sentence)
	if charCount(sentence) <= titleSentenceMax {
		return trimTerminal(sentence), true
	}
	return firstChars(sentence, titleCutChars) + ellipsis, true
}

// trimTerminal strips one trailing terminal punctuation mark.
func trimTerminal(s string) string {
	if n := len(s); n > 0 && strings.ContainsRune(".!?", rune(s[n-1])) {
		return s[:n-1]
	}
	return s
}

// scoredSentence is a summary candidate.
type scoredSentence struct {
	text  string
	index int
	score int
}

// Summarize extracts up to three key sentences from content, in document
// order. ok is false when the content is too short to summarize.
func Summarize(content string) (summary string, ok bool) {
	if !sufficient(content, MinSummaryChars) {
		return "", false
	}

	sentences := summarySentenceRe.FindAllString(newlinesRe.ReplaceAllString(content, " "), -1)
	if len(sentences) == 0 {
		return firstChars(content, summaryCutChars) + ellipsis, true
	}

	scored := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		scored[i] = scoredSentence{
			text:  strings.TrimSpace(s),
			index: i,
			score: scoreSentence(s, i, len(sentences)),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > summarySentences {
		scored = scored[:summarySentences]
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].index < scored[j].index
	})

	parts := make([]string, len(scored))
	for i, s := range scored {
		parts[i] = s.text
	}
	return strings.Join(parts, " "), true
}

// scoreSentence rates one sentence by position, keywords and length.
func scoreSentence(sentence string, index, total int) int {
	score := 0
	if index == 0 {
		score += scoreFirst
	}
	if index == total-1 {
		score += scoreLast
	}
	for _, kw := range summaryKeywords {
		if strings.Contains(sentence, kw) {
			score += scoreKeyword
		}
	}
	if n := charCount(strings.TrimSpace(sentence)); n > lengthFloorExc && n < lengthCeilExc {
		score += scoreLength
	}
	return score
}

// Expand elaborates content in the given style. Unknown styles fall back to
// StyleDetailed. ok is false when the content is too short to expand.
func Expand(content string, style Style) (expanded string, ok bool) {
	if !sufficient(content, MinExpandChars) {
		return "", false
	}

	rule := LookupStyle(style)
	lines := nonBlankLines(content)

	var b strings.Builder
	b.WriteString(rule.Prefix)
	if rule.Bullets && len(lines) > 1 {
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(bullet + strings.TrimSpace(line))
		}
	} else {
		b.WriteString(content)
	}
	b.WriteString(rule.Suffix)

	return b.String(), true
}

// CorrectGrammar normalizes spacing around script boundaries and
// punctuation. ok is false when the content is too short to correct.
func CorrectGrammar(content string) (corrected string, ok bool) {
	if !sufficient(content, MinGrammarChars) {
		return "", false
	}

	corrected = content
	for _, r := range grammarRules {
		corrected = r.re.ReplaceAllString(corrected, r.repl)
	}
	return strings.TrimSpace(corrected), true
}
