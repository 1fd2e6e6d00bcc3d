package assist

// Style selects how Expand elaborates text.
type Style string

const (
	StyleDetailed Style = "detailed"
	StyleFormal   Style = "formal"
	StyleCasual   Style = "casual"
)

// bullet prefixes each line in bulleted output.
const bullet = "• "

// StyleRule is the fixed rule set behind a Style.
type StyleRule struct {
	Prefix  string
	Suffix  string
	Bullets bool
}

var styleRules = map[Style]StyleRule{
	StyleDetailed: {Prefix: "다음은 자세한 내용입니다:\n\n", Bullets: true},
	StyleFormal:   {Suffix: "\n\n위 내용을 참고하시기 바랍니다."},
	StyleCasual:   {Suffix: "\n\n이렇게 정리해봤어요!"},
}

// LookupStyle returns the rule for style, or the detailed rule when the
// style is unknown.
func LookupStyle(style Style) StyleRule {
	if rule, ok := styleRules[style]; ok {
		return rule
	}
	return styleRules[StyleDetailed]
}

// Styles lists the known expansion style names.
func Styles() []string {
	return []string{string(StyleDetailed), string(StyleFormal), string(StyleCasual)}
}
