// Package markup parses the lightweight inline markup used in memo bodies
// (**bold**, *italic*, ~~strikethrough~~, `code`) into styled segments.
package markup

import (
	"regexp"
	"sort"
	"strings"
)

// Tag identifies the style applied to a segment.
type Tag string

const (
	TagBold          Tag = "bold"
	TagItalic        Tag = "italic"
	TagStrikethrough Tag = "strikethrough"
	TagCode          Tag = "code"
)

// Segment is one run of text with its style tags.
// Plain text has no tags.
type Segment struct {
	Text string `json:"text"`
	Tags []Tag  `json:"tags"`
}

// Has reports whether the segment carries tag.
func (s Segment) Has(tag Tag) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsPlain reports whether the segment has no style.
func (s Segment) IsPlain() bool {
	return len(s.Tags) == 0
}

// pattern pairs a delimiter regex with the tag it produces.
// Order matters: it is the tie-break when two matches start at the same offset.
type pattern struct {
	re  *regexp.Regexp
	tag Tag
}

var patterns = []pattern{
	{regexp.MustCompile(`\*\*(.+?)\*\*`), TagBold},
	{regexp.MustCompile(`\*(.+?)\*`), TagItalic},
	{regexp.MustCompile(`~~(.+?)~~`), TagStrikethrough},
	{regexp.MustCompile("`(.+?)`"), TagCode},
}

// span is a recognized markup occurrence. start and end are byte offsets of
// the delimiters in the original input; text is the inner capture.
type span struct {
	start int
	end   int
	text  string
	tag   Tag
}

// Render converts input into an ordered list of segments.
// It never fails: input without markup comes back as a single plain segment,
// and empty input yields no segments.
func Render(input string) []Segment {
	if input == "" {
		return nil
	}

	accepted := resolve(scan(input))
	if len(accepted) == 0 {
		return []Segment{{Text: input}}
	}

	segments := make([]Segment, 0, 2*len(accepted)+1)
	cursor := 0
	for _, s := range accepted {
		if s.start > cursor {
			segments = append(segments, Segment{Text: input[cursor:s.start]})
		}
		segments = append(segments, Segment{Text: s.text, Tags: []Tag{s.tag}})
		cursor = s.end
	}
	if cursor < len(input) {
		segments = append(segments, Segment{Text: input[cursor:]})
	}

	return segments
}

// scan collects every candidate span. Each pattern scans the whole input on
// its own; matches of one pattern never overlap each other but may overlap
// matches of another pattern.
func scan(input string) []span {
	var candidates []span
	for _, p := range patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(input, -1) {
			candidates = append(candidates, span{
				start: m[0],
				end:   m[1],
				text:  input[m[2]:m[3]],
				tag:   p.tag,
			})
		}
	}
	return candidates
}

// resolve drops overlapping candidates. The earliest start wins; equal starts
// keep pattern order because candidates were appended in that order and the
// sort is stable.
func resolve(candidates []span) []span {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].start < candidates[j].start
	})

	var accepted []span
	lastEnd := 0
	for _, c := range candidates {
		if c.start >= lastEnd {
			accepted = append(accepted, c)
			lastEnd = c.end
		}
	}
	return accepted
}

// PlainText concatenates the text of all segments, dropping styles.
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Strip removes markup delimiters from input.
func Strip(input string) string {
	return PlainText(Render(input))
}
