package extract

import (
	"regexp"
	"strings"
)

// Segment is one candidate order item within a message, with its span in
// the original text for diagnostics.
type Segment struct {
	Text  string
	Start int
	End   int
}

// Separators are commas and the standalone word "and". This is a lexical
// split, not a grammar parse; catalog aliases are forbidden from containing
// the word "and" so the split cannot cut through a product name.
var separatorRe = regexp.MustCompile(`(?i),|\band\b`)

// Split divides a message into independent order-intent segments. Empty
// fragments are discarded and each segment is trimmed, with spans adjusted
// to the trimmed text. A message with no separators yields one segment;
// a blank message yields none.
func Split(message string) []Segment {
	var segments []Segment
	prev := 0
	emit := func(start, end int) {
		text := message[start:end]
		lead := len(text) - len(strings.TrimLeft(text, " \t\r\n"))
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		segments = append(segments, Segment{
			Text:  text,
			Start: start + lead,
			End:   start + lead + len(text),
		})
	}
	for _, loc := range separatorRe.FindAllStringIndex(message, -1) {
		emit(prev, loc[0])
		prev = loc[1]
	}
	emit(prev, len(message))
	return segments
}
