// Package intent classifies an incoming message into one of the bot's
// supported actions by matching marker tokens at the start of the text.
package intent

import (
	"strings"
	"unicode"
)

// Intent identifies what the user asked the bot to produce.
type Intent int

const (
	// PlainAnswer means the message is a free-form question answered inline.
	PlainAnswer Intent = iota
	// DocumentParagraph means the user asked for a report-style .docx file.
	DocumentParagraph
	// DocumentSlides means the user asked for a .pptx slide deck.
	DocumentSlides
)

// String returns a short label used in logs and the usage table.
func (i Intent) String() string {
	switch i {
	case DocumentParagraph:
		return "report"
	case DocumentSlides:
		return "slides"
	default:
		return "answer"
	}
}

// Marker tokens recognized at the start of a message. Report markers are
// checked before slide markers; first match wins.
var (
	reportMarkers = []string{"реферат", "доклад", "эссе", "essay", "report"}
	slideMarkers  = []string{"презентация", "слайды", "presentation", "slides"}
)

// Classify inspects the message text and returns the intent together with
// the topic: for document intents the topic is the trimmed remainder after
// the marker, for PlainAnswer it is the full text. Classification is
// case-insensitive and never fails; an empty remainder after a marker is
// passed through unchanged.
func Classify(text string) (Intent, string) {
	if topic, ok := matchMarker(text, reportMarkers); ok {
		return DocumentParagraph, topic
	}
	if topic, ok := matchMarker(text, slideMarkers); ok {
		return DocumentSlides, topic
	}
	return PlainAnswer, text
}

// matchMarker reports whether text starts with one of the markers followed
// by a separator (colon or whitespace), and returns the trimmed remainder.
func matchMarker(text string, markers []string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	for _, marker := range markers {
		if !strings.HasPrefix(lower, marker) {
			continue
		}
		rest := trimmed[len(marker):]
		if rest == "" {
			// Bare marker with nothing after it is a plain question
			// ("доклад" on its own is not a document request).
			continue
		}
		r := []rune(rest)[0]
		if r != ':' && !unicode.IsSpace(r) {
			continue
		}
		topic := strings.TrimSpace(strings.TrimLeft(rest, ": \t\n"))
		return topic, true
	}
	return "", false
}
