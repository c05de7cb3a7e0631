package tools

import "strings"

// ContentKindText is the only content kind tools produce.
const ContentKindText = "text"

// ContentItem is one piece of tool output.
type ContentItem struct {
	Kind string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the result every tool returns, on success and on failure alike.
type Envelope struct {
	Content []ContentItem `json:"content"`
}

// TextEnvelope wraps text in a single-item Envelope.
func TextEnvelope(text string) Envelope {
	return Envelope{Content: []ContentItem{{Kind: ContentKindText, Text: text}}}
}

// Text joins the text of all items with newlines.
func (e Envelope) Text() string {
	parts := make([]string, 0, len(e.Content))
	for _, item := range e.Content {
		parts = append(parts, item.Text)
	}
	return strings.Join(parts, "\n")
}
