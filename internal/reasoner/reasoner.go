// Package reasoner defines the interface to the external reasoning
// service — the multimodal language-model API that performs the actual
// analysis. Concrete adapters live in subpackages (openai); everything
// above this interface is provider-agnostic.
package reasoner

import "context"

// Message roles understood by every provider adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Part is one piece of message content: either text or an image
// reference. ImageURL may be a data URL or a fetchable http(s) URL.
// Exactly one of Text/ImageURL is set.
type Part struct {
	Text     string
	ImageURL string
}

// TextPart returns a text content part.
func TextPart(text string) Part { return Part{Text: text} }

// ImagePart returns an image content part.
func ImagePart(url string) Part { return Part{ImageURL: url} }

// Message is one conversation turn. Most turns carry a single text part;
// the verdict request additionally attaches an image part when the caller
// submitted one.
type Message struct {
	Role  string
	Parts []Part
}

// Text is a convenience constructor for a single-part text message.
func Text(role, text string) Message {
	return Message{Role: role, Parts: []Part{TextPart(text)}}
}

// Request is a single completion call.
type Request struct {
	Messages []Message
	// ForceJSON asks the provider to constrain its output to a single
	// JSON object. Providers that cannot are free to ignore it; the
	// caller must handle non-JSON output regardless.
	ForceJSON bool
}

// Reasoner performs one synchronous completion round trip and returns the
// model's raw text reply. A transport or provider failure is returned as
// an error; malformed reply content is not this layer's concern.
type Reasoner interface {
	Complete(ctx context.Context, req Request) (string, error)
}
