package model

// Verdict categories and the UI themes they map to.
const (
	VerdictSafe    = "SAFE"
	VerdictCaution = "CAUTION"
	VerdictAvoid   = "AVOID"

	ThemeGreen  = "green"
	ThemeYellow = "yellow"
	ThemeRed    = "red"
)

// Verdict is the canonical analysis result. Every response to a judge
// request has exactly this shape, including the parse-failure fallback —
// there is no second "error" shape for a completed analysis.
type Verdict struct {
	Verdict                string   `json:"verdict"`
	ShortReason            string   `json:"short_reason"`
	DetailedReason         string   `json:"detailed_reason"`
	UITheme                string   `json:"ui_theme"`
	HighlightedIngredients []string `json:"highlighted_ingredients"`
	UncertaintyNote        string   `json:"uncertainty_note"`
}

// KnownVerdict reports whether v is one of the three verdict categories.
func KnownVerdict(v string) bool {
	return v == VerdictSafe || v == VerdictCaution || v == VerdictAvoid
}

// KnownTheme reports whether t is one of the three UI themes.
func KnownTheme(t string) bool {
	return t == ThemeGreen || t == ThemeYellow || t == ThemeRed
}

// JudgeRequest is the input to a verdict analysis. At least one of
// Ingredients or ImageURL must be present; both may be. ImageURL is either
// a data URL (base64 inline image) or a fetchable http(s) URL.
// UserProfile, when non-empty, replaces the stored persona before the
// analysis runs.
type JudgeRequest struct {
	Ingredients string `json:"ingredients"`
	ImageURL    string `json:"image_url"`
	UserProfile string `json:"userProfile"`
}

// ChatTurn is one message of a follow-up conversation. Role is "system",
// "user" or "assistant". History is supplied by the caller on every
// request; the server keeps no conversation state.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the input to a follow-up chat call. Context is the text
// of the verdict being discussed.
type ChatRequest struct {
	Message     string     `json:"message"`
	Context     string     `json:"context"`
	UserProfile string     `json:"userProfile"`
	History     []ChatTurn `json:"history"`
}
