package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nayeem/foodjudge/internal/apperror"
	"github.com/nayeem/foodjudge/internal/model"
	"github.com/nayeem/foodjudge/internal/reasoner"
	"github.com/nayeem/foodjudge/internal/repository"
)

// defaultPersona stands in when a user has no stored health profile.
const defaultPersona = "a consumer looking for healthy choices"

// Fixed texts of the parse-failure fallback verdict. Exported so the
// handler tests can assert the exact fallback object.
const (
	FallbackShortReason     = "The AI answered in a free-form style; showing its full response below."
	FallbackUncertaintyNote = "The response could not be parsed into the standard verdict format, so the raw answer is shown instead."
)

// judgePrompt is the instruction block sent ahead of the product input.
// It embeds the user's health context and pins the output to the verdict
// JSON schema with no prose wrapper.
const judgePrompt = `You are an AI-Native Nutrition Co-pilot.
User Health Context: %s.
Analyze the following input and provide human-level insight.

Return ONLY JSON in this exact format:
{
  "verdict": "SAFE" | "CAUTION" | "AVOID",
  "short_reason": "",
  "detailed_reason": "",
  "ui_theme": "green" | "yellow" | "red",
  "highlighted_ingredients": [],
  "uncertainty_note": "Mention if the image is blurry or ingredients are unclear"
}`

// chatPrompt is the system turn for follow-up conversations about a
// verdict the user already received.
const chatPrompt = `You are an AI Nutrition Co-pilot.

CONTEXT OF CURRENT PRODUCT:
"%s"

USER HEALTH PROFILE:
"%s"

Your Goal: Answer the user's follow-up questions about this product.
- Be brief and conversational.
- If they ask for alternatives, suggest specific healthy swaps.
- If they ask "Why?", explain the science simply.
- Keep answers under 3 sentences unless asked for more detail.`

// JudgeService is the verdict synthesizer: it resolves the caller's
// health profile, builds the analysis prompt, runs one round trip to the
// reasoning service, and normalizes whatever comes back into the
// canonical verdict shape.
type JudgeService struct {
	users  repository.UserRepository
	ai     reasoner.Reasoner
	logger *slog.Logger
}

// NewJudgeService creates a JudgeService with all dependencies injected.
func NewJudgeService(users repository.UserRepository, ai reasoner.Reasoner, logger *slog.Logger) *JudgeService {
	return &JudgeService{
		users:  users,
		ai:     ai,
		logger: logger,
	}
}

// GetPersona returns the stored health profile for email, or "" when no
// record exists. It never creates a record.
func (s *JudgeService) GetPersona(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("service/judge: fetching persona for %s: %w", email, err)
	}
	return user.Persona, nil
}

// resolveProfile runs at the start of every judge/chat call. It makes
// sure a record exists for the authenticated email (the identity arrived
// via a verified session, so creating on first sight is safe), persists a
// newly supplied profile, and returns the profile now in effect.
func (s *JudgeService) resolveProfile(ctx context.Context, email, supplied string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return "", fmt.Errorf("service/judge: fetching user %s: %w", email, err)
		}

		// First analysis from an identifier we have never stored:
		// create the record now, with whatever profile was supplied.
		created := &model.User{Email: email, Persona: supplied}
		if err := s.users.Create(ctx, created); err != nil {
			return "", fmt.Errorf("service/judge: creating user %s: %w", email, err)
		}
		return supplied, nil
	}

	if supplied != "" && supplied != user.Persona {
		if err := s.users.UpdatePersona(ctx, email, supplied); err != nil {
			return "", fmt.Errorf("service/judge: updating persona for %s: %w", email, err)
		}
		return supplied, nil
	}
	if supplied != "" {
		return supplied, nil
	}

	return user.Persona, nil
}

// Judge produces a verdict for the submitted product.
//
// The reasoning service is called exactly once. A transport failure is a
// terminal error for the request; a reply that cannot be parsed into the
// verdict schema is not — it degrades to the fixed fallback verdict with
// the raw reply preserved in detailed_reason, so the response shape holds
// on every path.
func (s *JudgeService) Judge(ctx context.Context, email string, req model.JudgeRequest) (*model.Verdict, error) {
	ingredients := strings.TrimSpace(req.Ingredients)
	if ingredients == "" && req.ImageURL == "" {
		return nil, apperror.ValidationFailed("ingredients", "Ingredients or an image is required")
	}

	persona, err := s.resolveProfile(ctx, email, req.UserProfile)
	if err != nil {
		return nil, err
	}
	if persona == "" {
		persona = defaultPersona
	}

	// One multimodal user turn: the instruction block, then the product
	// input. Text and image both go in when both were submitted.
	parts := []reasoner.Part{
		reasoner.TextPart(fmt.Sprintf(judgePrompt, persona)),
	}
	if ingredients != "" {
		parts = append(parts, reasoner.TextPart("Ingredients list: "+ingredients))
	}
	if req.ImageURL != "" {
		parts = append(parts, reasoner.ImagePart(req.ImageURL))
	}

	reply, err := s.ai.Complete(ctx, reasoner.Request{
		Messages:  []reasoner.Message{{Role: reasoner.RoleUser, Parts: parts}},
		ForceJSON: true,
	})
	if err != nil {
		s.logger.Error("reasoning service call failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream(err)
	}

	verdict, ok := parseVerdict(reply)
	if !ok {
		s.logger.Warn("unparseable verdict reply, using fallback",
			slog.String("email", email),
			slog.Int("replyLength", len(reply)),
		)
		return fallbackVerdict(reply), nil
	}

	return verdict, nil
}

// Chat continues a follow-up conversation about an earlier verdict. The
// caller supplies the full history each time; the reply is the model's
// raw text, with no JSON contract.
func (s *JudgeService) Chat(ctx context.Context, email string, req model.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", apperror.ValidationFailed("message", "Message is required")
	}

	persona, err := s.resolveProfile(ctx, email, req.UserProfile)
	if err != nil {
		return "", err
	}

	messages := make([]reasoner.Message, 0, len(req.History)+2)
	messages = append(messages, reasoner.Text(reasoner.RoleSystem,
		fmt.Sprintf(chatPrompt, req.Context, persona)))
	for _, turn := range req.History {
		messages = append(messages, reasoner.Text(turn.Role, turn.Content))
	}
	messages = append(messages, reasoner.Text(reasoner.RoleUser, req.Message))

	reply, err := s.ai.Complete(ctx, reasoner.Request{Messages: messages})
	if err != nil {
		s.logger.Error("chat call failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return "", apperror.Upstream(err)
	}

	return reply, nil
}

// parseVerdict normalizes a raw model reply into the verdict schema.
// ok is false when the reply is not a JSON object, is missing required
// fields, or carries out-of-enum verdict/ui_theme values — all of which
// send the caller down the fallback path.
func parseVerdict(raw string) (*model.Verdict, bool) {
	text := strings.TrimSpace(raw)

	// Models occasionally wrap the object in a markdown code fence even
	// when told not to.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var v model.Verdict
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}

	if !model.KnownVerdict(v.Verdict) || !model.KnownTheme(v.UITheme) {
		return nil, false
	}
	if v.ShortReason == "" {
		return nil, false
	}

	if v.HighlightedIngredients == nil {
		v.HighlightedIngredients = []string{}
	}

	return &v, true
}

// fallbackVerdict is the fixed, schema-valid result substituted when the
// reply cannot be parsed. The raw reply is kept in detailed_reason so
// nothing the model said is silently discarded.
func fallbackVerdict(raw string) *model.Verdict {
	return &model.Verdict{
		Verdict:                model.VerdictCaution,
		ShortReason:            FallbackShortReason,
		DetailedReason:         raw,
		UITheme:                model.ThemeYellow,
		HighlightedIngredients: []string{},
		UncertaintyNote:        FallbackUncertaintyNote,
	}
}
