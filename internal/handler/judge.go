package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nayeem/foodjudge/internal/auth"
	"github.com/nayeem/foodjudge/internal/model"
	"github.com/nayeem/foodjudge/internal/service"
)

// JudgeHandler serves the protected analysis endpoints. All of its routes
// sit behind auth.RequireAuth, so a verified email is always on the
// request context.
type JudgeHandler struct {
	judge  *service.JudgeService
	logger *slog.Logger
}

// NewJudgeHandler creates a JudgeHandler.
func NewJudgeHandler(judge *service.JudgeService, logger *slog.Logger) *JudgeHandler {
	return &JudgeHandler{judge: judge, logger: logger}
}

// HandleContext returns the caller's stored health profile.
//
// HTTP: GET /judge/context → 200 {persona}
// A user with no record gets an empty persona; no record is created.
func (h *JudgeHandler) HandleContext(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	persona, err := h.judge.GetPersona(r.Context(), email)
	if err != nil {
		h.logger.Error("fetching persona failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch context",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"persona": persona})
}

// HandleJudge analyzes a product and returns the verdict.
//
// HTTP: POST /judge  {ingredients?, image_url?, userProfile?}
// 200 with the six-field verdict (the parse-failure fallback included);
// 400 when neither ingredients nor image is present; 500 when the
// reasoning service is unreachable.
func (h *JudgeHandler) HandleJudge(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req model.JudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid judge body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	verdict, err := h.judge.Judge(r.Context(), email, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

// HandleChat continues a follow-up conversation about a verdict.
//
// HTTP: POST /judge/chat  {message, context, userProfile, history[]}
// 200 {reply}; 500 when the reasoning service is unreachable.
func (h *JudgeHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid chat body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	reply, err := h.judge.Chat(r.Context(), email, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
