package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"soulsprint/internal/model"
	"soulsprint/internal/service"

	"github.com/gorilla/mux"
)

// SessionHandler handles questionnaire, chat and task endpoints
type SessionHandler struct {
	engine  *service.EngineService
	authSvc *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(engine *service.EngineService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{engine: engine, authSvc: authSvc}
}

type answerRequest struct {
	Value *int `json:"value"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type resetRequest struct {
	ClearTranscript bool `json:"clearTranscript"`
}

// Questionnaire handles GET /v1/questionnaire
func (h *SessionHandler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": model.Questions,
		"options":   model.AnswerOptions,
	})
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	st, err := h.engine.StartSession(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	token, err := h.authSvc.GenerateSessionToken(st.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	writeJSON(w, http.StatusCreated, model.StartSessionResponse{
		SessionID: st.ID,
		Token:     token,
		Status:    st.Status,
	})
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.engine.GetSession(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.View())
}

// End handles DELETE /v1/sessions/{sessionId}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.EndSession(r.Context(), mux.Vars(r)["sessionId"]); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitAnswer handles POST /v1/sessions/{sessionId}/answers
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	progress, err := h.engine.SubmitAnswer(r.Context(), mux.Vars(r)["sessionId"], *req.Value)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// GetAssessment handles GET /v1/sessions/{sessionId}/assessment
func (h *SessionHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.engine.GetAssessment(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Reset handles POST /v1/sessions/{sessionId}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.engine.ResetAssessment(r.Context(), mux.Vars(r)["sessionId"], req.ClearTranscript)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.View())
}

// SendMessage handles POST /v1/sessions/{sessionId}/chat
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.engine.SendChatMessage(r.Context(), mux.Vars(r)["sessionId"], req.Message)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Transcript handles GET /v1/sessions/{sessionId}/chat
func (h *SessionHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.engine.GetTranscript(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transcript": transcript})
}

// Tasks handles GET /v1/sessions/{sessionId}/tasks
func (h *SessionHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.GetRecommendedTasks(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CompleteTask handles POST /v1/sessions/{sessionId}/tasks/{taskId}/complete
func (h *SessionHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, err := h.engine.CompleteTask(r.Context(), vars["sessionId"], model.TaskID(vars["taskId"]))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Progress handles GET /v1/sessions/{sessionId}/progress
func (h *SessionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.GetProgress(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
