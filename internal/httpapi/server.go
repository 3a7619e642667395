// Package httpapi exposes the interview, screening and chatbot services over
// HTTP.
//
// Routes:
//
//	GET  /api/interview/test      → service liveness probe
//	POST /api/interview/start     → open an interview session
//	POST /api/interview/next      → advance to the next question
//	POST /api/interview/answer    → score an answer to the current question
//	POST /api/interview/finish    → close the session and produce an evaluation
//	GET  /api/interview/history   → stored interviews, newest first
//	GET  /api/interview/stats     → interview counts by recommendation
//	POST /api/screen              → rank uploaded resumes against a job description
//	POST /api/chat                → chatbot reply grounded in the document store
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/chatbot"
	"github.com/fwc-ai/hr-agent/internal/docstore"
	"github.com/fwc-ai/hr-agent/internal/interview"
	"github.com/fwc-ai/hr-agent/internal/screening"
)

// maxScreenUpload caps the in-memory size of one screening request.
const maxScreenUpload = 32 << 20

// HistoryReader serves stored interview records. The document store satisfies
// it, a nil reader disables the history and stats routes.
type HistoryReader interface {
	InterviewHistory(ctx context.Context, email string, limit int64) ([]docstore.InterviewRecord, error)
	InterviewStats(ctx context.Context) (docstore.Stats, error)
}

// Server holds the shared handler dependencies.
type Server struct {
	interviews *interview.Service
	pipeline   *screening.Pipeline
	bot        *chatbot.Bot
	history    HistoryReader
	logger     *zap.Logger
}

// NewServer returns a configured Server. The pipeline, bot and history reader
// may be nil, their routes then report the feature as unavailable.
func NewServer(interviews *interview.Service, pipeline *screening.Pipeline, bot *chatbot.Bot, history HistoryReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		interviews: interviews,
		pipeline:   pipeline,
		bot:        bot,
		history:    history,
		logger:     logger,
	}
}

// RegisterRoutes mounts all routes on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/interview/", s.handleInterviewAction)
	mux.HandleFunc("/api/screen", s.handleScreen)
	mux.HandleFunc("/api/chat", s.handleChat)
}

// handleInterviewAction dispatches /api/interview/{action}.
func (s *Server) handleInterviewAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	action := parts[2]

	switch action {
	case "test", "history", "stats":
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
	default:
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
	}

	switch action {
	case "test":
		jsonOK(w, map[string]any{"ok": true, "service": "interview"})
	case "start":
		s.startInterview(w, r)
	case "next":
		s.nextQuestion(w, r)
	case "answer":
		s.scoreAnswer(w, r)
	case "finish":
		s.finishInterview(w, r)
	case "history":
		s.interviewHistory(w, r)
	case "stats":
		s.interviewStats(w, r)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

func (s *Server) startInterview(w http.ResponseWriter, r *http.Request) {
	var req interview.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := s.interviews.Start(r.Context(), req)
	if err != nil {
		s.logger.Error("starting interview failed", zap.Error(err))
		jsonError(w, "could not start interview", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{
		"ok":             true,
		"session_id":     result.SessionID,
		"candidate_name": result.CandidateName,
		"questions":      result.Questions,
	})
}

func (s *Server) nextQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := s.interviews.Next(r.Context(), req.SessionID)
	if err != nil {
		s.interviewError(w, err)
		return
	}

	jsonOK(w, map[string]any{
		"ok":       true,
		"done":     result.Done,
		"index":    result.Index,
		"question": result.Question,
		"phase":    string(result.Phase),
	})
}

func (s *Server) scoreAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Answer    string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := s.interviews.Answer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		s.interviewError(w, err)
		return
	}

	jsonOK(w, map[string]any{
		"ok":         true,
		"scores":     result.Scores,
		"score_text": result.ScoreText,
	})
}

func (s *Server) finishInterview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	evaluation, err := s.interviews.Finish(r.Context(), req.SessionID)
	if err != nil {
		s.interviewError(w, err)
		return
	}

	jsonOK(w, map[string]any{
		"ok":             true,
		"evaluation":     evaluation,
		"recommendation": string(evaluation.Recommendation),
	})
}

func (s *Server) interviewHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		jsonError(w, "document store not configured", http.StatusServiceUnavailable)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := s.history.InterviewHistory(r.Context(), r.URL.Query().Get("email"), limit)
	if err != nil {
		s.logger.Error("reading interview history failed", zap.Error(err))
		jsonError(w, "could not read interview history", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{"ok": true, "interviews": records, "count": len(records)})
}

func (s *Server) interviewStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		jsonError(w, "document store not configured", http.StatusServiceUnavailable)
		return
	}

	stats, err := s.history.InterviewStats(r.Context())
	if err != nil {
		s.logger.Error("reading interview stats failed", zap.Error(err))
		jsonError(w, "could not read interview stats", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{"ok": true, "stats": stats})
}

// handleScreen handles POST /api/screen. The request is multipart form data
// with a "jd" field, optional "cutoff" and "send_mails" fields, and one or
// more "resumes" file parts.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.pipeline == nil {
		jsonError(w, "screening not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxScreenUpload); err != nil {
		jsonError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	jd := r.FormValue("jd")
	if strings.TrimSpace(jd) == "" {
		jsonError(w, "jd field is required", http.StatusBadRequest)
		return
	}

	cutoff := screening.DefaultCutoff
	if raw := r.FormValue("cutoff"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			jsonError(w, "invalid cutoff", http.StatusBadRequest)
			return
		}
		cutoff = parsed
	}
	sendMails := r.FormValue("send_mails") == "true"

	files := r.MultipartForm.File["resumes"]
	if len(files) == 0 {
		jsonError(w, "at least one resume file is required", http.StatusBadRequest)
		return
	}

	resumes := make([]screening.Resume, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			jsonError(w, fmt.Sprintf("reading upload %q", header.Filename), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			jsonError(w, fmt.Sprintf("reading upload %q", header.Filename), http.StatusBadRequest)
			return
		}
		resumes = append(resumes, screening.Resume{Filename: header.Filename, Data: data})
	}

	batch, err := s.pipeline.Run(r.Context(), jd, cutoff, sendMails, resumes)
	if err != nil {
		s.logger.Error("screening run failed", zap.Error(err))
		jsonError(w, "screening failed", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{
		"success": true,
		"cutoff":  batch.Cutoff,
		"results": batch.Results,
	})
}

// handleChat handles POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.bot == nil {
		jsonError(w, "chatbot not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		jsonError(w, "message field is required", http.StatusBadRequest)
		return
	}

	reply := s.bot.Reply(r.Context(), req.Message)
	jsonOK(w, map[string]any{"ok": true, "reply": reply})
}

// interviewError maps interview service failures to status codes.
func (s *Server) interviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrInvalidSession):
		jsonError(w, "invalid session", http.StatusBadRequest)
	case errors.Is(err, interview.ErrCompleted):
		jsonError(w, "interview already completed", http.StatusConflict)
	case errors.Is(err, interview.ErrEnded):
		jsonError(w, "interview has ended", http.StatusGone)
	default:
		s.logger.Error("interview operation failed", zap.Error(err))
		jsonError(w, "interview operation failed", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": msg})
}
