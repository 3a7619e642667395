package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/chatbot"
	"github.com/fwc-ai/hr-agent/internal/docstore"
	"github.com/fwc-ai/hr-agent/internal/interview"
	"github.com/fwc-ai/hr-agent/internal/screening"
)

type stubGenerator struct {
	output string
	err    error
}

func (s *stubGenerator) GenerateContent(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubHistory struct {
	records []docstore.InterviewRecord
	stats   docstore.Stats
	err     error
}

func (s *stubHistory) InterviewHistory(context.Context, string, int64) ([]docstore.InterviewRecord, error) {
	return s.records, s.err
}

func (s *stubHistory) InterviewStats(context.Context) (docstore.Stats, error) {
	return s.stats, s.err
}

func testServer(t *testing.T, history HistoryReader) *httptest.Server {
	t.Helper()

	gen := &stubGenerator{err: errors.New("model offline")}
	logger := zap.NewNop()

	service := interview.NewService(interview.ServiceDeps{
		Store:     interview.NewStore(time.Hour),
		Supplier:  interview.NewSupplier(gen, logger),
		Scorer:    interview.NewScorer(gen, logger),
		Evaluator: interview.NewEvaluator(gen, logger),
		Sink:      interview.NewMultiSink(logger),
		Logger:    logger,
	}, 10*time.Minute)

	pipeline := screening.NewPipeline(stubEmbedder{}, nil, logger)
	bot := chatbot.New(&stubGenerator{output: "Hello!"}, nil, logger)

	mux := http.NewServeMux()
	NewServer(service, pipeline, bot, history, logger).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("posting: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp, decoded
}

func TestLivenessRoute(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/interview/test")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body["ok"] != true || body["service"] != "interview" {
		t.Errorf("body = %v", body)
	}
}

func TestInterviewLifecycle(t *testing.T) {
	srv := testServer(t, nil)

	resp, start := postJSON(t, srv.URL+"/api/interview/start", map[string]any{
		"candidate_name": "Jane Doe",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	sessionID, _ := start["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("start body = %v", start)
	}
	questions, _ := start["questions"].([]any)
	if len(questions) != interview.QuestionCount {
		t.Fatalf("questions = %d", len(questions))
	}

	resp, next := postJSON(t, srv.URL+"/api/interview/next", map[string]any{"session_id": sessionID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("next status = %d", resp.StatusCode)
	}
	if next["done"] != false || next["question"] == "" {
		t.Errorf("next body = %v", next)
	}

	resp, answer := postJSON(t, srv.URL+"/api/interview/answer", map[string]any{
		"session_id": sessionID,
		"answer":     "I have shipped several Go services.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer status = %d", resp.StatusCode)
	}
	if answer["scores"] == nil {
		t.Errorf("answer body = %v", answer)
	}

	resp, finish := postJSON(t, srv.URL+"/api/interview/finish", map[string]any{"session_id": sessionID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("finish status = %d", resp.StatusCode)
	}
	if finish["recommendation"] != string(interview.RecommendMaybe) {
		t.Errorf("recommendation = %v", finish["recommendation"])
	}
}

func TestUnknownSessionIsBadRequest(t *testing.T) {
	srv := testServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/api/interview/next", map[string]any{"session_id": "missing"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["ok"] != false || body["error"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/interview/history")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestHistoryAndStats(t *testing.T) {
	history := &stubHistory{
		records: []docstore.InterviewRecord{{SessionID: "sess_1", CandidateName: "Jane Doe"}},
		stats:   docstore.Stats{Total: 4, Hires: 1, HireRate: 0.25},
	}
	srv := testServer(t, history)

	resp, err := http.Get(srv.URL + "/api/interview/history?limit=10")
	if err != nil {
		t.Fatalf("GET history: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if body["count"] != float64(1) {
		t.Errorf("history body = %v", body)
	}

	resp, err = http.Get(srv.URL + "/api/interview/stats")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	stats, _ := body["stats"].(map[string]any)
	if stats["total_interviews"] != float64(4) {
		t.Errorf("stats body = %v", body)
	}
}

func TestScreenEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("jd", "Backend engineer wanted"); err != nil {
		t.Fatalf("writing jd: %v", err)
	}
	part, err := form.CreateFormFile("resumes", "resume.txt")
	if err != nil {
		t.Fatalf("creating file part: %v", err)
	}
	if _, err := part.Write([]byte("Jane Doe\njane@corp.io\nGo developer")); err != nil {
		t.Fatalf("writing file part: %v", err)
	}
	form.Close()

	resp, err := http.Post(srv.URL+"/api/screen", form.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}
	results, _ := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results = %d", len(results))
	}
	first, _ := results[0].(map[string]any)
	if first["status"] != screening.StatusShortlisted {
		t.Errorf("result = %v", first)
	}
}

func TestScreenRequiresJobDescription(t *testing.T) {
	srv := testServer(t, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.Close()

	resp, err := http.Post(srv.URL+"/api/screen", form.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestChatEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	resp, body := postJSON(t, srv.URL+"/api/chat", map[string]any{"message": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["reply"] != "Hello!" {
		t.Errorf("body = %v", body)
	}

	resp, _ = postJSON(t, srv.URL+"/api/chat", map[string]any{"message": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank message status = %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/interview/start")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/chat", strings.NewReader(""))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("chat status = %d", resp.StatusCode)
	}
}
