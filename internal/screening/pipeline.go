package screening

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/ai"
	"github.com/fwc-ai/hr-agent/internal/interview"
)

const (
	// DefaultCutoff is the similarity threshold for shortlisting.
	DefaultCutoff = 0.5

	StatusShortlisted    = "Shortlisted"
	StatusNotShortlisted = "Not Shortlisted"
)

// Resume is one uploaded file awaiting screening.
type Resume struct {
	Filename string
	Data     []byte
}

// Result is the screening outcome for one resume.
type Result struct {
	Filename      string  `json:"filename"`
	CandidateName string  `json:"candidate_name"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Score         float64 `json:"score"`
	Status        string  `json:"status"`
	Notified      bool    `json:"notified,omitempty"`
	Error         string  `json:"error,omitempty"`

	text      string
	embedding []float32
}

// Batch carries the whole screening run through the stages.
type Batch struct {
	JobDescription string
	Cutoff         float64
	SendMails      bool

	Results     []Result
	jdEmbedding []float32
}

// Stage is one step of the screening pipeline.
type Stage interface {
	Name() string
	Apply(ctx context.Context, batch *Batch) error
}

// Notifier delivers a shortlist notification to a candidate.
type Notifier interface {
	NotifyShortlisted(ctx context.Context, email, candidateName string) error
}

// Pipeline screens resumes against a job description.
type Pipeline struct {
	embedder ai.Embedder
	notifier Notifier
	logger   *zap.Logger
}

// NewPipeline builds a screening pipeline. The notifier may be nil, in which
// case notification requests are skipped.
func NewPipeline(embedder ai.Embedder, notifier Notifier, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{embedder: embedder, notifier: notifier, logger: logger}
}

// Run screens the resumes and returns them ranked by similarity, best first.
func (p *Pipeline) Run(ctx context.Context, jd string, cutoff float64, sendMails bool, resumes []Resume) (*Batch, error) {
	if strings.TrimSpace(jd) == "" {
		return nil, fmt.Errorf("job description is required")
	}
	if len(resumes) == 0 {
		return nil, fmt.Errorf("no resumes to screen")
	}
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}

	batch := &Batch{
		JobDescription: jd,
		Cutoff:         cutoff,
		SendMails:      sendMails,
	}
	for _, r := range resumes {
		res := Result{Filename: r.Filename}
		text, err := ExtractText(r.Filename, r.Data)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.text = text
		}
		batch.Results = append(batch.Results, res)
	}

	stages := []Stage{
		&contactStage{},
		&embedStage{embedder: p.embedder},
		&rankStage{},
		&notifyStage{notifier: p.notifier},
	}

	for _, stage := range stages {
		p.logger.Debug("running screening stage", zap.String("stage", stage.Name()))
		if err := stage.Apply(ctx, batch); err != nil {
			return nil, fmt.Errorf("screening stage %q: %w", stage.Name(), err)
		}
	}

	return batch, nil
}

// contactStage pulls candidate identity out of each resume text.
type contactStage struct{}

func (s *contactStage) Name() string { return "contact" }

func (s *contactStage) Apply(_ context.Context, batch *Batch) error {
	for i := range batch.Results {
		res := &batch.Results[i]
		if res.text == "" {
			continue
		}
		res.CandidateName = interview.ExtractCandidateName(res.text)
		res.Email = ExtractEmail(res.text)
		res.Phone = ExtractPhone(res.text)
	}
	return nil
}

// embedStage embeds the job description and every readable resume in one call.
type embedStage struct {
	embedder ai.Embedder
}

func (s *embedStage) Name() string { return "embed" }

func (s *embedStage) Apply(ctx context.Context, batch *Batch) error {
	texts := []string{batch.JobDescription}
	indexes := make([]int, 0, len(batch.Results))
	for i := range batch.Results {
		if batch.Results[i].text == "" {
			continue
		}
		texts = append(texts, batch.Results[i].text)
		indexes = append(indexes, i)
	}
	if len(indexes) == 0 {
		return fmt.Errorf("no readable resumes in batch")
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding texts: %w", err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(texts))
	}

	batch.jdEmbedding = embeddings[0]
	for pos, i := range indexes {
		batch.Results[i].embedding = embeddings[pos+1]
	}
	return nil
}

// rankStage scores each resume against the job description and sorts the
// batch best first.
type rankStage struct{}

func (s *rankStage) Name() string { return "rank" }

func (s *rankStage) Apply(_ context.Context, batch *Batch) error {
	for i := range batch.Results {
		res := &batch.Results[i]
		if res.embedding == nil {
			res.Status = StatusNotShortlisted
			continue
		}
		res.Score = CosineSimilarity(batch.jdEmbedding, res.embedding)
		if res.Score >= batch.Cutoff {
			res.Status = StatusShortlisted
		} else {
			res.Status = StatusNotShortlisted
		}
	}

	sort.SliceStable(batch.Results, func(i, j int) bool {
		return batch.Results[i].Score > batch.Results[j].Score
	})
	return nil
}

// notifyStage emails shortlisted candidates when requested. Delivery failures
// mark the result but never fail the batch.
type notifyStage struct {
	notifier Notifier
}

func (s *notifyStage) Name() string { return "notify" }

func (s *notifyStage) Apply(ctx context.Context, batch *Batch) error {
	if !batch.SendMails || s.notifier == nil {
		return nil
	}

	for i := range batch.Results {
		res := &batch.Results[i]
		if res.Status != StatusShortlisted || res.Email == "" {
			continue
		}
		if err := s.notifier.NotifyShortlisted(ctx, res.Email, res.CandidateName); err != nil {
			res.Error = fmt.Sprintf("notification failed: %v", err)
			continue
		}
		res.Notified = true
	}
	return nil
}
