package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/baxromumarov/resume-screener/internal/ai"
	"github.com/baxromumarov/resume-screener/internal/observability"
	"github.com/baxromumarov/resume-screener/internal/resume"
	"github.com/baxromumarov/resume-screener/internal/urlutil"
)

var (
	ErrNoJobURLs = errors.New("no valid job URLs found")
	ErrNoResumes = errors.New("no resumes provided")
)

const maxTopMatches = 5

// Screener screens one resume against one job URL.
type Screener interface {
	Screen(ctx context.Context, doc resume.Document, jobURL string) Record
}

// RecordSink persists finished records.
type RecordSink interface {
	SaveRecord(ctx context.Context, rec Record) error
}

// BatchRunner screens one resume against many job URLs, one at a time.
type BatchRunner struct {
	screener Screener
	limiter  *rate.Limiter
	sink     RecordSink
	logger   *zap.Logger
}

type BatchOption func(*BatchRunner)

// WithSink saves every record, failed ones included.
func WithSink(sink RecordSink) BatchOption {
	return func(b *BatchRunner) {
		b.sink = sink
	}
}

func WithBatchLogger(l *zap.Logger) BatchOption {
	return func(b *BatchRunner) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBatchRunner pauses interval between consecutive URLs; zero disables the pause.
func NewBatchRunner(s Screener, interval time.Duration, opts ...BatchOption) *BatchRunner {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	b := &BatchRunner{
		screener: s,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Report is the outcome of one batch run.
type Report struct {
	Records []Record
	Summary Summary
}

type Summary struct {
	Total        int          `json:"total"`
	Successful   int          `json:"successful"`
	Failed       int          `json:"failed"`
	AverageScore float64      `json:"average_score"`
	TopMatches   []TopMatch   `json:"top_matches"`
	Candidate    ai.Candidate `json:"candidate"`
	ResumeFile   string       `json:"resume_file"`
}

type TopMatch struct {
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	Score          int    `json:"score"`
	Recommendation string `json:"recommendation"`
	JobURL         string `json:"job_url"`
}

// Run screens doc against every URL in order. A cancelled context stops the
// run and returns the records finished so far together with ctx.Err().
func (b *BatchRunner) Run(ctx context.Context, doc resume.Document, urls []string) (Report, error) {
	if len(urls) == 0 {
		return Report{}, ErrNoJobURLs
	}
	var (
		records []Record
		runErr  error
	)
	for i, u := range urls {
		if err := b.limiter.Wait(ctx); err != nil {
			runErr = err
			break
		}
		b.logger.Info("processing job", zap.Int("index", i+1), zap.Int("total", len(urls)), zap.String("url", u))
		rec := b.screener.Screen(ctx, doc, u)
		if b.sink != nil {
			if err := b.sink.SaveRecord(ctx, rec); err != nil {
				observability.IncError(observability.ErrorStore, "batch")
				b.logger.Warn("saving record failed", zap.String("url", u), zap.Error(err))
			}
		}
		records = append(records, rec)
	}
	return Report{Records: records, Summary: Summarize(records, doc.Name)}, runErr
}

// RunMatrix screens every resume against every URL, resume by resume, and
// returns one Report per resume. The pause between URLs also applies across
// resumes. On cancellation the reports finished so far are returned, the
// last one possibly partial.
func (b *BatchRunner) RunMatrix(ctx context.Context, docs []resume.Document, urls []string) ([]Report, error) {
	if len(docs) == 0 {
		return nil, ErrNoResumes
	}
	if len(urls) == 0 {
		return nil, ErrNoJobURLs
	}
	reports := make([]Report, 0, len(docs))
	for i, doc := range docs {
		b.logger.Info("screening resume", zap.Int("index", i+1), zap.Int("total", len(docs)), zap.String("resume", doc.Name))
		report, err := b.Run(ctx, doc, urls)
		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// AllRecords flattens reports in order.
func AllRecords(reports []Report) []Record {
	var out []Record
	for _, r := range reports {
		out = append(out, r.Records...)
	}
	return out
}

// Summarize aggregates records. The candidate comes from the first
// successful record.
func Summarize(records []Record, resumeFile string) Summary {
	s := Summary{Total: len(records), ResumeFile: resumeFile, TopMatches: []TopMatch{}}
	var scoreSum int
	for _, r := range records {
		if !r.Succeeded() {
			s.Failed++
			continue
		}
		s.Successful++
		scoreSum += r.FitScore
		if s.Candidate == (ai.Candidate{}) {
			s.Candidate = candidateOf(r)
		}
		if r.Recommendation == "Strong Yes" || r.Recommendation == "Yes" {
			s.TopMatches = append(s.TopMatches, TopMatch{
				JobTitle:       r.JobTitle,
				Company:        r.Company,
				Score:          r.FitScore,
				Recommendation: r.Recommendation,
				JobURL:         r.JobURL,
			})
		}
	}
	if s.Successful > 0 {
		s.AverageScore = math.Round(float64(scoreSum)/float64(s.Successful)*100) / 100
	}
	sort.SliceStable(s.TopMatches, func(i, j int) bool {
		return s.TopMatches[i].Score > s.TopMatches[j].Score
	})
	s.TopMatches = s.TopMatches[:min(len(s.TopMatches), maxTopMatches)]
	return s
}

func candidateOf(r Record) ai.Candidate {
	first, last, _ := strings.Cut(r.CandidateName, " ")
	return ai.Candidate{FirstName: first, LastName: last, Email: r.CandidateEmail}
}

// ReadJobURLs reads job URLs from CSV. The column is the first whose header
// mentions "url" or "link", else the first column. Blank cells are dropped
// and duplicates, compared after normalization, keep their first occurrence.
func ReadJobURLs(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoJobURLs
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := 0
	for i, name := range header {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "url") || strings.Contains(lower, "link") {
			col = i
			break
		}
	}

	var urls []string
	seen := map[string]struct{}{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if col >= len(row) {
			continue
		}
		u := strings.TrimSpace(row[col])
		if u == "" {
			continue
		}
		key := urlutil.Key(u)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w in column %q", ErrNoJobURLs, header[col])
	}
	return urls, nil
}
