package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/ai"
	"github.com/baxromumarov/resume-screener/internal/content"
	"github.com/baxromumarov/resume-screener/internal/observability"
	"github.com/baxromumarov/resume-screener/internal/resume"
	"github.com/baxromumarov/resume-screener/internal/scraper"
)

// Scraper is the job page reader the pipeline depends on.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) scraper.Result
}

// ScreeningService runs scrape, assessment and candidate extraction for one
// resume and job URL and folds the outcome into a Record.
type ScreeningService struct {
	scraper Scraper
	ai      ai.Client
	logger  *zap.Logger
	now     func() time.Time

	mu         sync.Mutex
	candidates map[[sha256.Size]byte]ai.Candidate
}

func NewScreeningService(s Scraper, client ai.Client, logger *zap.Logger) *ScreeningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreeningService{
		scraper:    s,
		ai:         client,
		logger:     logger,
		now:        time.Now,
		candidates: map[[sha256.Size]byte]ai.Candidate{},
	}
}

// Preview scrapes jobURL without screening.
func (s *ScreeningService) Preview(ctx context.Context, jobURL string) scraper.Result {
	res := s.scraper.Scrape(ctx, jobURL)
	if !res.Success {
		observability.IncError(observability.ClassifyScrapeMessage(res.Error), "scraper")
	}
	return res
}

func (s *ScreeningService) Screen(ctx context.Context, doc resume.Document, jobURL string) Record {
	started := s.now()
	jobURL = strings.TrimSpace(jobURL)
	rec := Record{
		ID:         uuid.NewString(),
		AnalyzedAt: started,
		JobURL:     jobURL,
		ResumeFile: doc.Name,
	}
	log := s.logger.With(zap.String("job_url", jobURL), zap.String("resume", doc.Name))

	if !strings.HasPrefix(jobURL, "http") {
		log.Warn("skipping invalid url")
		return rec.fail(StatusInvalidURL, "URL is empty or invalid")
	}

	res := s.Preview(ctx, jobURL)
	if !res.Success {
		log.Warn("scrape failed", zap.String("error", res.Error))
		return rec.fail(StatusFailedScrape, res.Error)
	}
	log.Info("scraped job", zap.String("title", res.Title), zap.String("company", res.Company),
		zap.Int("description_length", runeCount(res.Description)))

	return s.assess(ctx, log, rec, doc, res, started)
}

// ScreenText screens doc against job description text supplied directly,
// without scraping. The text goes through the same cleaning as scraped
// descriptions.
func (s *ScreeningService) ScreenText(ctx context.Context, doc resume.Document, title, text string) Record {
	started := s.now()
	rec := Record{
		ID:         uuid.NewString(),
		AnalyzedAt: started,
		ResumeFile: doc.Name,
	}
	log := s.logger.With(zap.String("job_title", title), zap.String("resume", doc.Name))

	description := scraper.CleanDescription(text)
	if description == "" {
		log.Warn("skipping empty job description")
		return rec.fail(StatusInvalidJobText, "Job description text is empty")
	}
	res := scraper.Result{Success: true, Title: strings.TrimSpace(title), Description: description}
	return s.assess(ctx, log, rec, doc, res, started)
}

// assess runs the AI steps for a job description that is already known.
func (s *ScreeningService) assess(ctx context.Context, log *zap.Logger, rec Record, doc resume.Document, res scraper.Result, started time.Time) Record {
	observability.IncAICall()
	assessment, err := s.ai.ScreenResume(ctx, doc.Text, res.Description)
	if err != nil {
		observability.IncError(observability.ErrorAI, "screening")
		log.Error("assessment failed", zap.Error(err))
		return rec.fail(StatusProcessingError, fmt.Sprintf("Error in resume screening: %v", err))
	}

	candidate, err := s.candidate(ctx, doc)
	if err != nil {
		observability.IncError(observability.ErrorAI, "screening")
		log.Error("candidate extraction failed", zap.Error(err))
		return rec.fail(StatusProcessingError, fmt.Sprintf("Error extracting candidate info: %v", err))
	}

	fill(&rec, res, assessment, candidate)
	observability.ObserveScreening(s.now().Sub(started).Seconds())
	log.Info("screening complete", zap.Int("score", rec.FitScore), zap.String("recommendation", rec.Recommendation))
	return rec
}

// candidate extracts contact details once per distinct resume text.
func (s *ScreeningService) candidate(ctx context.Context, doc resume.Document) (ai.Candidate, error) {
	key := sha256.Sum256([]byte(doc.Text))
	s.mu.Lock()
	c, ok := s.candidates[key]
	s.mu.Unlock()
	if ok {
		return c, nil
	}

	observability.IncAICall()
	c, err := s.ai.ExtractCandidate(ctx, doc.Text)
	if err != nil {
		return ai.Candidate{}, err
	}
	s.mu.Lock()
	s.candidates[key] = c
	s.mu.Unlock()
	return c, nil
}

func fill(rec *Record, res scraper.Result, a ai.Assessment, c ai.Candidate) {
	meta := content.ExtractMetadata(res.Description)

	rec.JobTitle = orDefault(res.Title, "Unknown")
	rec.Company = orDefault(res.Company, "Unknown")
	rec.Location = meta.Location
	rec.SalaryRange = meta.SalaryRange
	rec.CandidateName = c.FullName()
	rec.CandidateEmail = c.Email
	rec.FitScore = a.OverallFit
	rec.RiskLevel = a.Risk.Score
	rec.RewardLevel = a.Reward.Score
	rec.Recommendation = Recommendation(a.OverallFit)
	rec.Strengths = a.Strengths
	rec.Weaknesses = a.Weaknesses
	rec.MissingSkills = MissingSkills(a.Weaknesses)
	rec.ExperienceMatch = ExperienceMatch(a.Justification)
	rec.RiskExplanation = a.Risk.Explanation
	rec.RewardExplanation = a.Reward.Explanation
	rec.Justification = a.Justification
	rec.DescriptionLength = runeCount(res.Description)
	rec.Status = StatusSuccess
}

func (r Record) fail(status, msg string) Record {
	r.Status = status
	r.Error = msg
	return r
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func runeCount(s string) int {
	return len([]rune(s))
}
