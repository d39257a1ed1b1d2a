package ai

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Client scores a resume against a job description and reads contact details
// out of a resume.
type Client interface {
	ScreenResume(ctx context.Context, resumeText, jobDescription string) (Assessment, error)
	ExtractCandidate(ctx context.Context, resumeText string) (Candidate, error)
}

// Factor is a Low/Medium/High level with its reasoning.
type Factor struct {
	Score       string `json:"score"`
	Explanation string `json:"explanation"`
}

type Assessment struct {
	Strengths     []string `json:"candidate_strengths"`
	Weaknesses    []string `json:"candidate_weaknesses"`
	Risk          Factor   `json:"risk_factor"`
	Reward        Factor   `json:"reward_factor"`
	OverallFit    int      `json:"overall_fit_rating"`
	Justification string   `json:"justification_for_rating"`
}

// Normalize clamps the rating into 0..10 and trims every text field.
func (a Assessment) Normalize() Assessment {
	a.OverallFit = min(max(a.OverallFit, 0), 10)
	a.Strengths = trimAll(a.Strengths)
	a.Weaknesses = trimAll(a.Weaknesses)
	a.Risk.Score = strings.TrimSpace(a.Risk.Score)
	a.Risk.Explanation = strings.TrimSpace(a.Risk.Explanation)
	a.Reward.Score = strings.TrimSpace(a.Reward.Score)
	a.Reward.Explanation = strings.TrimSpace(a.Reward.Explanation)
	a.Justification = strings.TrimSpace(a.Justification)
	return a
}

type Candidate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email_address"`
}

func (c Candidate) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Config selects and configures a provider. An empty Provider picks gemini
// when an API key is present and mock otherwise.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

var ErrMissingAPIKey = errors.New("gemini api key is required")

func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		if strings.TrimSpace(cfg.APIKey) != "" {
			provider = ProviderGemini
		} else {
			provider = ProviderMock
		}
	}

	switch provider {
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		logger.Info("using gemini ai client", zap.String("model", client.Model()))
		return client, nil
	case ProviderMock:
		logger.Info("using mock ai client; set GEMINI_API_KEY for real analysis")
		return NewMockClient(), nil
	default:
		return nil, errors.New("unknown ai provider: " + provider)
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
