package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeGemini(reply string, err error) (*GeminiClient, *[]string) {
	var prompts []string
	return &GeminiClient{
		model: "test-model",
		generate: func(_ context.Context, system, prompt string) (string, error) {
			prompts = append(prompts, prompt)
			return reply, err
		},
	}, &prompts
}

func TestGeminiScreenResumeParsesFencedJSON(t *testing.T) {
	reply := "Here is the analysis:\n```json\n" + `{
		"candidate_strengths": [" Go ", "", "Kubernetes"],
		"candidate_weaknesses": ["No Terraform"],
		"risk_factor": {"score": "Low", "explanation": "Stable history"},
		"reward_factor": {"score": "High", "explanation": "Strong match"},
		"overall_fit_rating": 14,
		"justification_for_rating": "5 years of experience with Go."
	}` + "\n```"
	g, prompts := fakeGemini(reply, nil)

	a, err := g.ScreenResume(context.Background(), "resume body", "job body")

	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, a.Strengths)
	assert.Equal(t, 10, a.OverallFit)
	assert.Equal(t, "High", a.Reward.Score)
	require.Len(t, *prompts, 1)
	assert.Contains(t, (*prompts)[0], "job body")
	assert.Contains(t, (*prompts)[0], "resume body")
}

func TestGeminiScreenResumeErrors(t *testing.T) {
	g, _ := fakeGemini("no json here", nil)
	_, err := g.ScreenResume(context.Background(), "r", "j")
	assert.ErrorIs(t, err, errNoJSONObject)

	boom := errors.New("quota exceeded")
	g, _ = fakeGemini("", boom)
	_, err = g.ScreenResume(context.Background(), "r", "j")
	assert.ErrorIs(t, err, boom)
}

func TestGeminiExtractCandidate(t *testing.T) {
	g, _ := fakeGemini(`{"first_name":" Ada ","last_name":"Lovelace","email_address":"ada@example.com"}`, nil)

	c, err := g.ExtractCandidate(context.Background(), "Ada Lovelace")

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", c.FullName())
	assert.Equal(t, "ada@example.com", c.Email)
}

func TestMockScreenResume(t *testing.T) {
	m := NewMockClient()
	job := "We need Python, Docker and Kubernetes experience plus machine learning."
	resume := "Built machine learning systems in Python and shipped them with Docker."

	a, err := m.ScreenResume(context.Background(), resume, job)

	require.NoError(t, err)
	assert.Equal(t, 8, a.OverallFit)
	assert.Contains(t, a.Strengths, "Experience with python")
	assert.Equal(t, []string{"No evidence of kubernetes"}, a.Weaknesses)

	again, err := m.ScreenResume(context.Background(), resume, job)
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestMockExtractCandidate(t *testing.T) {
	c, err := NewMockClient().ExtractCandidate(context.Background(), "\n  Grace Hopper\ngrace@navy.mil\n")
	require.NoError(t, err)
	assert.Equal(t, Candidate{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil"}, c)
}

func TestAssessmentNormalizeClamps(t *testing.T) {
	assert.Equal(t, 0, Assessment{OverallFit: -3}.Normalize().OverallFit)
	assert.Equal(t, 6, Assessment{OverallFit: 6}.Normalize().OverallFit)
}

func TestNewClientSelectsProvider(t *testing.T) {
	c, err := NewClient(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	_, err = NewClient(context.Background(), Config{Provider: "gemini"}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewClient(context.Background(), Config{Provider: "openai"}, nil)
	assert.Error(t, err)
}
