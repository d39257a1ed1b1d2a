package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const screeningInstruction = `You are an expert technical recruiter specializing in AI, automation, and software roles.
Analyze the candidate's resume against the job description and provide a detailed screening report.

Focus on technical skill alignment, experience relevance, cultural fit indicators and growth potential.
Be specific and reference actual content from both resume and job description.`

const screeningTemplate = `Job Description:
%s

Candidate Resume:
%s

Provide your analysis in the following JSON format:
{
  "candidate_strengths": ["strength1", "strength2"],
  "candidate_weaknesses": ["weakness1", "weakness2"],
  "risk_factor": {"score": "Low/Medium/High", "explanation": "Risk explanation"},
  "reward_factor": {"score": "Low/Medium/High", "explanation": "Reward explanation"},
  "overall_fit_rating": 7,
  "justification_for_rating": "Detailed justification"
}`

const candidateInstruction = `Extract the candidate's contact information from the resume.
Return only the requested information in JSON format.`

const candidateTemplate = `Resume Text:
%s

Extract the following information in JSON format:
{"first_name": "First Name", "last_name": "Last Name", "email_address": "Email Address"}`

// generateFunc sends one prompt with a system instruction and returns the text reply.
type generateFunc func(ctx context.Context, system, prompt string) (string, error)

// GeminiClient implements Client on the Gemini API.
type GeminiClient struct {
	model    string
	generate generateFunc
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	g := &GeminiClient{model: model}
	g.generate = func(ctx context.Context, system, prompt string) (string, error) {
		return generateContent(ctx, client, g.model, system, prompt)
	}
	return g, nil
}

func (g *GeminiClient) Model() string {
	return g.model
}

func (g *GeminiClient) ScreenResume(ctx context.Context, resumeText, jobDescription string) (Assessment, error) {
	reply, err := g.generate(ctx, screeningInstruction, fmt.Sprintf(screeningTemplate, jobDescription, resumeText))
	if err != nil {
		return Assessment{}, fmt.Errorf("screen resume: %w", err)
	}
	var a Assessment
	if err := decodeJSONObject(reply, &a); err != nil {
		return Assessment{}, fmt.Errorf("screen resume: %w", err)
	}
	return a.Normalize(), nil
}

func (g *GeminiClient) ExtractCandidate(ctx context.Context, resumeText string) (Candidate, error) {
	reply, err := g.generate(ctx, candidateInstruction, fmt.Sprintf(candidateTemplate, resumeText))
	if err != nil {
		return Candidate{}, fmt.Errorf("extract candidate: %w", err)
	}
	var c Candidate
	if err := decodeJSONObject(reply, &c); err != nil {
		return Candidate{}, fmt.Errorf("extract candidate: %w", err)
	}
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	return c, nil
}

func generateContent(ctx context.Context, client *genai.Client, model, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.1),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(strings.TrimSpace(part.Text))
		}
	}
	if builder.Len() == 0 {
		return "", errors.New("gemini api returned empty response")
	}
	return builder.String(), nil
}

var errNoJSONObject = errors.New("could not parse JSON response")

// decodeJSONObject decodes the outermost {...} span of reply, so prose or
// code fences around the object are ignored.
func decodeJSONObject(reply string, v any) error {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return errNoJSONObject
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", errNoJSONObject, err)
	}
	return nil
}
