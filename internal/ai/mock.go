package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MockClient scores by keyword overlap so results are stable without network.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var mockSkills = []string{
	"python", "java", "javascript", "react", "go", "golang", "aws", "azure", "gcp",
	"docker", "kubernetes", "terraform", "sql", "postgresql", "mongodb", "redis",
	"machine learning", "api", "rest", "graphql", "microservices", "git", "ci/cd",
}

var wordRe = regexp.MustCompile(`[a-z0-9+#/.]+`)

func (m *MockClient) ScreenResume(ctx context.Context, resumeText, jobDescription string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	resume := tokenSet(resumeText)
	job := tokenSet(jobDescription)

	var matched, missing []string
	for _, skill := range mockSkills {
		if !hasSkill(job, jobDescription, skill) {
			continue
		}
		if hasSkill(resume, resumeText, skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	rating := 5
	if total := len(matched) + len(missing); total > 0 {
		rating = (len(matched)*10 + total/2) / total
	}

	a := Assessment{
		OverallFit:    rating,
		Risk:          Factor{Score: level(10 - rating), Explanation: fmt.Sprintf("%d required skills not evident in the resume.", len(missing))},
		Reward:        Factor{Score: level(rating), Explanation: fmt.Sprintf("%d required skills matched.", len(matched))},
		Justification: fmt.Sprintf("Keyword overlap rating %d/10 based on %d matched and %d missing skills.", rating, len(matched), len(missing)),
	}
	for _, s := range matched {
		a.Strengths = append(a.Strengths, "Experience with "+s)
	}
	for _, s := range missing {
		a.Weaknesses = append(a.Weaknesses, "No evidence of "+s)
	}
	return a.Normalize(), nil
}

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// ExtractCandidate takes the first two words of the first non-empty line as
// the name and the first address-like token as the email.
func (m *MockClient) ExtractCandidate(ctx context.Context, resumeText string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	var c Candidate
	for _, line := range strings.Split(resumeText, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		c.FirstName = fields[0]
		if len(fields) > 1 && !strings.Contains(fields[1], "@") {
			c.LastName = fields[1]
		}
		break
	}
	c.Email = emailRe.FindString(resumeText)
	return c, nil
}

func tokenSet(text string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		out[strings.Trim(w, ".")] = struct{}{}
	}
	return out
}

func hasSkill(tokens map[string]struct{}, raw, skill string) bool {
	if strings.Contains(skill, " ") {
		return strings.Contains(strings.ToLower(raw), skill)
	}
	_, ok := tokens[skill]
	return ok
}

func level(v int) string {
	switch {
	case v >= 7:
		return "High"
	case v >= 4:
		return "Medium"
	default:
		return "Low"
	}
}
