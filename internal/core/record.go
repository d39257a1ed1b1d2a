package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	StatusSuccess         = "Success"
	StatusInvalidURL      = "Invalid URL"
	StatusFailedScrape    = "Failed to scrape"
	StatusProcessingError = "Processing error"
	StatusInvalidJobText  = "Invalid job description"

	analysisDateLayout = "2006-01-02 03:04 PM"
)

// Columns is the fixed export order of a Record.
var Columns = []string{
	"Analysis Date", "Job Title", "Company", "Job URL", "Location", "Salary Range",
	"Candidate Name", "Candidate Email", "Resume File",
	"Overall Fit Score", "Risk Level", "Reward Level", "Recommendation",
	"Top 3 Strengths", "Top 3 Concerns", "Key Missing Skills", "Years Experience Match",
	"Risk Explanation", "Reward Explanation", "Detailed Justification",
	"Job Description Length", "All Strengths", "All Weaknesses",
	"Status", "Error",
}

// Record is one resume screened against one job posting. Failed screenings
// only carry ID, AnalyzedAt, JobURL, ResumeFile, Status and Error.
type Record struct {
	ID                string    `json:"id"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
	JobTitle          string    `json:"job_title"`
	Company           string    `json:"company"`
	JobURL            string    `json:"job_url"`
	Location          string    `json:"location"`
	SalaryRange       string    `json:"salary_range"`
	CandidateName     string    `json:"candidate_name"`
	CandidateEmail    string    `json:"candidate_email"`
	ResumeFile        string    `json:"resume_file"`
	FitScore          int       `json:"overall_fit_score"`
	RiskLevel         string    `json:"risk_level"`
	RewardLevel       string    `json:"reward_level"`
	Recommendation    string    `json:"recommendation"`
	Strengths         []string  `json:"strengths"`
	Weaknesses        []string  `json:"weaknesses"`
	MissingSkills     string    `json:"key_missing_skills"`
	ExperienceMatch   string    `json:"years_experience_match"`
	RiskExplanation   string    `json:"risk_explanation"`
	RewardExplanation string    `json:"reward_explanation"`
	Justification     string    `json:"justification"`
	DescriptionLength int       `json:"job_description_length"`
	Status            string    `json:"status"`
	Error             string    `json:"error,omitempty"`
}

func (r Record) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Row renders r in Columns order. Numeric cells are empty for failed records.
func (r Record) Row() []string {
	score, length := "", ""
	if r.Succeeded() {
		score = strconv.Itoa(r.FitScore)
		length = strconv.Itoa(r.DescriptionLength)
	}
	date := ""
	if !r.AnalyzedAt.IsZero() {
		date = r.AnalyzedAt.Format(analysisDateLayout)
	}
	return []string{
		date, r.JobTitle, r.Company, r.JobURL, r.Location, r.SalaryRange,
		r.CandidateName, r.CandidateEmail, r.ResumeFile,
		score, r.RiskLevel, r.RewardLevel, r.Recommendation,
		strings.Join(head(r.Strengths, 3), "\n• "), strings.Join(head(r.Weaknesses, 3), "\n• "),
		r.MissingSkills, r.ExperienceMatch,
		r.RiskExplanation, r.RewardExplanation, r.Justification,
		length, strings.Join(r.Strengths, "\n\n"), strings.Join(r.Weaknesses, "\n\n"),
		r.Status, r.Error,
	}
}

// Recommendation maps a 0..10 fit score to a hiring recommendation.
func Recommendation(score int) string {
	switch {
	case score >= 9:
		return "Strong Yes"
	case score >= 7:
		return "Yes"
	case score >= 5:
		return "Maybe"
	case score >= 3:
		return "No"
	default:
		return "Strong No"
	}
}

var skillKeywords = []string{
	"python", "java", "javascript", "react", "angular", "vue", "node.js",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
	"tensorflow", "pytorch", "scikit-learn", "pandas", "numpy",
	"sql", "mongodb", "postgresql", "redis", "elasticsearch",
	"git", "jenkins", "ci/cd", "agile", "scrum",
	"machine learning", "deep learning", "nlp", "computer vision",
	"microservices", "api", "rest", "graphql", "grpc",
}

const maxMissingSkills = 5

// MissingSkills lists up to five known skills mentioned in weaknesses.
func MissingSkills(weaknesses []string) string {
	var found []string
	seen := map[string]struct{}{}
	for _, w := range weaknesses {
		lower := strings.ToLower(w)
		for _, skill := range skillKeywords {
			if _, dup := seen[skill]; dup || !strings.Contains(lower, skill) {
				continue
			}
			seen[skill] = struct{}{}
			found = append(found, skill)
		}
	}
	if len(found) == 0 {
		return "None identified"
	}
	return strings.Join(head(found, maxMissingSkills), ", ")
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*years?\s*experience`),
	regexp.MustCompile(`(?i)experience\s*level.*?(\d+)\s*years`),
	regexp.MustCompile(`(?i)(\d+)\s*years?\s*in\s*the\s*field`),
}

// ExperienceMatch reads the years of experience the justification refers to.
func ExperienceMatch(justification string) string {
	for _, re := range experiencePatterns {
		if m := re.FindStringSubmatch(justification); len(m) > 1 {
			return m[1] + "+ years required"
		}
	}
	return "Experience level not specified"
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
