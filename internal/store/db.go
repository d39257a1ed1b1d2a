package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/baxromumarov/resume-screener/internal/core"
)

//go:embed schema.sql
var schema string

const (
	defaultListLimit = 20
	maxListLimit     = 200
	migrateTimeout   = 10 * time.Second
)

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunMigrations applies the embedded schema. It is safe to run repeatedly.
func (s *Store) RunMigrations(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// SaveRecord inserts rec, replacing any earlier row with the same ID.
func (s *Store) SaveRecord(ctx context.Context, rec core.Record) error {
	analyzedAt := rec.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO screenings (
    id, analyzed_at, job_title, company, job_url, location, salary_range,
    candidate_name, candidate_email, resume_file, fit_score, risk_level, reward_level,
    recommendation, strengths, weaknesses, missing_skills, experience_match,
    risk_explanation, reward_explanation, justification, description_length, status, error
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
ON CONFLICT (id) DO UPDATE SET
    analyzed_at = EXCLUDED.analyzed_at,
    job_title = EXCLUDED.job_title,
    company = EXCLUDED.company,
    fit_score = EXCLUDED.fit_score,
    recommendation = EXCLUDED.recommendation,
    status = EXCLUDED.status,
    error = EXCLUDED.error
`,
		rec.ID, analyzedAt, rec.JobTitle, rec.Company, rec.JobURL, rec.Location, rec.SalaryRange,
		rec.CandidateName, rec.CandidateEmail, rec.ResumeFile, rec.FitScore, rec.RiskLevel, rec.RewardLevel,
		rec.Recommendation, pq.Array(nonNil(rec.Strengths)), pq.Array(nonNil(rec.Weaknesses)), rec.MissingSkills, rec.ExperienceMatch,
		rec.RiskExplanation, rec.RewardExplanation, rec.Justification, rec.DescriptionLength, rec.Status, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("save screening %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecords returns screenings newest first.
func (s *Store) ListRecords(ctx context.Context, limit, offset int) ([]core.Record, error) {
	limit = clampLimit(limit, defaultListLimit, maxListLimit)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT
    id,
    analyzed_at,
    job_title,
    company,
    job_url,
    location,
    salary_range,
    candidate_name,
    candidate_email,
    resume_file,
    fit_score,
    risk_level,
    reward_level,
    recommendation,
    strengths,
    weaknesses,
    missing_skills,
    experience_match,
    risk_explanation,
    reward_explanation,
    justification,
    description_length,
    status,
    error
FROM screenings
ORDER BY analyzed_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var rec core.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.AnalyzedAt,
			&rec.JobTitle,
			&rec.Company,
			&rec.JobURL,
			&rec.Location,
			&rec.SalaryRange,
			&rec.CandidateName,
			&rec.CandidateEmail,
			&rec.ResumeFile,
			&rec.FitScore,
			&rec.RiskLevel,
			&rec.RewardLevel,
			&rec.Recommendation,
			pq.Array(&rec.Strengths),
			pq.Array(&rec.Weaknesses),
			&rec.MissingSkills,
			&rec.ExperienceMatch,
			&rec.RiskExplanation,
			&rec.RewardExplanation,
			&rec.Justification,
			&rec.DescriptionLength,
			&rec.Status,
			&rec.Error,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRecordsBefore removes screenings analyzed before cutoff.
func (s *Store) DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM screenings
WHERE analyzed_at < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
