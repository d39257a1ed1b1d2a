package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/core"
	"github.com/baxromumarov/resume-screener/internal/export"
	"github.com/baxromumarov/resume-screener/internal/resume"
)

func newBatchCommand(load func() (*env, error)) *cobra.Command {
	var (
		resumePaths     []string
		urlsPath, output string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Screen one or more resumes against every job URL in a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			docs := make([]resume.Document, 0, len(resumePaths))
			for _, path := range resumePaths {
				doc, err := readResume(path)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}
			urls, err := readURLFile(urlsPath)
			if err != nil {
				return err
			}
			e.logger.Info("starting batch", zap.Int("resumes", len(docs)), zap.Int("jobs", len(urls)))

			svc, err := e.newScreeningService(cmd.Context())
			if err != nil {
				return err
			}
			opts := []core.BatchOption{core.WithBatchLogger(e.logger)}
			db, err := e.openStore(cmd.Context())
			if err != nil {
				e.logger.Warn("results will not be stored", zap.Error(err))
			} else if db != nil {
				defer db.Close()
				opts = append(opts, core.WithSink(db))
			}

			reports, runErr := core.NewBatchRunner(svc, e.cfg.Batch.Interval, opts...).RunMatrix(cmd.Context(), docs, urls)

			if output == "" {
				output = e.cfg.Batch.Output
			}
			if err := writeReport(cmd.OutOrStdout(), output, core.AllRecords(reports)); err != nil {
				return err
			}
			for _, report := range reports {
				logSummary(e.logger, report.Summary)
			}
			return runErr
		},
	}

	cmd.Flags().StringSliceVarP(&resumePaths, "resume", "r", nil, "resume file (PDF, DOCX or TXT); repeat to screen several")
	cmd.Flags().StringVarP(&urlsPath, "urls", "u", "", "CSV file with a job URL column")
	cmd.Flags().StringVarP(&output, "output", "o", "", `results CSV, "-" for stdout (default batch.output)`)
	cmd.MarkFlagRequired("resume")
	cmd.MarkFlagRequired("urls")
	return cmd
}

func newTemplateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a job URL CSV template for batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "-" {
				return export.WriteTemplate(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.WriteTemplate(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "job_urls_template.csv", `template path, "-" for stdout`)
	return cmd
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening job URL file: %w", err)
	}
	defer f.Close()
	return core.ReadJobURLs(f)
}

func writeReport(stdout io.Writer, path string, records []core.Record) error {
	if path == "-" {
		return export.WriteCSV(stdout, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	if err := export.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func logSummary(l *zap.Logger, s core.Summary) {
	l.Info("batch finished",
		zap.Int("total", s.Total),
		zap.Int("successful", s.Successful),
		zap.Int("failed", s.Failed),
		zap.Float64("average_score", s.AverageScore),
		zap.String("resume", s.ResumeFile),
		zap.String("candidate", s.Candidate.FullName()),
	)
	for i, m := range s.TopMatches {
		l.Info("top match",
			zap.Int("rank", i+1),
			zap.String("title", m.JobTitle),
			zap.String("company", m.Company),
			zap.Int("score", m.Score),
			zap.String("recommendation", m.Recommendation),
		)
	}
}
