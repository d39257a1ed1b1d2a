package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/core"
	"github.com/baxromumarov/resume-screener/internal/logger"
	"github.com/baxromumarov/resume-screener/internal/resume"
)

var errNoURL = errors.New("a job URL is required")

// askURL prompts for a job URL on a terminal.
var askURL = func() (string, error) {
	p := promptui.Prompt{
		Label: "Job URL",
		Validate: func(s string) error {
			if !strings.HasPrefix(strings.TrimSpace(s), "http") {
				return errors.New("URL must start with http")
			}
			return nil
		},
	}
	return p.Run()
}

func newScrapeCommand(load func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape [url]",
		Short: "Scrape one job posting and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			jobURL, err := urlArg(args)
			if err != nil {
				return err
			}

			res := e.newScraper().Scrape(cmd.Context(), jobURL)
			if res.Success {
				e.logger.Info("scraped job",
					zap.String("title", res.Title),
					zap.String("company", res.Company),
					zap.String("description", logger.Truncate(res.Description, 120)),
				)
			} else {
				e.logger.Warn("scrape failed", zap.String("url", jobURL), zap.String("error", res.Error))
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newScreenCommand(load func() (*env, error)) *cobra.Command {
	var resumePath, jobURL, jobFile, jobText, jobTitle string

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen a resume against one job posting or job description text",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			doc, err := readResume(resumePath)
			if err != nil {
				return err
			}
			if jobFile != "" {
				data, err := os.ReadFile(jobFile)
				if err != nil {
					return fmt.Errorf("reading job description: %w", err)
				}
				jobText = string(data)
			}
			fromText := jobFile != "" || cmd.Flags().Changed("job-text")
			if !fromText && jobURL == "" {
				if jobURL, err = urlArg(nil); err != nil {
					return err
				}
			}

			svc, err := e.newScreeningService(cmd.Context())
			if err != nil {
				return err
			}
			var rec core.Record
			if fromText {
				rec = svc.ScreenText(cmd.Context(), doc, jobTitle, jobText)
			} else {
				rec = svc.Screen(cmd.Context(), doc, jobURL)
			}

			db, err := e.openStore(cmd.Context())
			if err != nil {
				e.logger.Warn("screening will not be stored", zap.Error(err))
			} else if db != nil {
				defer db.Close()
				if err := db.SaveRecord(cmd.Context(), rec); err != nil {
					e.logger.Warn("saving screening failed", zap.Error(err))
				}
			}

			if !rec.Succeeded() {
				e.logger.Warn("screening failed", zap.String("status", rec.Status), zap.String("error", rec.Error))
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "resume file (PDF, DOCX or TXT)")
	cmd.Flags().StringVarP(&jobURL, "url", "u", "", "job posting URL (prompted when no job is given)")
	cmd.Flags().StringVar(&jobFile, "job-file", "", "file holding the job description text")
	cmd.Flags().StringVar(&jobText, "job-text", "", "job description text")
	cmd.Flags().StringVar(&jobTitle, "job-title", "", "job title for --job-file or --job-text")
	cmd.MarkFlagRequired("resume")
	cmd.MarkFlagsMutuallyExclusive("url", "job-file", "job-text")
	return cmd
}

func urlArg(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	u, err := askURL()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoURL, err)
	}
	return u, nil
}

func readResume(path string) (resume.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resume.Document{}, fmt.Errorf("reading resume: %w", err)
	}
	return resume.Extract(path, data)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
