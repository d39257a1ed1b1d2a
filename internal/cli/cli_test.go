package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/resume-screener/internal/core"
	"github.com/baxromumarov/resume-screener/internal/export"
	"github.com/baxromumarov/resume-screener/internal/scraper"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resume-screener")
}

func TestTemplateToStdout(t *testing.T) {
	out, err := run(t, "template", "-o", "-")
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, export.TemplateHeader, rows[0][0])
	assert.Len(t, rows, len(export.TemplateURLs)+1)
}

func TestTemplateToFile(t *testing.T) {
	_, err := run(t, "template")
	require.NoError(t, err)

	data, err := os.ReadFile("job_urls_template.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "linkedin.com")
}

func TestScrapeInvalidURLNeedsNoNetwork(t *testing.T) {
	out, err := run(t, "scrape", "example.com/job")
	require.NoError(t, err)

	var res scraper.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid URL format", res.Error)
}

func TestScrapePromptsWithoutArgument(t *testing.T) {
	prev := askURL
	askURL = func() (string, error) { return "", errors.New("^C") }
	t.Cleanup(func() { askURL = prev })

	_, err := run(t, "scrape")
	assert.ErrorIs(t, err, errNoURL)
}

func TestScreenWithMockClient(t *testing.T) {
	dir := t.TempDir()
	cv := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(cv, []byte("Ada Lovelace\nada@example.com\nGo engineer"), 0o600))

	out, err := run(t, "screen", "--resume", cv, "--url", "not-a-url")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "Invalid URL"`)
}

func TestScreenWithJobText(t *testing.T) {
	dir := t.TempDir()
	cv := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(cv, []byte("Ada Lovelace\nada@example.com\nGo engineer"), 0o600))
	job := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(job, []byte("Remote Go engineer. Build services with PostgreSQL."), 0o600))

	out, err := run(t, "screen", "--resume", cv, "--job-file", job, "--job-title", "Go Engineer")
	require.NoError(t, err)

	var rec core.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, core.StatusSuccess, rec.Status, rec.Error)
	assert.Equal(t, "Go Engineer", rec.JobTitle)
	assert.Empty(t, rec.JobURL)
}

func TestScreenJobSourcesAreExclusive(t *testing.T) {
	dir := t.TempDir()
	cv := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(cv, []byte("Ada Lovelace"), 0o600))

	_, err := run(t, "screen", "--resume", cv, "--url", "https://example.com/job", "--job-text", "Go engineer")
	assert.Error(t, err)
}

func TestBatchScreensEveryResume(t *testing.T) {
	dir := t.TempDir()
	ada := filepath.Join(dir, "ada.txt")
	grace := filepath.Join(dir, "grace.txt")
	urls := filepath.Join(dir, "urls.csv")
	results := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(ada, []byte("Ada Lovelace"), 0o600))
	require.NoError(t, os.WriteFile(grace, []byte("Grace Hopper"), 0o600))
	require.NoError(t, os.WriteFile(urls, []byte("Job URL\nnot-a-url\nalso-not-a-url\n"), 0o600))
	t.Setenv("SCREENER_BATCH_INTERVAL", "0s")

	_, err := run(t, "batch", "-r", ada, "-r", grace, "-u", urls, "-o", results)
	require.NoError(t, err)

	f, err := os.Open(results)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestBatchRequiresFlags(t *testing.T) {
	_, err := run(t, "batch")
	assert.Error(t, err)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screener.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scraper:\n  attempts: 0\n"), 0o600))

	_, err := run(t, "--config", path, "scrape", "https://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper.attempts")
}
