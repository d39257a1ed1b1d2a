// Package export writes screening records and URL templates as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/baxromumarov/resume-screener/internal/core"
)

// TemplateHeader is the single column ReadJobURLs looks for first.
const TemplateHeader = "Job URL"

// TemplateURLs holds one sample posting per supported site.
var TemplateURLs = []string{
	"https://www.linkedin.com/jobs/view/1234567890",
	"https://www.indeed.com/viewjob?jk=abc123def456",
	"https://www.glassdoor.com/job-listing/software-engineer-JV_IC1147401_KO0,17_KE18,25.htm",
	"https://www.monster.com/job-openings/software-engineer-new-york-ny--0a1b2c3d",
	"https://www.careerbuilder.com/job/J3Q1234567890",
}

// WriteCSV writes the column header followed by one row per record.
func WriteCSV(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(rec.Row()); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplate writes a job URL sheet users can fill in for batch runs.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{TemplateHeader}); err != nil {
		return err
	}
	for _, u := range TemplateURLs {
		if err := cw.Write([]string{u}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
