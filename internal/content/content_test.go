package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobPostingsGraph(t *testing.T) {
	raw := `{"@context":"https://schema.org","@graph":[
		{"@type":"Organization","name":"Ignored"},
		{"@type":["JobPosting"],"title":"Platform Engineer",
		 "description":"<p>Build things</p>",
		 "hiringOrganization":{"@type":"Organization","name":"Acme"},
		 "jobLocation":{"address":{"addressLocality":"Austin","addressRegion":"TX"}},
		 "datePosted":"2024-05-01"}]}`

	postings := ParseJobPostings(raw)
	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "Platform Engineer", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "Austin, TX", p.Location)
	assert.Equal(t, 2024, p.PostedAt.Year())
}

func TestParseJobPostingsRejectsGarbage(t *testing.T) {
	assert.Nil(t, ParseJobPostings(""))
	assert.Nil(t, ParseJobPostings("{not json"))
	assert.Nil(t, ParseJobPostings(`{"@type":"JobPosting"}`))
}

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		location string
		salary   string
	}{
		{"remote with dash range", "This REMOTE role pays $120,000 - $150,000 per year.", "Remote", "$120000-$150000/year"},
		{"city with to range", "Based in Seattle. Compensation $90,000 to $110,000 annually.", "Seattle", "$90000-$110000/year"},
		{"state code without dollar", "Office in Denver area, CO. Pay 80,000-95,000 yr", "Denver", "$80000-$95000/year"},
		{"nothing found", "We build tools in a friendly team.", UnknownLocation, UnknownSalary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := ExtractMetadata(tt.text)
			assert.Equal(t, tt.location, md.Location)
			assert.Equal(t, tt.salary, md.SalaryRange)
		})
	}
}
