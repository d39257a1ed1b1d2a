package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyFromPageTitle(t *testing.T) {
	tests := map[string]string{
		"Acme Corp hiring Backend Engineer in Remote | LinkedIn": "Acme Corp",
		"Backend Engineer - Globex | LinkedIn":                   "Globex",
		"Backend Engineer at Initech | LinkedIn":                 "Initech",
		"LinkedIn":                                               "",
	}
	for title, want := range tests {
		assert.Equal(t, want, companyFromPageTitle(title), title)
	}
}

func TestSanitizeCompany(t *testing.T) {
	assert.Equal(t, "Acme", sanitizeCompany("Acme  Powered by Greenhouse"))
	assert.Equal(t, "", sanitizeCompany("You may also apply directly on the company website"))
	assert.Equal(t, "", sanitizeCompany("Apply now"))
	assert.Equal(t, "", sanitizeCompany("AB"))
}

func TestDescriptionCompanyRules(t *testing.T) {
	rules := make(map[string]CompanyRule, len(DescriptionCompanyRules))
	for _, r := range DescriptionCompanyRules {
		rules[r.Name] = r
	}

	tests := []struct {
		rule string
		text string
		want string
		ok   bool
	}{
		{"role-at", "An exciting role at Umbrella, where you build tools.", "Umbrella", true},
		{"at-verb", "Engineers at Hooli Labs is growing fast.", "Hooli Labs", true},
		{"is-seeking", "Vandelay Industries is seeking a data engineer.", "Vandelay Industries", true},
		{"looking-for", "Stark Labs looking for engineers.", "Stark Labs", true},
		{"join-as", "Join Initech as a platform engineer.", "Initech", true},
		{"is-hiring", "Globex is hiring engineers.", "Globex", true},
		{"has-opening", "Wayne Enterprises has an opening for you.", "Wayne Enterprises", true},
		{"is-seeking", "Patient Care is seeking nurses.", "", false},
		{"is-hiring", "We build software.", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.text, func(t *testing.T) {
			got, ok := rules[tt.rule].Apply(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompanyFromDescriptionOrder(t *testing.T) {
	assert.Equal(t, "Initech", companyFromDescription("Globex is hiring. Join Initech as an engineer."))
	assert.Equal(t, "", companyFromDescription("Quality Care is hiring staff."))
	assert.Equal(t, "Acme Staff Services", companyFromDescription("Acme Staff Services is hiring engineers."))
}

func TestLeadingCompanyToken(t *testing.T) {
	assert.Equal(t, "Acme", leadingCompanyToken("  Acme builds rockets."))
	assert.Equal(t, "", leadingCompanyToken("we build rockets."))
}
