package ui

import (
	"encoding/json"
	"strings"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/pkg/rapidapi"
)

// Address is the schema.org PostalAddress subset shown in listings
type Address struct {
	Locality string `json:"addressLocality"`
	Region   string `json:"addressRegion"`
	Country  string `json:"addressCountry"`
}

// RawLocation is one entry of locations_raw
type RawLocation struct {
	Address *Address `json:"address"`
}

// JobView is the job as the browser sees it: the API rendering of a job
// decoded into the fields the page displays.
type JobView struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Organization     string              `json:"organization"`
	Company          string              `json:"company"`
	Location         string              `json:"location"`
	OrganizationLogo string              `json:"organization_logo"`
	OrganizationURL  string              `json:"organization_url"`
	DatePosted       string              `json:"date_posted"`
	PostedDate       string              `json:"posted_date"`
	DescriptionText  string              `json:"description_text"`
	Description      string              `json:"description"`
	URL              string              `json:"url"`
	ApplicationURL   string              `json:"application_url"`
	EmploymentType   []string            `json:"employment_type"`
	RemoteDerived    bool                `json:"remote_derived"`
	LocationsDerived []string            `json:"locations_derived"`
	LocationsAltRaw  []string            `json:"locations_alt_raw"`
	LocationsRaw     []RawLocation       `json:"locations_raw"`
	SalaryRaw        *rapidapi.SalaryRaw `json:"salary_raw"`
}

// NewJobView renders j the way the API does and decodes the display fields.
// Payload fields with unexpected shapes are dropped and the normalized fields kept.
func NewJobView(j domain.Job) JobView {
	v := JobView{
		ID:           j.ID,
		Title:        j.Title,
		Organization: j.Organization,
		Company:      j.CompanyName(),
		Location:     j.Location,
		Description:  j.Description,
	}

	data, err := json.Marshal(j)
	if err != nil {
		return v
	}

	var decoded JobView
	if err := json.Unmarshal(data, &decoded); err != nil {
		return v
	}
	return decoded
}

// CompanyName prefers organization, as the provider fills it
func (v JobView) CompanyName() string {
	if v.Organization != "" {
		return v.Organization
	}
	return v.Company
}

// Posted is the best available posting date string
func (v JobView) Posted() string {
	if v.DatePosted != "" {
		return v.DatePosted
	}
	return v.PostedDate
}

// Text is the description body
func (v JobView) Text() string {
	if v.DescriptionText != "" {
		return v.DescriptionText
	}
	return v.Description
}

// ApplyURL is where the apply button points
func (v JobView) ApplyURL() string {
	if v.URL != "" {
		return v.URL
	}
	return v.ApplicationURL
}

// EmploymentLabel is the first employment type with underscores shown as spaces
func (v JobView) EmploymentLabel() string {
	if len(v.EmploymentType) == 0 {
		return ""
	}
	return strings.Replace(v.EmploymentType[0], "_", " ", 1)
}
