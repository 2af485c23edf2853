package rapidapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Config defines RapidAPI active-jobs-db client settings
type Config struct {
	APIKey     string
	Host       string
	BaseURL    string
	Endpoint   string
	HTTPClient *http.Client
}

// Client queries the active-jobs-db API on RapidAPI
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	endpoint   string
	httpClient *http.Client
}

// SearchParams describe a job search request
type SearchParams struct {
	Title    string
	Location string
	Remote   *bool
	Limit    int
	Offset   int
}

// APIError is returned for non-2xx responses and keeps the upstream body
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rapidapi: API error (%d): %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// SalaryRaw is the schema.org MonetaryAmount shape used by the provider
type SalaryRaw struct {
	Currency string `json:"currency"`
	Value    *struct {
		MinValue *float64 `json:"minValue"`
		MaxValue *float64 `json:"maxValue"`
		UnitText string   `json:"unitText"`
	} `json:"value"`
}

// Posting is a provider job posting. Fields are read leniently since the
// provider mixes numeric and string ids and omits most keys.
type Posting struct {
	ID               string
	JobID            string
	Title            string
	Organization     string
	Company          string
	Location         string
	LocationsDerived []string
	Description      string
	Remote           *bool
	RemoteDerived    bool
	DatePosted       string
	URL              string
	ApplicationURL   string
	Source           string
	JobType          string
	Salary           string
	SalaryMin        *float64
	SalaryMax        *float64
	Currency         string
	SalaryRaw        *SalaryRaw
	Raw              json.RawMessage
}

// ParsePostings decodes a provider response body. Anything other than a JSON
// array is treated as an empty result.
func ParsePostings(body []byte) ([]Posting, error) {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "[") {
		return []Posting{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("rapidapi: decode response: %w", err)
	}

	postings := make([]Posting, 0, len(items))
	for _, item := range items {
		p, err := ParsePosting(item)
		if err != nil {
			continue
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// ParsePosting decodes one provider object
func ParsePosting(raw json.RawMessage) (Posting, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Posting{}, fmt.Errorf("rapidapi: decode posting: %w", err)
	}

	p := Posting{
		ID:               stringField(fields, "id", "job_id"),
		JobID:            stringField(fields, "job_id"),
		Title:            stringField(fields, "title"),
		Organization:     stringField(fields, "organization"),
		Company:          stringField(fields, "company"),
		Location:         stringField(fields, "location"),
		LocationsDerived: stringsField(fields, "locations_derived"),
		Description:      stringField(fields, "description", "description_text"),
		Remote:           boolField(fields, "remote"),
		DatePosted:       stringField(fields, "posted_date", "date_posted"),
		URL:              stringField(fields, "url"),
		ApplicationURL:   stringField(fields, "application_url"),
		Source:           stringField(fields, "source"),
		JobType:          stringField(fields, "job_type"),
		Salary:           stringField(fields, "salary"),
		SalaryMin:        floatField(fields, "salary_min"),
		SalaryMax:        floatField(fields, "salary_max"),
		Currency:         stringField(fields, "currency"),
		Raw:              append(json.RawMessage(nil), raw...),
	}

	if rd := boolField(fields, "remote_derived"); rd != nil {
		p.RemoteDerived = *rd
	}

	if v, ok := fields["salary_raw"]; ok {
		var s SalaryRaw
		if err := json.Unmarshal(v, &s); err == nil && (s.Value != nil || s.Currency != "") {
			p.SalaryRaw = &s
		}
	}

	return p, nil
}

func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

func stringsField(fields map[string]json.RawMessage, key string) []string {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	var out []string
	if err := json.Unmarshal(v, &out); err != nil {
		return nil
	}
	return out
}

func boolField(fields map[string]json.RawMessage, key string) *bool {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return nil
	}
	return &b
}

func floatField(fields map[string]json.RawMessage, key string) *float64 {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return nil
	}
	return &f
}
