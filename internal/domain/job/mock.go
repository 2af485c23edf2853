package job

import (
	"strings"

	"github.com/honeycarbs/job-portal/internal/domain"
)

// MockJobs is the static listing served when neither a store nor a provider is configured
func MockJobs() []domain.Job {
	return []domain.Job{
		{
			ID:          "1903980996",
			Title:       "Software Engineer",
			Company:     "Tech Corp",
			Location:    "Remote",
			Description: "We are looking for a skilled software engineer...",
		},
	}
}

// filterMock keeps jobs whose title or company contains search, case-insensitively
func filterMock(jobs []domain.Job, search string) []domain.Job {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return jobs
	}

	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if strings.Contains(strings.ToLower(j.Title), search) ||
			strings.Contains(strings.ToLower(j.CompanyName()), search) {
			out = append(out, j)
		}
	}
	return out
}
