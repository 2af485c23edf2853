package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/internal/domain/job"
	pkgneo4j "github.com/honeycarbs/job-portal/pkg/neo4j"
)

// Ensure JobRepository implements job.Repository
var _ job.Repository = (*JobRepository)(nil)

var schemaStatements = []string{
	`CREATE CONSTRAINT job_id_unique IF NOT EXISTS FOR (j:Job) REQUIRE j.id IS UNIQUE`,
	// text indexes serve CONTAINS on the lowercased copies matched by Search
	`CREATE TEXT INDEX job_title_lower IF NOT EXISTS FOR (j:Job) ON (j.titleLower)`,
	`CREATE TEXT INDEX job_company_lower IF NOT EXISTS FOR (j:Job) ON (j.companyLower)`,
	`CREATE TEXT INDEX job_organization_lower IF NOT EXISTS FOR (j:Job) ON (j.organizationLower)`,
	`CREATE TEXT INDEX job_location_lower IF NOT EXISTS FOR (j:Job) ON (j.locationLower)`,
	`CREATE INDEX job_created_at IF NOT EXISTS FOR (j:Job) ON (j.createdAt)`,
	// backfill nodes written before the lowercased copies existed
	`MATCH (j:Job) WHERE j.titleLower IS NULL
	 SET j.titleLower = toLower(coalesce(j.title, '')),
	     j.companyLower = toLower(coalesce(j.company, '')),
	     j.organizationLower = toLower(coalesce(j.organization, '')),
	     j.locationLower = toLower(coalesce(j.location, ''))`,
}

const upsertJobs = `
	UNWIND $jobs AS job
	MERGE (j:Job {id: job.id})
	ON CREATE SET j.createdAt = datetime()
	SET j.title = job.title,
	    j.company = job.company,
	    j.organization = job.organization,
	    j.location = job.location,
	    j.titleLower = job.titleLower,
	    j.companyLower = job.companyLower,
	    j.organizationLower = job.organizationLower,
	    j.locationLower = job.locationLower,
	    j.description = job.description,
	    j.salary = job.salary,
	    j.salaryMin = job.salaryMin,
	    j.salaryMax = job.salaryMax,
	    j.currency = job.currency,
	    j.remote = job.remote,
	    j.jobType = job.jobType,
	    j.postedDate = CASE WHEN job.postedDate IS NULL THEN null ELSE datetime({epochMillis: job.postedDate}) END,
	    j.applicationUrl = job.applicationUrl,
	    j.source = job.source,
	    j.rawData = job.rawData,
	    j.updatedAt = datetime()
	WITH j, job
	WHERE job.company <> ''
	MERGE (c:Company {name: job.company})
	MERGE (j)-[:POSTED_BY]->(c)
`

const matchJobs = `
	MATCH (j:Job)
	WHERE ($search = '' OR j.titleLower CONTAINS $search
	       OR j.companyLower CONTAINS $search
	       OR j.organizationLower CONTAINS $search)
	  AND ($location = '' OR j.locationLower CONTAINS $location)
	  AND ($remote IS NULL OR j.remote = $remote)
`

// JobRepository stores jobs as Job nodes linked to Company nodes
type JobRepository struct {
	client *pkgneo4j.Client
}

// NewJobRepository creates a JobRepository with a Neo4j client
func NewJobRepository(client *pkgneo4j.Client) *JobRepository {
	return &JobRepository{
		client: client,
	}
}

// EnsureSchema creates the id constraint and search indexes
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	session := r.client.NewSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		res, err := session.Run(ctx, stmt, nil)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			return fmt.Errorf("ensure job schema: %w", err)
		}
	}
	return nil
}

// UpsertJobs merges jobs by id
func (r *JobRepository) UpsertJobs(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	session := r.client.NewSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	jobsData := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		jobsData = append(jobsData, toParams(j))
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, upsertJobs, map[string]any{"jobs": jobsData})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("upsert jobs: %w", err)
	}

	return nil
}

// FindByID loads one job, returning domain.ErrNotFound when it is missing
func (r *JobRepository) FindByID(ctx context.Context, id string) (domain.Job, error) {
	session := r.client.NewSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `MATCH (j:Job {id: $id}) RETURN j LIMIT 1`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return domain.Job{}, fmt.Errorf("find job: %w", err)
	}

	records := out.([]*neo4j.Record)
	if len(records) == 0 {
		return domain.Job{}, domain.ErrNotFound
	}

	return jobFromRecord(records[0])
}

// Search returns one page of matching jobs, newest first, and the total match count
func (r *JobRepository) Search(ctx context.Context, q job.StoreQuery) ([]domain.Job, int, error) {
	session := r.client.NewSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	params := searchParams(q)

	type page struct {
		total int
		jobs  []domain.Job
	}

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		countRes, err := tx.Run(ctx, matchJobs+` RETURN count(j) AS total`, params)
		if err != nil {
			return nil, err
		}
		rec, err := countRes.Single(ctx)
		if err != nil {
			return nil, err
		}
		total, _ := rec.Get("total")

		res, err := tx.Run(ctx, matchJobs+` RETURN j ORDER BY j.createdAt DESC, j.id SKIP $offset LIMIT $limit`, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		p := page{jobs: make([]domain.Job, 0, len(records))}
		if n, ok := total.(int64); ok {
			p.total = int(n)
		}
		for _, record := range records {
			j, err := jobFromRecord(record)
			if err != nil {
				return nil, err
			}
			p.jobs = append(p.jobs, j)
		}
		return p, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search jobs: %w", err)
	}

	p := out.(page)
	return p.jobs, p.total, nil
}

func searchParams(q job.StoreQuery) map[string]any {
	params := map[string]any{
		"search":   lower(q.Search),
		"location": lower(q.Location),
		"remote":   nil,
		"offset":   int64(q.Offset),
		"limit":    int64(q.Limit),
	}
	if q.Remote != nil {
		params["remote"] = *q.Remote
	}
	return params
}

func toParams(j domain.Job) map[string]any {
	var posted any
	if !j.PostedDate.IsZero() {
		posted = j.PostedDate.UnixMilli()
	}

	var raw any
	if len(j.Raw) > 0 {
		raw = string(j.Raw)
	}

	return map[string]any{
		"id":                j.ID,
		"title":             j.Title,
		"company":           j.Company,
		"organization":      j.Organization,
		"location":          j.Location,
		"titleLower":        lower(j.Title),
		"companyLower":      lower(j.Company),
		"organizationLower": lower(j.Organization),
		"locationLower":     lower(j.Location),
		"description":       j.Description,
		"salary":            j.Salary,
		"salaryMin":         floatOrNil(j.SalaryMin),
		"salaryMax":         floatOrNil(j.SalaryMax),
		"currency":          j.Currency,
		"remote":            j.Remote,
		"jobType":           j.JobType,
		"postedDate":        posted,
		"applicationUrl":    j.ApplicationURL,
		"source":            j.Source,
		"rawData":           raw,
	}
}

func jobFromRecord(record *neo4j.Record) (domain.Job, error) {
	val, ok := record.Get("j")
	if !ok {
		return domain.Job{}, fmt.Errorf("record has no job node")
	}
	node, ok := val.(neo4j.Node)
	if !ok {
		return domain.Job{}, fmt.Errorf("unexpected value %T for job node", val)
	}

	props := node.Props
	j := domain.Job{
		ID:             propString(props, "id"),
		Title:          propString(props, "title"),
		Company:        propString(props, "company"),
		Organization:   propString(props, "organization"),
		Location:       propString(props, "location"),
		Description:    propString(props, "description"),
		Salary:         propString(props, "salary"),
		SalaryMin:      propFloat(props, "salaryMin"),
		SalaryMax:      propFloat(props, "salaryMax"),
		Currency:       propString(props, "currency"),
		JobType:        propString(props, "jobType"),
		PostedDate:     propTime(props, "postedDate"),
		ApplicationURL: propString(props, "applicationUrl"),
		Source:         propString(props, "source"),
		CreatedAt:      propTime(props, "createdAt"),
	}
	if remote, ok := props["remote"].(bool); ok {
		j.Remote = remote
	}
	if raw := propString(props, "rawData"); raw != "" && json.Valid([]byte(raw)) {
		j.Raw = json.RawMessage(raw)
	}

	return j, nil
}

func propString(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func propFloat(props map[string]any, key string) *float64 {
	switch v := props[key].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

func propTime(props map[string]any, key string) time.Time {
	switch v := props[key].(type) {
	case time.Time:
		return v.UTC()
	case neo4j.LocalDateTime:
		return v.Time().UTC()
	default:
		return time.Time{}
	}
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
