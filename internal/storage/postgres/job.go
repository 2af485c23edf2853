package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/internal/domain/job"
)

// Ensure JobRepository implements job.Repository
var _ job.Repository = (*JobRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL DEFAULT '',
	company         TEXT NOT NULL DEFAULT '',
	organization    TEXT NOT NULL DEFAULT '',
	location        TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	salary          TEXT NOT NULL DEFAULT '',
	salary_min      DOUBLE PRECISION,
	salary_max      DOUBLE PRECISION,
	currency        TEXT NOT NULL DEFAULT '',
	remote          BOOLEAN NOT NULL DEFAULT FALSE,
	job_type        TEXT NOT NULL DEFAULT '',
	posted_date     TIMESTAMPTZ,
	application_url TEXT NOT NULL DEFAULT '',
	source          TEXT NOT NULL DEFAULT 'rapidapi',
	raw_data        JSONB,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS jobs_created_at_idx ON jobs (created_at DESC, id);
CREATE EXTENSION IF NOT EXISTS pg_trgm;
`

// searchColumns are matched by the free-text search, locationColumn by the location filter.
// Each gets a trigram index so the ILIKE '%...%' predicates can use it.
var (
	searchColumns  = []string{"title", "company", "organization"}
	locationColumn = "location"
)

func trigramIndexes() []string {
	cols := append(append([]string{}, searchColumns...), locationColumn)
	stmts := make([]string, 0, len(cols))
	for _, c := range cols {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS jobs_%s_trgm_idx ON jobs USING GIN (%s gin_trgm_ops)", c, c))
	}
	return stmts
}

const upsertJob = `
INSERT INTO jobs (id, title, company, organization, location, description, salary, salary_min, salary_max,
                  currency, remote, job_type, posted_date, application_url, source, raw_data)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16::jsonb)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	company = EXCLUDED.company,
	organization = EXCLUDED.organization,
	location = EXCLUDED.location,
	description = EXCLUDED.description,
	salary = EXCLUDED.salary,
	salary_min = EXCLUDED.salary_min,
	salary_max = EXCLUDED.salary_max,
	currency = EXCLUDED.currency,
	remote = EXCLUDED.remote,
	job_type = EXCLUDED.job_type,
	posted_date = EXCLUDED.posted_date,
	application_url = EXCLUDED.application_url,
	source = EXCLUDED.source,
	raw_data = EXCLUDED.raw_data,
	updated_at = now()`

const jobColumns = `id, title, company, organization, location, description, salary, salary_min, salary_max,
	currency, remote, job_type, posted_date, application_url, source, raw_data, created_at`

// JobRepository stores jobs as rows with the provider payload in a JSONB column
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a JobRepository on top of a pgx pool
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// EnsureSchema creates the jobs table and its indexes when missing
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure jobs schema: %w", err)
	}
	for _, stmt := range trigramIndexes() {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure jobs search index: %w", err)
		}
	}
	return nil
}

// UpsertJobs inserts or updates jobs keyed by id in a single batch
func (r *JobRepository) UpsertJobs(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(upsertJob, upsertArgs(j)...)
	}

	br := r.pool.SendBatch(ctx, batch)
	for i := range jobs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert job %q: %w", jobs[i].ID, err)
		}
	}

	return br.Close()
}

// FindByID loads one job, returning domain.ErrNotFound when it is missing
func (r *JobRepository) FindByID(ctx context.Context, id string) (domain.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Job{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Job{}, fmt.Errorf("find job: %w", err)
	}
	return j, nil
}

// Search returns one page of matching jobs, newest first, and the total match count
func (r *JobRepository) Search(ctx context.Context, q job.StoreQuery) ([]domain.Job, int, error) {
	where, args := buildWhere(q)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	if total == 0 {
		return []domain.Job{}, 0, nil
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM jobs%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		jobColumns, where, n+1, n+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0, q.Limit)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("search jobs: %w", err)
	}

	return jobs, total, nil
}

// buildWhere renders the filter as a WHERE clause with positional arguments
func buildWhere(q job.StoreQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		ors := make([]string, 0, len(searchColumns))
		for _, c := range searchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", c, len(args)))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if q.Location != "" {
		args = append(args, "%"+escapeLike(q.Location)+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", locationColumn, len(args)))
	}
	if q.Remote != nil {
		args = append(args, *q.Remote)
		conds = append(conds, fmt.Sprintf("remote = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func upsertArgs(j domain.Job) []any {
	var posted *time.Time
	if !j.PostedDate.IsZero() {
		t := j.PostedDate.UTC()
		posted = &t
	}

	var raw any
	if len(j.Raw) > 0 {
		raw = string(j.Raw)
	}

	return []any{
		j.ID, j.Title, j.Company, j.Organization, j.Location, j.Description, j.Salary,
		j.SalaryMin, j.SalaryMax, j.Currency, j.Remote, j.JobType, posted, j.ApplicationURL,
		j.Source, raw,
	}
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var (
		j      domain.Job
		posted *time.Time
		raw    []byte
	)

	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Organization, &j.Location, &j.Description, &j.Salary,
		&j.SalaryMin, &j.SalaryMax, &j.Currency, &j.Remote, &j.JobType, &posted, &j.ApplicationURL,
		&j.Source, &raw, &j.CreatedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}

	if posted != nil {
		j.PostedDate = posted.UTC()
	}
	if len(raw) > 0 {
		j.Raw = raw
	}

	return j, nil
}
