package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/job-portal/pkg/jobsapi"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

type rootOptions struct {
	apiURL  string
	asJSON  bool
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "jobsearch",
		Short:        "Search the job portal from the terminal",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("JOBS_API_URL", jobsapi.DefaultBaseURL), "Base URL of the job portal API")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON instead of a table")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(newListCommand(opts), newGetCommand(opts), newHealthCommand(opts))
	return cmd
}

func (o *rootOptions) client() (*jobsapi.Client, *logging.Logger, error) {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger := logging.NewDevelopment(level)

	c, err := jobsapi.NewClient(jobsapi.Config{BaseURL: o.apiURL})
	return c, logger, err
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		params jobsapi.ListParams
		remote string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs matching a search",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch remote {
			case "":
			case "true", "false":
				v := remote == "true"
				params.Remote = &v
			default:
				return errors.New("--remote must be true or false")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			logger.Debug("listing jobs", "url", opts.apiURL, "search", params.Search, "page", params.Page)
			res, err := c.List(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, res)
			}
			return printList(out, res)
		},
	}

	cmd.Flags().StringVarP(&params.Search, "search", "s", "", "Title or company text")
	cmd.Flags().StringVarP(&params.Location, "location", "l", "", "Location text")
	cmd.Flags().StringVar(&remote, "remote", "", "Only remote (true) or on-site (false) jobs")
	cmd.Flags().IntVarP(&params.Page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 10, "Page size (10-100)")

	return cmd
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			logger.Debug("fetching job", "id", args[0])
			res, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, res)
			}
			return printJob(out, res)
		},
	}
}

func newHealthCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.Health(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return err
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printList(w io.Writer, res jobsapi.ListResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION")
	for _, j := range res.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", j.ID, j.Title, company(j), j.Location)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := res.Pagination
	_, err := fmt.Fprintf(w, "\npage %d of %d, %d jobs (source: %s)\n", p.Page, p.TotalPages, p.Total, res.Source)
	return err
}

func printJob(w io.Writer, res jobsapi.JobResponse) error {
	j := res.Data

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", j.Title, company(j))
	if j.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", j.Location)
	}
	if j.RemoteDerived {
		b.WriteString("Remote\n")
	}
	if link := firstNonEmpty(j.URL, j.ApplicationURL); link != "" {
		fmt.Fprintf(&b, "Apply: %s\n", link)
	}
	if text := firstNonEmpty(j.DescriptionText, j.Description); text != "" {
		fmt.Fprintf(&b, "\n%s\n", text)
	}
	fmt.Fprintf(&b, "\n(source: %s)\n", res.Source)

	_, err := io.WriteString(w, b.String())
	return err
}

func company(j jobsapi.Job) string {
	return firstNonEmpty(j.Organization, j.Company)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

