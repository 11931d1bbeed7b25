package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitprint/internal/domain/query"
	logpkg "github.com/kailas-cloud/hitprint/internal/logger"
	searchrepo "github.com/kailas-cloud/hitprint/internal/repository/search"
	"github.com/kailas-cloud/hitprint/internal/usecase/project"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Execute a query and print the requested fields of each hit",
	Long: `Query runs --expr once against --index and prints one "<field>: <value>"
line per requested field per hit, hits in backend order and fields in the
order given. Absent fields print as None.

The expression is passed to the backend untouched: an FT.SEARCH query for
valkey/redis, a Lucene query string or JSON request body for elasticsearch.`,
	Example: `  hitprint query --index articles:idx --expr '@lang:{go}' --fields title,score
  hitprint query --index logs --expr '{"query":{"match":{"msg":"timeout"}}}' --fields msg,host`,
	RunE: runQuery,
}

func init() {
	addSpecFlags(queryCmd, true)
	queryCmd.Flags().StringSlice("fields", nil, "fields to print, in order (comma-separated)")

	rootCmd.AddCommand(queryCmd)
}

// addSpecFlags registers the flags read by specFromFlags.
func addSpecFlags(cmd *cobra.Command, paging bool) {
	cmd.Flags().String("index", "", "index to search (required)")
	cmd.Flags().String("expr", "", `backend query expression, "-" reads it from stdin (required)`)
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("expr")
	if paging {
		cmd.Flags().Int("limit", 0, "maximum number of hits (default: query.default_limit)")
		cmd.Flags().Int("offset", 0, "number of hits to skip")
		cmd.Flags().StringSlice("return", nil, "fields the backend should return (comma-separated)")
	}
}

func runQuery(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	spec, err := specFromFlags(cmd)
	if err != nil {
		return err
	}
	fields, _ := cmd.Flags().GetStringSlice("fields")

	ctx := logpkg.ContextWithLogger(cmd.Context(), rt.logger)
	ctx = logpkg.With(ctx, zap.String("index", spec.Index()))
	store, err := openStore(ctx, rt.cfg.Database, rt.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	repo := searchrepo.New(store, rt.cfg.Query.DefaultLimit, rt.cfg.Query.MaxLimit)
	svc := project.New(project.WithOutput(cmd.OutOrStdout()))
	return svc.Project(ctx, repo.Bind(spec), trimAll(fields)) //nolint:wrapcheck // printed as-is by main
}

func specFromFlags(cmd *cobra.Command) (query.Spec, error) {
	index, _ := cmd.Flags().GetString("index")
	expr, _ := cmd.Flags().GetString("expr")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	returnFields, _ := cmd.Flags().GetStringSlice("return")

	if expr == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return query.Spec{}, fmt.Errorf("read expression from stdin: %w", err)
		}
		expr = strings.TrimSpace(string(b))
	}

	return query.New(index, expr, limit, offset, trimAll(returnFields)) //nolint:wrapcheck // validation message is user-facing
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
