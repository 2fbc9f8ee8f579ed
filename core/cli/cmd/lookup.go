package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/diavgeia-watch/diavgeia/core/application/catalog"
	"github.com/diavgeia-watch/diavgeia/core/application/orgs"
	"github.com/diavgeia-watch/diavgeia/core/application/terminology"
	"github.com/diavgeia-watch/diavgeia/core/cli/internal"
)

const (
	lookupCategoryLimit = 10
	lookupOrgLimit      = 10
)

var lookupMinScore int

// lookupCmd exposes the resolvers without a database or backend.
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Inspect how a phrase is grounded (offline)",
}

var lookupCPVCmd = &cobra.Command{
	Use:           "cpv <query>",
	Short:         "Search the CPV category table",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		matches := catalog.New().Search(strings.Join(args, " "), lookupCategoryLimit, lookupMinScore)
		internal.PrintCategories(cmd.OutOrStdout(), matches)
		return nil
	},
}

var lookupOrgCmd = &cobra.Command{
	Use:           "org <name>",
	Short:         "Resolve an organization name against the curated directory",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		resolver := orgs.New(nil, 0)
		resolved, _ := resolver.Resolve(cmd.Context(), query)
		internal.PrintOrganizations(cmd.OutOrStdout(), resolved, resolver.Search(query, lookupOrgLimit))
		return nil
	},
}

var lookupTermsCmd = &cobra.Command{
	Use:           "terms <question>",
	Short:         "Show the terminology hints extracted from a question",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		res := terminology.New().Preprocess(strings.Join(args, " "))
		internal.PrintHints(cmd.OutOrStdout(), res.Hints())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.AddCommand(lookupCPVCmd, lookupOrgCmd, lookupTermsCmd)

	lookupCPVCmd.Flags().IntVar(&lookupMinScore, "min-score", 1, "Minimum match score")
}
