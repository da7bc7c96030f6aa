// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/enrich"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the paid people provider for masked candidates (free phase)",
	Long: `Search runs the free phase of the paid provider's two-phase protocol:
it returns masked candidates with role and location but without email or
phone values. Rank the output, pick candidate IDs, then use "reveal" to
spend credits on the ones worth contacting.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("domain", "", "company root domain")
	searchCmd.Flags().String("company", "", "company name")
	searchCmd.Flags().String("location", "", "country filter (a hint, dropped when it yields nothing)")
	searchCmd.Flags().Int("limit", 0, "maximum candidates (default: provider page size)")
	searchCmd.Flags().String("region", "", "focus region used for ranking (default ch-dach)")
	searchCmd.Flags().Bool("json", false, "output candidates as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	region, err := regionFlag(cmd, cfg)
	if err != nil {
		return err
	}

	domain, _ := cmd.Flags().GetString("domain")
	company, _ := cmd.Flags().GetString("company")
	location, _ := cmd.Flags().GetString("location")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	client := peopleClient(cfg)
	criteria := providers.Criteria{
		Domain:      providers.DomainFromURL(domain),
		CompanyName: company,
		Location:    location,
	}

	cands, err := client.SearchCandidates(cmd.Context(), criteria, limit)
	if err != nil {
		return err
	}

	ranked := enrich.RankCandidates(cands, region)
	if asJSON {
		return enrich.FormatJSON(ranked, os.Stdout)
	}
	enrich.FormatCandidates(ranked, region, os.Stdout)
	return nil
}
