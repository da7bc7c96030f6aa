// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/enrich"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <entity-type> <entity-id>",
	Short: "Run the contact acquisition cascade for one entity",
	Long: `Enrich runs the provider cascade for a product or brand: contacts from
upstream AI extraction (via --ai-contacts), domain email search, the
company's own contact pages, and — with --paid — the credit-metered people
search. Results are deduplicated against the existing roster, ranked by
relevance to the focus region, capped, and stored.`,
	Args: cobra.ExactArgs(2),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().Bool("paid", false, "allow the credit-consuming people search stage")
	enrichCmd.Flags().String("region", "", "focus region (default ch-dach)")
	enrichCmd.Flags().String("ai-contacts", "", "YAML file with contacts from upstream AI extraction")
	enrichCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	entityType, entityID := types.EntityType(args[0]), args[1]
	usePaid, _ := cmd.Flags().GetBool("paid")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := pipelineConfig()
	region, err := regionFlag(cmd, cfg)
	if err != nil {
		return err
	}

	aiContacts, err := loadAIContacts(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	info, err := st.GetEntityContacts(cmd.Context(), entityType, entityID)
	if err != nil {
		return err
	}

	ledger := credits.NewLedger()
	pipeline := buildPipeline(cfg, region, aiContacts, ledger)

	out, err := pipeline.Enrich(cmd.Context(), info, usePaid, os.Stderr)
	if err != nil {
		return err
	}

	contacts, err := st.ReplaceEntityContacts(cmd.Context(), entityType, entityID, out.Contacts)
	if err != nil {
		return err
	}
	out.Contacts = contacts

	if asJSON {
		return enrich.FormatJSON(out, os.Stdout)
	}
	enrich.FormatStats(out, os.Stdout)
	fmt.Fprintln(os.Stdout)
	enrich.FormatRoster(out.Contacts, region, os.Stdout)
	return nil
}

// regionFlag resolves the focus region from the flag or the config.
func regionFlag(cmd *cobra.Command, cfg types.PipelineConfig) (enrich.Region, error) {
	name, _ := cmd.Flags().GetString("region")
	if name == "" {
		name = cfg.Enrich.FocusRegion
	}
	region, ok := enrich.RegionByName(name)
	if !ok {
		return enrich.Region{}, fmt.Errorf("unknown focus region %q", name)
	}
	return region, nil
}

// loadAIContacts reads the upstream extraction collaborator's contact
// output from a YAML file, when provided.
func loadAIContacts(cmd *cobra.Command) ([]types.ContactRecord, error) {
	path, _ := cmd.Flags().GetString("ai-contacts")
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AI contacts file: %w", err)
	}

	var wrapper struct {
		Contacts []types.ContactRecord `yaml:"contacts"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err == nil && wrapper.Contacts != nil {
		return wrapper.Contacts, nil
	}

	// Also accept a bare list.
	var list []types.ContactRecord
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing AI contacts file: %w", err)
	}
	return list, nil
}
