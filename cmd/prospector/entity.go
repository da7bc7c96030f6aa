// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/enrich"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

var entityCmd = &cobra.Command{
	Use:   "entity <entity-type> <entity-id>",
	Short: "Create or update an entity's company attributes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		company, _ := cmd.Flags().GetString("company")
		website, _ := cmd.Flags().GetString("website")
		parent, _ := cmd.Flags().GetString("parent")

		info := types.EntityInfo{
			Type:           types.EntityType(args[0]),
			ID:             args[1],
			CompanyName:    company,
			CompanyWebsite: website,
			ParentCompany:  parent,
		}
		if err := st.UpsertEntity(cmd.Context(), info); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Entity %s/%s stored.\n", info.Type, info.ID)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <entity-type> <entity-id>",
	Short: "Manually add a single contact to an entity's roster",
	Long: `Add appends one manually entered contact. Manual additions bypass the
automated roster cap, but a duplicate of an existing contact (same email
or same name) is refused.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		entityType, entityID := types.EntityType(args[0]), args[1]

		name, _ := cmd.Flags().GetString("name")
		title, _ := cmd.Flags().GetString("title")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		linkedin, _ := cmd.Flags().GetString("linkedin")
		location, _ := cmd.Flags().GetString("location")

		contact := types.ContactRecord{
			Name:        name,
			Title:       title,
			Email:       email,
			Phone:       phone,
			LinkedInURL: linkedin,
			Location:    location,
			Source:      types.SourceManual,
			Confidence:  1.0,
		}
		if !contact.Actionable() {
			return fmt.Errorf("a manual contact needs a name, an email, or a LinkedIn URL")
		}

		info, err := st.GetEntityContacts(cmd.Context(), entityType, entityID)
		if err != nil {
			return err
		}
		for _, have := range info.Contacts {
			if enrich.SameContact(have, contact) {
				return fmt.Errorf("duplicate of an existing contact, not added")
			}
		}

		if err := st.AddSingleContact(cmd.Context(), entityType, entityID, contact); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Contact added to %s/%s.\n", entityType, entityID)
		return nil
	},
}

var contactsCmd = &cobra.Command{
	Use:   "contacts <entity-type> <entity-id>",
	Short: "Show an entity's current contact roster",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		region, err := regionFlag(cmd, cfg)
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		info, err := st.GetEntityContacts(cmd.Context(), types.EntityType(args[0]), args[1])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return enrich.FormatJSON(info, os.Stdout)
		}
		enrich.FormatRoster(info.Contacts, region, os.Stdout)
		return nil
	},
}

func init() {
	entityCmd.Flags().String("company", "", "company name")
	entityCmd.Flags().String("website", "", "company root URL")
	entityCmd.Flags().String("parent", "", "parent company name")

	addCmd.Flags().String("name", "", "contact name")
	addCmd.Flags().String("title", "", "job title")
	addCmd.Flags().String("email", "", "email address")
	addCmd.Flags().String("phone", "", "phone number")
	addCmd.Flags().String("linkedin", "", "LinkedIn profile URL")
	addCmd.Flags().String("location", "", "location (City, Country)")

	contactsCmd.Flags().String("region", "", "focus region used for score display (default ch-dach)")
	contactsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(entityCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(contactsCmd)
}
