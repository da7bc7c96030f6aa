// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Show the paid provider's remaining credit balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		client := peopleClient(cfg)

		remaining, err := client.Balance(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Credits remaining: %d\n", remaining)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(creditsCmd)
}
