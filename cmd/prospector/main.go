// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prospector CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the prospector CLI.
var rootCmd = &cobra.Command{
	Use:   "prospector",
	Short: "Build ranked decision-maker contact rosters for products and brands",
	Long: `prospector maintains a ranked, deduplicated roster of decision-maker
contacts per product or brand by combining several data sources: contacts
already extracted by AI content analysis, free domain-based email lookup,
the company's own contact pages, and a paid credit-metered people search.

Free sources run first; the paid search-then-reveal flow only runs when
explicitly requested and is gated on the remaining credit balance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prospector.yaml or ~/.config/prospector/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database file (default prospector.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prospector")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prospector"))
		}
	}

	viper.SetEnvPrefix("PROSPECTOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
