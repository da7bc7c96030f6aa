// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/api"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the enrichment pipeline and paid-search flow over HTTP",
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

		ledger := credits.NewLedger()
		server := &api.Server{
			Store:    st,
			Pipeline: buildPipeline(cfg, region, nil, ledger),
			People:   peopleClient(cfg),
			Ledger:   ledger,
		}

		log.Printf("prospector API listening on %s", cfg.Serve.Addr)
		return http.ListenAndServe(cfg.Serve.Addr, server.Router())
	},
}

func init() {
	serveCmd.Flags().String("region", "", "focus region (default ch-dach)")
	rootCmd.AddCommand(serveCmd)
}
