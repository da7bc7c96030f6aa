// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/enrich"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
)

var revealCmd = &cobra.Command{
	Use:   "reveal <candidate-id> [candidate-id...]",
	Short: "Reveal email/phone for chosen candidates (paid phase)",
	Long: `Reveal spends credits to uncover contact data for candidates returned
by "search". Each contact × data point combination consumes one credit;
the estimated cost is checked against the remaining balance before any
network call is made.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReveal,
}

func init() {
	revealCmd.Flags().String("points", "email", "data points to reveal, comma-separated (email,phone)")
	revealCmd.Flags().Bool("json", false, "output revealed values as JSON")

	rootCmd.AddCommand(revealCmd)
}

func runReveal(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	asJSON, _ := cmd.Flags().GetBool("json")

	pointsFlag, _ := cmd.Flags().GetString("points")
	var points []providers.DataPoint
	for _, p := range strings.Split(pointsFlag, ",") {
		switch providers.DataPoint(strings.TrimSpace(p)) {
		case providers.PointEmail:
			points = append(points, providers.PointEmail)
		case providers.PointPhone:
			points = append(points, providers.PointPhone)
		case "":
		default:
			return fmt.Errorf("unknown data point %q (use email, phone)", p)
		}
	}
	if len(points) == 0 {
		points = []providers.DataPoint{providers.PointEmail}
	}

	client := peopleClient(cfg)
	ledger := credits.NewLedger()

	// The cached balance starts unknown in a fresh process: query it so
	// the pre-flight check has something to refuse on.
	if bal, err := client.Balance(cmd.Context()); err == nil {
		ledger.Observe(bal)
	}

	cost := credits.EstimateCost(len(args), len(points))
	release, err := ledger.Reserve(cost)
	if err != nil {
		return fmt.Errorf("reveal of %d contacts × %d data points needs %d credits: %w",
			len(args), len(points), cost, err)
	}
	defer release()

	outcome, err := client.Reveal(cmd.Context(), args, points)
	if err != nil {
		if bal, balErr := client.Balance(cmd.Context()); balErr == nil {
			fmt.Fprintf(os.Stderr, "Credits remaining: %d\n", bal)
		}
		return err
	}

	used := outcome.CreditsUsed
	if used == 0 {
		used = cost
	}
	ledger.AddUsed(used)
	remaining := outcome.CreditsRemaining
	if remaining < 0 {
		if bal, balErr := client.Balance(cmd.Context()); balErr == nil {
			remaining = bal
		}
	}

	if asJSON {
		return enrich.FormatJSON(outcome, os.Stdout)
	}
	for id, vals := range outcome.Revealed {
		fmt.Fprintf(os.Stdout, "%-26s  email=%-30s  phone=%s\n", id, orDash(vals.Email), orDash(vals.Phone))
	}
	fmt.Fprintf(os.Stdout, "\nCredits: %d used", used)
	if remaining >= 0 {
		fmt.Fprintf(os.Stdout, ", %d remaining", remaining)
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
