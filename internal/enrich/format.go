// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// FormatRoster writes the roster as a human-readable table to w.
func FormatRoster(contacts []types.ContactRecord, region Region, w io.Writer) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-22s  %-28s  %-28s  %-18s  %-5s  %s\n",
		"Rank", "Name", "Title", "Email", "Location", "Score", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, c := range contacts {
		fmt.Fprintf(w, "%-4d  %-22s  %-28s  %-28s  %-18s  %-5d  %s\n",
			i+1,
			clip(c.Name, 22),
			clip(c.Title, 28),
			clip(c.Email, 28),
			clip(c.Location, 18),
			Score(c, region),
			c.Source)
	}
	fmt.Fprintf(w, "\n%d contacts\n", len(contacts))
}

// FormatCandidates writes masked paid-search candidates as a table, in
// score order, so the user can choose which to reveal.
func FormatCandidates(cands []providers.Candidate, region Region, w io.Writer) {
	if len(cands) == 0 {
		fmt.Fprintln(w, "No candidates found.")
		return
	}

	fmt.Fprintf(w, "%-26s  %-22s  %-28s  %-18s  %-5s  %-5s  %s\n",
		"ID", "Name", "Title", "Location", "Email", "Phone", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, cand := range cands {
		fmt.Fprintf(w, "%-26s  %-22s  %-28s  %-18s  %-5s  %-5s  %d\n",
			clip(cand.ID, 26),
			clip(cand.Name, 22),
			clip(cand.Title, 28),
			clip(cand.Location(), 18),
			yesNo(cand.HasEmail),
			yesNo(cand.HasPhone),
			Score(cand.Record(), region))
	}
	fmt.Fprintf(w, "\n%d candidates (email/phone columns show availability, not values)\n", len(cands))
}

// FormatStats writes the per-stage enrichment summary.
func FormatStats(out Output, w io.Writer) {
	for _, s := range out.Stats.Stages {
		switch {
		case s.Skipped:
			fmt.Fprintf(w, "  %-20s skipped\n", s.Provider)
		case s.Err != "":
			fmt.Fprintf(w, "  %-20s found %d (error: %s)\n", s.Provider, s.Found, s.Err)
		default:
			fmt.Fprintf(w, "  %-20s found %d\n", s.Provider, s.Found)
		}
	}
	fmt.Fprintf(w, "Roster: %d before, %d after, %d new\n",
		out.Stats.Before, out.Stats.After, out.Stats.NewAdded)
	if out.Credits != nil {
		fmt.Fprintf(w, "Credits: %d used, %d remaining\n",
			out.Credits.Used, out.Credits.Remaining)
	}
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
